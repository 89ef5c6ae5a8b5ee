package client

import (
	"strings"
	"testing"
)

// well-known throwaway development key
const testKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestNewSigner_AddressDerivation(t *testing.T) {
	signer, err := NewSigner(testKey, true)
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}

	want := "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	if got := signer.Address().Hex(); got != want {
		t.Errorf("Address() = %s, want %s", got, want)
	}
}

func TestNewSigner_AcceptsHexPrefix(t *testing.T) {
	a, err := NewSigner(testKey, true)
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}
	b, err := NewSigner("0x"+testKey, true)
	if err != nil {
		t.Fatalf("NewSigner() with prefix error = %v", err)
	}
	if a.Address() != b.Address() {
		t.Error("0x prefix changed the derived address")
	}
}

func TestNewSigner_RejectsGarbage(t *testing.T) {
	if _, err := NewSigner("not-a-key", true); err == nil {
		t.Error("expected error for invalid private key")
	}
}

func TestActionHash_Deterministic(t *testing.T) {
	action := cancelAction{
		Type:    "cancel",
		Cancels: []CancelWire{{Asset: 0, OrderID: 42}},
	}

	h1, err := ActionHash(action, 1700000000000)
	if err != nil {
		t.Fatalf("ActionHash() error = %v", err)
	}
	h2, err := ActionHash(action, 1700000000000)
	if err != nil {
		t.Fatalf("ActionHash() error = %v", err)
	}
	if h1 != h2 {
		t.Error("identical action and nonce produced different hashes")
	}

	h3, err := ActionHash(action, 1700000000001)
	if err != nil {
		t.Fatalf("ActionHash() error = %v", err)
	}
	if h1 == h3 {
		t.Error("nonce change did not change the hash")
	}
}

func TestSignAction_Shape(t *testing.T) {
	signer, err := NewSigner(testKey, true)
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}

	action := orderAction{
		Type: "order",
		Orders: []OrderWire{{
			Asset: 0,
			IsBuy: true,
			Price: "64100",
			Size:  "0.01",
			Type:  OrderType{Limit: &LimitOrderType{Tif: TifAlo}},
		}},
		Grouping: "na",
	}

	sig, err := signer.SignAction(action, 1700000000000)
	if err != nil {
		t.Fatalf("SignAction() error = %v", err)
	}

	if !strings.HasPrefix(sig.R, "0x") || len(sig.R) != 66 {
		t.Errorf("R = %q, want 0x-prefixed 32-byte hex", sig.R)
	}
	if !strings.HasPrefix(sig.S, "0x") || len(sig.S) != 66 {
		t.Errorf("S = %q, want 0x-prefixed 32-byte hex", sig.S)
	}
	if sig.V != 27 && sig.V != 28 {
		t.Errorf("V = %d, want 27 or 28", sig.V)
	}

	// same inputs, same signature: signing is deterministic
	again, err := signer.SignAction(action, 1700000000000)
	if err != nil {
		t.Fatalf("SignAction() error = %v", err)
	}
	if sig != again {
		t.Error("repeated signing produced a different signature")
	}

	// mainnet and testnet signers must diverge on the same action
	testnet, err := NewSigner(testKey, false)
	if err != nil {
		t.Fatalf("NewSigner() error = %v", err)
	}
	other, err := testnet.SignAction(action, 1700000000000)
	if err != nil {
		t.Fatalf("SignAction() error = %v", err)
	}
	if sig == other {
		t.Error("mainnet and testnet signatures are identical")
	}
}
