package utils

import (
	"math/big"
	"testing"
)

func TestParseEther(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "1000000000000000000"},
		{"0.001", "1000000000000000"},
		{"0.0008", "800000000000000"},
		{"0", "0"},
	}
	for _, tc := range tests {
		got, err := ParseEther(tc.in)
		if err != nil {
			t.Errorf("ParseEther(%q) failed: %v", tc.in, err)
			continue
		}
		if got.String() != tc.want {
			t.Errorf("ParseEther(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseUnits_Stablecoin(t *testing.T) {
	got, err := ParseUnits("2.5", StablecoinDecimals)
	if err != nil {
		t.Fatalf("ParseUnits failed: %v", err)
	}
	if got.String() != "2500000" {
		t.Errorf("ParseUnits(2.5, 6) = %s, want 2500000", got)
	}
}

func TestParseUnits_RejectsBadInput(t *testing.T) {
	if _, err := ParseUnits("abc", 6); err == nil {
		t.Error("expected error for non-numeric input")
	}
	if _, err := ParseUnits("-1", 6); err == nil {
		t.Error("expected error for negative amount")
	}
	if _, err := ParseUnits("0.1234567", 6); err == nil {
		t.Error("expected error for too many decimal places")
	}
}

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		in       *big.Int
		decimals int
		want     string
	}{
		{big.NewInt(2500000), 6, "2.5"},
		{big.NewInt(1000000000000000), 18, "0.001"},
		{big.NewInt(0), 6, "0"},
		{nil, 6, "0"},
	}
	for _, tc := range tests {
		if got := FormatUnits(tc.in, tc.decimals); got != tc.want {
			t.Errorf("FormatUnits(%v, %d) = %s, want %s", tc.in, tc.decimals, got, tc.want)
		}
	}
}

func TestUint64Bytes_RoundTrip(t *testing.T) {
	key := Uint64ToBytes(42)
	if len(key) != 8 {
		t.Fatalf("key length = %d, want 8", len(key))
	}

	parsed, err := StringToUint64("42")
	if err != nil {
		t.Fatalf("StringToUint64 failed: %v", err)
	}
	if parsed != 42 {
		t.Errorf("parsed = %d, want 42", parsed)
	}
}
