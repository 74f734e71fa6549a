package chain

import (
	"testing"

	agerr "github.com/injkit/injagent/internal/errors"
)

func TestToBaseUnits(t *testing.T) {
	cases := []struct {
		human    string
		decimals int
		want     string
	}{
		{"1", 18, "1000000000000000000"},
		{"1.5", 6, "1500000"},
		{"0", 6, "0"},
		{"0.000001", 6, "1"},
		{"2.123456789", 6, "2123456"}, // sub-base-unit remainder truncated
		{"42", 0, "42"},
	}
	for _, tc := range cases {
		got, err := ToBaseUnits(tc.human, tc.decimals)
		if err != nil {
			t.Fatalf("ToBaseUnits(%q, %d): %v", tc.human, tc.decimals, err)
		}
		if got != tc.want {
			t.Fatalf("ToBaseUnits(%q, %d) = %q, want %q", tc.human, tc.decimals, got, tc.want)
		}
	}
}

func TestToBaseUnitsRejectsMalformedInput(t *testing.T) {
	for _, bad := range []string{"", "-1", "+1", "1e5", "1.", ".5", "abc", "1.2.3", "0x10"} {
		if _, err := ToBaseUnits(bad, 6); err == nil {
			t.Fatalf("ToBaseUnits(%q) should fail", bad)
		} else if !agerr.Is(err, agerr.CodeInvalidAmount) {
			t.Fatalf("ToBaseUnits(%q): expected CodeInvalidAmount, got %v", bad, err)
		}
	}
}

func TestFromBaseUnits(t *testing.T) {
	cases := []struct {
		base     string
		decimals int
		want     string
	}{
		{"1500000", 6, "1.5"},
		{"1000000", 6, "1"},
		{"1", 6, "0.000001"},
		{"0", 18, "0"},
		{"42", 0, "42"},
	}
	for _, tc := range cases {
		got, err := FromBaseUnits(tc.base, tc.decimals)
		if err != nil {
			t.Fatalf("FromBaseUnits(%q, %d): %v", tc.base, tc.decimals, err)
		}
		if got != tc.want {
			t.Fatalf("FromBaseUnits(%q, %d) = %q, want %q", tc.base, tc.decimals, got, tc.want)
		}
	}
}

func TestUnitsRoundTrip(t *testing.T) {
	// For any non-negative integer base amount, base -> human -> base is
	// the identity; truncation only ever discards sub-unit fractions.
	for _, base := range []string{"0", "1", "999", "1000000", "123456789012345678901234567890"} {
		for _, decimals := range []int{0, 6, 18} {
			human, err := FromBaseUnits(base, decimals)
			if err != nil {
				t.Fatalf("FromBaseUnits(%q, %d): %v", base, decimals, err)
			}
			back, err := ToBaseUnits(human, decimals)
			if err != nil {
				t.Fatalf("ToBaseUnits(%q, %d): %v", human, decimals, err)
			}
			if back != base {
				t.Fatalf("round trip %q via %d decimals gave %q", base, decimals, back)
			}
		}
	}
}

func TestToChainPrice(t *testing.T) {
	// decimals{base:18, quote:6}: human 2.5 scales by 10^(6-18) with no
	// floating-point artifacts.
	got, err := ToChainPrice("2.5", 18, 6)
	if err != nil {
		t.Fatalf("ToChainPrice: %v", err)
	}
	if got != "0.0000000000025" {
		t.Fatalf("ToChainPrice(2.5, 18, 6) = %q, want 0.0000000000025", got)
	}

	got, err = ToChainPrice("3", 6, 6)
	if err != nil {
		t.Fatalf("ToChainPrice: %v", err)
	}
	if got != "3" {
		t.Fatalf("ToChainPrice(3, 6, 6) = %q, want 3", got)
	}

	got, err = ToChainPrice("1.25", 6, 18)
	if err != nil {
		t.Fatalf("ToChainPrice: %v", err)
	}
	if got != "1250000000000" {
		t.Fatalf("ToChainPrice(1.25, 6, 18) = %q, want 1250000000000", got)
	}
}

func TestToChainPriceRejectsMalformedInput(t *testing.T) {
	if _, err := ToChainPrice("-2.5", 18, 6); err == nil {
		t.Fatal("negative price should fail")
	}
	if _, err := ToChainPrice("2,5", 18, 6); err == nil {
		t.Fatal("malformed price should fail")
	}
}
