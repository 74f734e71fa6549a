package chain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	agerr "github.com/injkit/injagent/internal/errors"
)

// decimalPattern accepts plain non-negative decimal strings. Signs and
// exponent notation are rejected at the human-input boundary.
var decimalPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)

// ToBaseUnits converts a human amount into an integer base-unit string,
// amount x 10^decimals, truncating any sub-base-unit remainder toward zero.
func ToBaseUnits(human string, decimals int) (string, error) {
	d, err := parseAmount(human, decimals)
	if err != nil {
		return "", err
	}
	return d.Shift(int32(decimals)).Truncate(0).String(), nil
}

// FromBaseUnits converts an integer base-unit string back into a human
// decimal string with trailing zeros trimmed.
func FromBaseUnits(base string, decimals int) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" || strings.ContainsAny(base, ".-+eE") {
		return "", agerr.New(agerr.CodeInvalidAmount, fmt.Sprintf("base amount %q is not a non-negative integer", base))
	}
	d, err := decimal.NewFromString(base)
	if err != nil {
		return "", agerr.Wrap(agerr.CodeInvalidAmount, "parse base amount", err)
	}
	return trimZeros(d.Shift(int32(-decimals)).String()), nil
}

// ToChainPrice scales a human spot price into the chain's fixed-point price
// representation: price x 10^(quoteDecimals-baseDecimals).
func ToChainPrice(human string, baseDecimals, quoteDecimals int) (string, error) {
	d, err := parseAmount(human, quoteDecimals)
	if err != nil {
		return "", err
	}
	return d.Shift(int32(quoteDecimals - baseDecimals)).String(), nil
}

func parseAmount(human string, decimals int) (decimal.Decimal, error) {
	human = strings.TrimSpace(human)
	if !decimalPattern.MatchString(human) {
		return decimal.Decimal{}, agerr.New(agerr.CodeInvalidAmount, fmt.Sprintf("amount %q must be a non-negative decimal like 1.23", human))
	}
	if decimals < 0 {
		return decimal.Decimal{}, agerr.New(agerr.CodeInvalidAmount, "decimals must be >= 0")
	}
	d, err := decimal.NewFromString(human)
	if err != nil {
		return decimal.Decimal{}, agerr.Wrap(agerr.CodeInvalidAmount, "parse amount", err)
	}
	return d, nil
}

func trimZeros(v string) string {
	if !strings.Contains(v, ".") {
		return v
	}
	v = strings.TrimRight(v, "0")
	return strings.TrimSuffix(v, ".")
}
