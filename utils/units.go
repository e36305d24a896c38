package utils

import (
	"math/big"

	"github.com/pkg/errors"
)

const EtherDecimals = 18

// StablecoinDecimals matches USDC/USDT on Scroll.
const StablecoinDecimals = 6

// ParseUnits converts a decimal string into an integer token amount with
// the given number of decimals ("2.5" with 6 decimals is 2500000).
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	value, ok := new(big.Rat).SetString(amount)
	if !ok {
		return nil, errors.Errorf("invalid decimal amount %q", amount)
	}
	if value.Sign() < 0 {
		return nil, errors.Errorf("negative amount %q", amount)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	value.Mul(value, new(big.Rat).SetInt(scale))
	if !value.IsInt() {
		return nil, errors.Errorf("amount %q has more than %d decimal places", amount, decimals)
	}
	return new(big.Int).Set(value.Num()), nil
}

// ParseEther converts a decimal ether string into wei.
func ParseEther(amount string) (*big.Int, error) {
	return ParseUnits(amount, EtherDecimals)
}

// FormatUnits renders an integer token amount as a decimal string.
func FormatUnits(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	value := new(big.Rat).SetFrac(amount, scale)
	text := value.FloatString(decimals)
	// trim trailing zeros and a dangling decimal point
	i := len(text)
	for i > 0 && text[i-1] == '0' {
		i--
	}
	if i > 0 && text[i-1] == '.' {
		i--
	}
	return text[:i]
}
