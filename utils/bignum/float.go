// Package bignum implements arbitrary precision arithmetic helpers.
package bignum

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
)

// NewFloat creates a new big.Float element with "prec" bits of precision.
// Valid types for x are: int, int64, uint, uint64, float64, *big.Int or *big.Float.
func NewFloat(x interface{}, prec uint) (y *big.Float) {

	y = new(big.Float)
	y.SetPrec(prec)

	if x == nil {
		return
	}

	switch x := x.(type) {
	case int:
		y.SetInt64(int64(x))
	case int64:
		y.SetInt64(x)
	case uint:
		y.SetUint64(uint64(x))
	case uint64:
		y.SetUint64(x)
	case float64:
		y.SetFloat64(x)
	case *big.Int:
		y.SetInt(x)
	case *big.Float:
		y.Set(x)
	default:
		panic(fmt.Errorf("invalid x.(type): valid types are int, int64, uint, uint64, float64, *big.Int or *big.Float but is %T", x))
	}

	return
}

// Log returns ln(x).
func Log(x *big.Float) (ln *big.Float) {
	return bigfloat.Log(x)
}

// Log2 returns log2(x).
func Log2(x *big.Float) (log2 *big.Float) {
	log2 = Log(x)
	return log2.Quo(log2, Log(NewFloat(2, x.Prec())))
}

// Exp returns exp(x).
func Exp(x *big.Float) (exp *big.Float) {
	return bigfloat.Exp(x)
}

// Pow returns x^y.
func Pow(x, y *big.Float) (pow *big.Float) {
	return bigfloat.Pow(x, y)
}

// Exp2 returns 2^x with prec bits of precision.
// The result is exact when x is an integer.
func Exp2(x float64, prec uint) (exp2 *big.Float) {
	if x == math.Trunc(x) && math.Abs(x) < 1<<30 {
		exp2 = NewFloat(1, prec)
		return exp2.SetMantExp(exp2, int(x))
	}
	return Pow(NewFloat(2, prec), NewFloat(x, prec))
}

// Floor returns floor(x) as a *big.Int for x >= 0.
func Floor(x *big.Float) (r *big.Int) {
	r, _ = x.Int(nil) // truncation toward zero
	return
}
