// Package pricing holds closed-form European option formulas: Black-Scholes
// with cost of carry, Black on forwards and Bachelier (normal) on forwards,
// together with their greeks.
//
// The Black-Scholes functions never return NaN. Degenerate inputs resolve to
// limits as follows:
//
//	0·∞ in any product                 0
//	∞ - ∞                              0
//	spot == strike (also 0/0 and ∞/∞)  log-moneyness 0
//	spot 0 or strike ∞                 log-moneyness -∞
//	strike 0 or spot ∞                 log-moneyness +∞
//	σ√T == 0                           d1 = d2 = sign(ln(S/K) + bT)·∞, or 0 at the forward
//	σ√T == ∞                           d1 = +∞, d2 = -∞
//	x/0, 0/x                           ±∞, 0
//	anything still undefined           0
//
// Prices are floored at zero.
package pricing

import (
	"fmt"
	"math"
	"strings"
)

type PutCall int

const (
	Call PutCall = iota
	Put
)

func (p PutCall) IsCall() bool { return p == Call }

func (p PutCall) String() string {
	if p == Call {
		return "call"
	}
	return "put"
}

// sign is +1 for a call and -1 for a put.
func (p PutCall) sign() float64 {
	if p == Call {
		return 1
	}
	return -1
}

// ParsePutCall accepts "c", "call", "p" or "put" in any case.
func ParsePutCall(s string) (PutCall, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "call":
		return Call, nil
	case "p", "put":
		return Put, nil
	}
	return 0, fmt.Errorf("%w: unknown option type %q", ErrInvalidArgument, s)
}

// EuropeanVanillaOption describes a European call or put.
type EuropeanVanillaOption struct {
	strike       float64
	timeToExpiry float64
	putCall      PutCall
}

// NewEuropeanVanillaOption requires a finite strike and a non-negative expiry.
// Strikes of any sign are accepted for the normal model.
func NewEuropeanVanillaOption(strike, timeToExpiry float64, putCall PutCall) (EuropeanVanillaOption, error) {
	if math.IsNaN(strike) || math.IsInf(strike, 0) {
		return EuropeanVanillaOption{}, fmt.Errorf("%w: strike must be finite, got %v", ErrInvalidArgument, strike)
	}
	if !(timeToExpiry >= 0) {
		return EuropeanVanillaOption{}, fmt.Errorf("%w: time to expiry must be non-negative, got %v", ErrInvalidArgument, timeToExpiry)
	}
	if putCall != Call && putCall != Put {
		return EuropeanVanillaOption{}, fmt.Errorf("%w: unknown option type %d", ErrInvalidArgument, putCall)
	}
	return EuropeanVanillaOption{strike: strike, timeToExpiry: timeToExpiry, putCall: putCall}, nil
}

func (o EuropeanVanillaOption) Strike() float64       { return o.strike }
func (o EuropeanVanillaOption) TimeToExpiry() float64 { return o.timeToExpiry }
func (o EuropeanVanillaOption) PutCall() PutCall      { return o.putCall }
func (o EuropeanVanillaOption) IsCall() bool          { return o.putCall == Call }

// Intrinsic returns max(±(forward-strike), 0).
func (o EuropeanVanillaOption) Intrinsic(forward float64) float64 {
	return math.Max(o.putCall.sign()*(forward-o.strike), 0)
}
