package smile

import (
	"fmt"
	"math"
)

// ModelData is an immutable, fixed-length vector of smile model parameters.
// Updates never mutate the receiver: With returns a new validated instance.
type ModelData[T any] interface {
	NumberOfParameters() int
	// Parameter returns the parameter at index, failing on an out-of-range index.
	Parameter(index int) (float64, error)
	// IsAllowed reports whether value is inside the domain of the parameter at index.
	IsAllowed(index int, value float64) bool
	With(index int, value float64) (T, error)
}

// Positions of the SABR parameters inside SabrFormulaData.
const (
	AlphaIndex = iota
	BetaIndex
	RhoIndex
	NuIndex
	sabrParameterCount
)

// SabrFormulaData holds the four SABR parameters (alpha, beta, rho, nu).
// The zero value is a valid (degenerate) parameter set. Values are comparable
// with == and usable as map keys.
type SabrFormulaData struct {
	alpha float64
	beta  float64
	rho   float64
	nu    float64
}

var _ ModelData[SabrFormulaData] = SabrFormulaData{}

// NewSabrFormulaData validates alpha ≥ 0, 0 ≤ beta ≤ 1, -1 ≤ rho ≤ 1 and nu ≥ 0.
func NewSabrFormulaData(alpha, beta, rho, nu float64) (SabrFormulaData, error) {
	d := SabrFormulaData{alpha: alpha, beta: beta, rho: rho, nu: nu}
	if err := d.validate(); err != nil {
		return SabrFormulaData{}, err
	}
	return d, nil
}

// MustSabrFormulaData is NewSabrFormulaData for literals known to be valid.
func MustSabrFormulaData(alpha, beta, rho, nu float64) SabrFormulaData {
	d, err := NewSabrFormulaData(alpha, beta, rho, nu)
	if err != nil {
		panic(err)
	}
	return d
}

// SabrFormulaDataOf builds the parameter set from a vector ordered alpha, beta, rho, nu.
func SabrFormulaDataOf(p []float64) (SabrFormulaData, error) {
	if len(p) != sabrParameterCount {
		return SabrFormulaData{}, fmt.Errorf("%w: expected %d sabr parameters, got %d", ErrInvalidArgument, sabrParameterCount, len(p))
	}
	return NewSabrFormulaData(p[AlphaIndex], p[BetaIndex], p[RhoIndex], p[NuIndex])
}

func (d SabrFormulaData) Alpha() float64 { return d.alpha }
func (d SabrFormulaData) Beta() float64  { return d.beta }
func (d SabrFormulaData) Rho() float64   { return d.rho }
func (d SabrFormulaData) Nu() float64    { return d.nu }

func (d SabrFormulaData) NumberOfParameters() int { return sabrParameterCount }

func (d SabrFormulaData) Parameter(index int) (float64, error) {
	switch index {
	case AlphaIndex:
		return d.alpha, nil
	case BetaIndex:
		return d.beta, nil
	case RhoIndex:
		return d.rho, nil
	case NuIndex:
		return d.nu, nil
	}
	return 0, fmt.Errorf("%w: sabr parameter index %d outside [0,%d]", ErrInvalidArgument, index, sabrParameterCount-1)
}

// Parameters returns a copy of the parameter vector.
func (d SabrFormulaData) Parameters() []float64 {
	return []float64{d.alpha, d.beta, d.rho, d.nu}
}

func (d SabrFormulaData) IsAllowed(index int, value float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}
	switch index {
	case AlphaIndex, NuIndex:
		return value >= 0
	case BetaIndex:
		return value >= 0 && value <= 1
	case RhoIndex:
		return value >= -1 && value <= 1
	}
	return false
}

func (d SabrFormulaData) With(index int, value float64) (SabrFormulaData, error) {
	if index < 0 || index >= sabrParameterCount {
		return SabrFormulaData{}, fmt.Errorf("%w: sabr parameter index %d outside [0,%d]", ErrInvalidArgument, index, sabrParameterCount-1)
	}
	if !d.IsAllowed(index, value) {
		return SabrFormulaData{}, fmt.Errorf("%w: value %v not allowed for sabr parameter %d", ErrInvalidArgument, value, index)
	}
	p := d.Parameters()
	p[index] = value
	return SabrFormulaData{alpha: p[AlphaIndex], beta: p[BetaIndex], rho: p[RhoIndex], nu: p[NuIndex]}, nil
}

func (d SabrFormulaData) WithAlpha(alpha float64) (SabrFormulaData, error) { return d.With(AlphaIndex, alpha) }
func (d SabrFormulaData) WithBeta(beta float64) (SabrFormulaData, error)   { return d.With(BetaIndex, beta) }
func (d SabrFormulaData) WithRho(rho float64) (SabrFormulaData, error)     { return d.With(RhoIndex, rho) }
func (d SabrFormulaData) WithNu(nu float64) (SabrFormulaData, error)       { return d.With(NuIndex, nu) }

func (d SabrFormulaData) String() string {
	return fmt.Sprintf("SABR(alpha=%g, beta=%g, rho=%g, nu=%g)", d.alpha, d.beta, d.rho, d.nu)
}

func (d SabrFormulaData) validate() error {
	for i, v := range d.Parameters() {
		if !d.IsAllowed(i, v) {
			return fmt.Errorf("%w: value %v not allowed for sabr parameter %d", ErrInvalidArgument, v, i)
		}
	}
	return nil
}
