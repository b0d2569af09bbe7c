package calibrate

import (
	"fmt"
	"math"
)

// ParameterTransform maps a constrained model parameter to the whole real line
// so the solver can move freely.
type ParameterTransform interface {
	// Transform maps a model value to fitting space.
	Transform(model float64) float64
	// Inverse maps a fitting value back to the model domain.
	Inverse(fit float64) float64
	// InverseGradient is d(model)/d(fit) at fit.
	InverseGradient(fit float64) float64
}

// NullTransform leaves the parameter unchanged.
type NullTransform struct{}

func (NullTransform) Transform(model float64) float64     { return model }
func (NullTransform) Inverse(fit float64) float64         { return fit }
func (NullTransform) InverseGradient(fit float64) float64 { return 1 }

// boundaryGap keeps boundary values at a finite distance in fitting space.
const boundaryGap = 1e-12

// SingleRangeLimitTransform constrains a parameter to one side of Limit with
// model = Limit ± exp(fit).
type SingleRangeLimitTransform struct {
	Limit float64
	Below bool // the parameter lies below Limit
}

func (s SingleRangeLimitTransform) side() float64 {
	if s.Below {
		return -1
	}
	return 1
}

func (s SingleRangeLimitTransform) Transform(model float64) float64 {
	return math.Log(math.Max(s.side()*(model-s.Limit), boundaryGap))
}

func (s SingleRangeLimitTransform) Inverse(fit float64) float64 {
	return s.Limit + s.side()*math.Exp(fit)
}

func (s SingleRangeLimitTransform) InverseGradient(fit float64) float64 {
	return s.side() * math.Exp(fit)
}

// DoubleRangeLimitTransform constrains a parameter to (Lower, Upper) with
// model = mid + half·tanh(fit).
type DoubleRangeLimitTransform struct {
	Lower, Upper float64
}

func NewDoubleRangeLimitTransform(lower, upper float64) (DoubleRangeLimitTransform, error) {
	if !(lower < upper) {
		return DoubleRangeLimitTransform{}, fmt.Errorf("%w: empty range (%v, %v)", ErrInvalidArgument, lower, upper)
	}
	return DoubleRangeLimitTransform{Lower: lower, Upper: upper}, nil
}

func (d DoubleRangeLimitTransform) mid() float64  { return 0.5 * (d.Upper + d.Lower) }
func (d DoubleRangeLimitTransform) half() float64 { return 0.5 * (d.Upper - d.Lower) }

func (d DoubleRangeLimitTransform) Transform(model float64) float64 {
	u := (model - d.mid()) / d.half()
	u = math.Max(-1+boundaryGap, math.Min(1-boundaryGap, u))
	return math.Atanh(u)
}

func (d DoubleRangeLimitTransform) Inverse(fit float64) float64 {
	return d.mid() + d.half()*math.Tanh(fit)
}

func (d DoubleRangeLimitTransform) InverseGradient(fit float64) float64 {
	th := math.Tanh(fit)
	return d.half() * (1 - th*th)
}

// UncoupledParameterTransforms applies one transform per model parameter and
// removes fixed parameters from the fitting space. Fixed parameters keep their
// start value.
type UncoupledParameterTransforms struct {
	start      []float64
	transforms []ParameterTransform
	fixed      []bool
	free       []int
}

// NewUncoupledParameterTransforms requires one transform per start value. A nil
// fixed mask fixes nothing.
func NewUncoupledParameterTransforms(start []float64, transforms []ParameterTransform, fixed []bool) (*UncoupledParameterTransforms, error) {
	n := len(start)
	if len(transforms) != n {
		return nil, fmt.Errorf("%w: %d transforms for %d parameters", ErrInvalidArgument, len(transforms), n)
	}
	if fixed == nil {
		fixed = make([]bool, n)
	}
	if len(fixed) != n {
		return nil, fmt.Errorf("%w: fixed mask has %d entries for %d parameters", ErrInvalidArgument, len(fixed), n)
	}
	u := &UncoupledParameterTransforms{
		start:      append([]float64(nil), start...),
		transforms: transforms,
		fixed:      append([]bool(nil), fixed...),
	}
	for i, f := range fixed {
		if !f {
			u.free = append(u.free, i)
		}
	}
	if len(u.free) == 0 {
		return nil, fmt.Errorf("%w: every parameter is fixed", ErrInvalidArgument)
	}
	return u, nil
}

func (u *UncoupledParameterTransforms) NumberOfModelParameters() int { return len(u.start) }
func (u *UncoupledParameterTransforms) NumberOfFitParameters() int   { return len(u.free) }

// Free returns the model indices of the fitted parameters.
func (u *UncoupledParameterTransforms) Free() []int { return u.free }

// Transform maps a full model vector to the free fitting parameters.
func (u *UncoupledParameterTransforms) Transform(model []float64) []float64 {
	fit := make([]float64, len(u.free))
	for j, i := range u.free {
		fit[j] = u.transforms[i].Transform(model[i])
	}
	return fit
}

// Inverse maps fitting parameters to a full model vector.
func (u *UncoupledParameterTransforms) Inverse(fit []float64) []float64 {
	model := append([]float64(nil), u.start...)
	for j, i := range u.free {
		model[i] = u.transforms[i].Inverse(fit[j])
	}
	return model
}

// InverseGradient returns d(model_i)/d(fit_j) for each free parameter j.
func (u *UncoupledParameterTransforms) InverseGradient(fit []float64) []float64 {
	g := make([]float64, len(u.free))
	for j, i := range u.free {
		g[j] = u.transforms[i].InverseGradient(fit[j])
	}
	return g
}
