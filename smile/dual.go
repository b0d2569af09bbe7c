package smile

import "math"

// dual carries a value through a closed-form formula together with its
// gradient with respect to six inputs and its Hessian restricted to the first
// two inputs. Formulas that expose an adjoint are written once against dual and
// the plain value is read from the result.
type dual struct {
	v float64
	d [dualSize]float64
	// h holds d²/dx0², d²/dx0dx1, d²/dx1².
	h [3]float64
}

const dualSize = 6

var hessianPairs = [3][2]int{{0, 0}, {0, 1}, {1, 1}}

func constant(v float64) dual {
	return dual{v: v}
}

func variable(v float64, i int) dual {
	x := dual{v: v}
	x.d[i] = 1
	return x
}

func (a dual) add(b dual) dual {
	r := dual{v: a.v + b.v}
	for i := range r.d {
		r.d[i] = a.d[i] + b.d[i]
	}
	for k := range r.h {
		r.h[k] = a.h[k] + b.h[k]
	}
	return r
}

func (a dual) sub(b dual) dual {
	return a.add(b.scale(-1))
}

func (a dual) shift(c float64) dual {
	a.v += c
	return a
}

func (a dual) scale(c float64) dual {
	r := dual{v: c * a.v}
	for i := range r.d {
		r.d[i] = c * a.d[i]
	}
	for k := range r.h {
		r.h[k] = c * a.h[k]
	}
	return r
}

func (a dual) mul(b dual) dual {
	r := dual{v: a.v * b.v}
	for i := range r.d {
		r.d[i] = a.d[i]*b.v + a.v*b.d[i]
	}
	for k, p := range hessianPairs {
		j, l := p[0], p[1]
		r.h[k] = a.h[k]*b.v + a.d[j]*b.d[l] + a.d[l]*b.d[j] + a.v*b.h[k]
	}
	return r
}

func (a dual) div(b dual) dual {
	return a.mul(b.recip())
}

// compose applies a scalar function with value f, slope df and curvature d2f at a.v.
func (a dual) compose(f, df, d2f float64) dual {
	r := dual{v: f}
	for i := range r.d {
		r.d[i] = df * a.d[i]
	}
	for k, p := range hessianPairs {
		j, l := p[0], p[1]
		r.h[k] = d2f*a.d[j]*a.d[l] + df*a.h[k]
	}
	return r
}

func (a dual) recip() dual {
	x := a.v
	return a.compose(1/x, -1/(x*x), 2/(x*x*x))
}

func (a dual) exp() dual {
	e := math.Exp(a.v)
	return a.compose(e, e, e)
}

func (a dual) log() dual {
	x := a.v
	return a.compose(math.Log(x), 1/x, -1/(x*x))
}

func (a dual) sqrt() dual {
	s := math.Sqrt(a.v)
	return a.compose(s, 0.5/s, -0.25/(s*a.v))
}

// pow raises a strictly positive dual to a constant power.
func (a dual) pow(p float64) dual {
	x := a.v
	return a.compose(math.Pow(x, p), p*math.Pow(x, p-1), p*(p-1)*math.Pow(x, p-2))
}
