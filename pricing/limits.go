package pricing

import "math"

// mul treats 0·∞ as 0.
func mul(a, b float64) float64 {
	if a == 0 || b == 0 {
		return 0
	}
	return a * b
}

func prod(xs ...float64) float64 {
	r := 1.0
	for _, x := range xs {
		r = mul(r, x)
	}
	return r
}

// sub treats ∞-∞ as 0.
func sub(a, b float64) float64 {
	if a == b {
		return 0
	}
	return a - b
}

func add(a, b float64) float64 {
	return sub(a, -b)
}

func sum(xs ...float64) float64 {
	r := 0.0
	for _, x := range xs {
		r = add(r, x)
	}
	return r
}

// div returns 0 for a zero numerator and a signed infinity for a zero denominator.
func div(a, b float64) float64 {
	if a == 0 {
		return 0
	}
	if b == 0 {
		return math.Copysign(math.Inf(1), a)
	}
	return a / b
}

func clean(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return x
}

// logMoneyness is ln(s/k) for non-negative s and k.
func logMoneyness(s, k float64) float64 {
	switch {
	case s == k:
		return 0
	case s == 0 || math.IsInf(k, 1):
		return math.Inf(-1)
	case k == 0 || math.IsInf(s, 1):
		return math.Inf(1)
	}
	return math.Log(s / k)
}

func signedInf(x float64) float64 {
	switch {
	case x > 0:
		return math.Inf(1)
	case x < 0:
		return math.Inf(-1)
	}
	return 0
}
