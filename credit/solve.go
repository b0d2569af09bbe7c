package credit

import (
	"fmt"
	"log/slog"
	"math"
)

const (
	maxBracket  = 1e4
	maxRootIter = 200
	rootTol     = 1e-15
)

// increasingRoot finds x ≥ lo with f(x) = 0 for f increasing in x. The bracket
// grows from guess by doubling; the root is then polished with the Illinois
// variant of regula falsi.
func increasingRoot(f func(float64) float64, lo, guess float64) (float64, error) {
	flo := f(lo)
	if flo == 0 {
		return lo, nil
	}
	if flo > 0 {
		return 0, fmt.Errorf("%w: value %v at the lower bound %v is already above target", ErrNoConvergence, flo, lo)
	}
	hi := math.Max(guess, lo+1e-4)
	fhi := f(hi)
	for fhi < 0 {
		lo, flo = hi, fhi
		hi *= 2
		if hi > maxBracket {
			return 0, fmt.Errorf("%w: no sign change below %v", ErrNoConvergence, maxBracket)
		}
		fhi = f(hi)
	}
	if hi > 2*guess {
		slog.Debug("root bracket expanded past guess", "guess", guess, "hi", hi)
	}

	side := 0
	x := hi
	for i := 0; i < maxRootIter; i++ {
		next := hi - fhi*(hi-lo)/(fhi-flo)
		if !(next > lo && next < hi) {
			next = 0.5 * (lo + hi)
		}
		fx := f(next)
		if fx == 0 || math.Abs(next-x) <= rootTol*(1+math.Abs(next)) || hi-lo <= rootTol*(1+math.Abs(next)) {
			return next, nil
		}
		x = next
		if fx < 0 {
			lo, flo = x, fx
			if side == -1 {
				fhi /= 2
			}
			side = -1
		} else {
			hi, fhi = x, fx
			if side == 1 {
				flo /= 2
			}
			side = 1
		}
	}
	return 0, fmt.Errorf("%w: %d iterations, bracket [%v, %v]", ErrNoConvergence, maxRootIter, lo, hi)
}
