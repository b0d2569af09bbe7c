package util

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Noise returns n normal draws with mean zero and standard deviation sigma.
// The same seed always gives the same draws.
func Noise(seed uint64, sigma float64, n int) []float64 {
	d := distuv.Normal{Mu: 0.0, Sigma: sigma, Src: rand.NewSource(seed)}
	z := make([]float64, n)
	for i := range z {
		z[i] = d.Rand()
	}
	return z
}
