package numeric

import (
	"fmt"
	"math"

	"github.com/aledsdavies/betlang/internal/prng"
)

func init() {
	register("dist-normal", func(args []float64) (Number, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("dist-normal expects (mu sigma), got %d argument(s)", len(args))
		}
		return DistNormal{Mu: args[0], Sigma: args[1]}, nil
	})
	register("dist-beta", func(args []float64) (Number, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("dist-beta expects (alpha beta), got %d argument(s)", len(args))
		}
		return DistBeta{Alpha: args[0], Beta: args[1]}, nil
	})
	register("bayesian", func(args []float64) (Number, error) {
		if len(args) != 4 {
			return nil, fmt.Errorf("bayesian expects (prior-alpha prior-beta successes trials), got %d argument(s)", len(args))
		}
		return Bayesian{PriorAlpha: args[0], PriorBeta: args[1], Successes: args[2], Trials: args[3]}, nil
	})
}

// DistNormal is a Gaussian(mu, sigma) uncertainty number.
type DistNormal struct {
	Mu, Sigma float64
}

func (DistNormal) Tag() string    { return "dist-normal" }
func (d DistNormal) Mean() float64 { return d.Mu }

func (d DistNormal) Validate() error {
	if d.Sigma < 0 {
		return fmt.Errorf("dist-normal: sigma must be >= 0, got %v", d.Sigma)
	}
	return nil
}

// Sample draws via the Box-Muller transform.
func (d DistNormal) Sample(st *prng.State) (float64, error) {
	u1 := st.Float64()
	for u1 == 0 {
		u1 = st.Float64()
	}
	u2 := st.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return d.Mu + d.Sigma*z, nil
}

// DistBeta is a Beta(alpha, beta) uncertainty number over [0, 1].
type DistBeta struct {
	Alpha, Beta float64
}

func (DistBeta) Tag() string { return "dist-beta" }

func (d DistBeta) Mean() float64 { return d.Alpha / (d.Alpha + d.Beta) }

func (d DistBeta) Validate() error {
	if d.Alpha <= 0 || d.Beta <= 0 {
		return fmt.Errorf("dist-beta: alpha and beta must be > 0, got (%v, %v)", d.Alpha, d.Beta)
	}
	return nil
}

// Sample draws via two independent Gamma(shape, 1) variates, the
// standard Beta-from-Gamma construction.
func (d DistBeta) Sample(st *prng.State) (float64, error) {
	x := sampleGamma(st, d.Alpha)
	y := sampleGamma(st, d.Beta)
	return x / (x + y), nil
}

// sampleGamma draws a Gamma(shape, 1) variate using the Marsaglia-Tsang
// method for shape >= 1, boosted via the Ahrens-Dieter identity for
// shape < 1.
func sampleGamma(st *prng.State, shape float64) float64 {
	if shape < 1 {
		u := st.Float64()
		return sampleGamma(st, shape+1) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		var x, v float64
		for {
			x = normalDraw(st)
			v = 1 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := st.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

func normalDraw(st *prng.State) float64 {
	u1 := st.Float64()
	for u1 == 0 {
		u1 = st.Float64()
	}
	u2 := st.Float64()
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// Add sums the means and variances of two independent normals (spec
// §4.9): the standard rule for the distribution of a sum of
// independent Gaussians.
func (d DistNormal) Add(o DistNormal) DistNormal {
	return DistNormal{
		Mu:    d.Mu + o.Mu,
		Sigma: math.Sqrt(d.Sigma*d.Sigma + o.Sigma*o.Sigma),
	}
}

// Mul approximates the product of two independent normals (spec §4.9):
// E[XY] = mu1*mu2, Var ~= mu1^2*sigma2^2 + mu2^2*sigma1^2 +
// sigma1^2*sigma2^2 (an independence-assuming approximation, not exact
// for the true product distribution, per the spec's own phrasing).
func (d DistNormal) Mul(o DistNormal) DistNormal {
	mean := d.Mu * o.Mu
	variance := d.Mu*d.Mu*o.Sigma*o.Sigma + o.Mu*o.Mu*d.Sigma*d.Sigma + d.Sigma*d.Sigma*o.Sigma*o.Sigma
	return DistNormal{Mu: mean, Sigma: math.Sqrt(variance)}
}

// Bayesian is a Beta-Binomial posterior: a Beta(prior-alpha,
// prior-beta) prior updated with Successes out of Trials observations.
type Bayesian struct {
	PriorAlpha, PriorBeta float64
	Successes, Trials     float64
}

func (Bayesian) Tag() string { return "bayesian" }

func (b Bayesian) posterior() DistBeta {
	return DistBeta{Alpha: b.PriorAlpha + b.Successes, Beta: b.PriorBeta + (b.Trials - b.Successes)}
}

func (b Bayesian) Mean() float64 { return b.posterior().Mean() }

func (b Bayesian) Validate() error {
	if b.PriorAlpha <= 0 || b.PriorBeta <= 0 {
		return fmt.Errorf("bayesian: prior-alpha and prior-beta must be > 0")
	}
	if b.Successes < 0 || b.Trials < 0 || b.Successes > b.Trials {
		return fmt.Errorf("bayesian: need 0 <= successes <= trials, got successes=%v trials=%v", b.Successes, b.Trials)
	}
	return nil
}

func (b Bayesian) Sample(st *prng.State) (float64, error) {
	return b.posterior().Sample(st)
}
