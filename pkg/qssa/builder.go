package qssa

import "github.com/daniacca/qssa/internal/qssa"

// ParametersBuilder provides a fluent API for building parameter sets.
// Every key of the parameter dictionary must be set before Build; missing
// keys are reported by Validate.
type ParametersBuilder struct {
	cfg ParametersConfig
}

// NewParameters creates an empty builder.
func NewParameters() *ParametersBuilder {
	return &ParametersBuilder{}
}

// ReferenceParameters returns a builder preloaded with the reference
// parameter set: a slow A+B association, C in large excess, a shared
// activation energy of 353, T0=50 heated at beta=10 and q=1.5, for 100
// trajectories of 1000 steps.
func ReferenceParameters() *ParametersBuilder {
	return NewParameters().
		Rates(1e-4, 8e-6, 1e-11, 6e-5, 3e-4, 4e-4).
		ActivationEnergies(353, 353, 353, 353, 353, 353).
		Initial(500, 500, 99000, 0, 0).
		Ramp(50, 10).
		Q(1.5).
		Trajectories(100).
		Shape(1000)
}

// Rate sets the pre-exponential factor k of channel 1..6.
// Out-of-range channels are ignored.
func (b *ParametersBuilder) Rate(channel int, k float64) *ParametersBuilder {
	if channel >= 1 && channel <= qssa.NumReactions {
		*rateField(&b.cfg, channel) = &k
	}
	return b
}

// Rates sets k1..k6 in order. Extra values are ignored.
func (b *ParametersBuilder) Rates(k ...float64) *ParametersBuilder {
	for i, v := range k {
		b.Rate(i+1, v)
	}
	return b
}

// Activation sets the activation energy E of channel 1..6.
func (b *ParametersBuilder) Activation(channel int, e float64) *ParametersBuilder {
	if channel >= 1 && channel <= qssa.NumReactions {
		*activationField(&b.cfg, channel) = &e
	}
	return b
}

// ActivationEnergies sets E1..E6 in order.
func (b *ParametersBuilder) ActivationEnergies(e ...float64) *ParametersBuilder {
	for i, v := range e {
		b.Activation(i+1, v)
	}
	return b
}

// Initial sets the starting counts of A, B, C, Cj and P. A, B and C double
// as the propensity normalizers A0, B0 and C0.
func (b *ParametersBuilder) Initial(a, bb, c, cj, p float64) *ParametersBuilder {
	b.cfg.A0, b.cfg.B0, b.cfg.C0 = &a, &bb, &c
	b.cfg.Cj0, b.cfg.P0 = &cj, &p
	return b
}

// Ramp sets the linear heating law T(t) = T0 + beta*t.
func (b *ParametersBuilder) Ramp(t0, beta float64) *ParametersBuilder {
	b.cfg.T0, b.cfg.Beta = &t0, &beta
	return b
}

// Q sets the deformation parameter. 1 and 2 are not allowed.
func (b *ParametersBuilder) Q(q float64) *ParametersBuilder {
	b.cfg.Q = &q
	return b
}

// Trajectories sets Nc, the ensemble size.
func (b *ParametersBuilder) Trajectories(n int) *ParametersBuilder {
	b.cfg.Nc = &n
	return b
}

// Shape sets the number of transitions per trajectory.
func (b *ParametersBuilder) Shape(n int) *ParametersBuilder {
	b.cfg.Shape = &n
	return b
}

// Validate reports whether the parameter set built so far is complete and
// valid.
func (b *ParametersBuilder) Validate() error {
	return Validate(b.cfg)
}

// Build returns a copy of the configuration. The builder can be reused.
func (b *ParametersBuilder) Build() ParametersConfig {
	return b.cfg
}

func rateField(c *ParametersConfig, channel int) **float64 {
	return [...]**float64{&c.K1, &c.K2, &c.K3, &c.K4, &c.K5, &c.K6}[channel-1]
}

func activationField(c *ParametersConfig, channel int) **float64 {
	return [...]**float64{&c.E1, &c.E2, &c.E3, &c.E4, &c.E5, &c.E6}[channel-1]
}
