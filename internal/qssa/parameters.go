package qssa

// InitialState is the t=0 condition of every trajectory. Aj, Bj and D always
// start at zero.
type InitialState struct {
	A  float64
	B  float64
	C  float64
	Cj float64
	P  float64
}

// Counts expands the initial state into a full species vector.
func (s InitialState) Counts() Counts {
	var c Counts
	c[IdxA] = s.A
	c[IdxB] = s.B
	c[IdxC] = s.C
	c[IdxCj] = s.Cj
	c[IdxP] = s.P
	return c
}

// ReferenceCounts are the normalization constants of the propensity law.
// They are fixed for the whole trajectory even though they equal the
// initial counts of A, B and C.
type ReferenceCounts struct {
	A0 float64
	B0 float64
	C0 float64
}

// Parameters is an immutable, validated parameter set. Build one with
// NewParameters; the zero value is not a valid configuration.
type Parameters struct {
	Rates      [NumReactions]float64
	Activation [NumReactions]float64

	Initial   InitialState
	Reference ReferenceCounts

	T0   float64
	Beta float64
	Q    float64

	Shape        int
	Trajectories int
}

// Config converts the parameter set back into its ingestion form.
func (p Parameters) Config() ParametersConfig {
	cfg := ParametersConfig{
		A0:    floatPtr(p.Initial.A),
		B0:    floatPtr(p.Initial.B),
		C0:    floatPtr(p.Initial.C),
		Cj0:   floatPtr(p.Initial.Cj),
		P0:    floatPtr(p.Initial.P),
		T0:    floatPtr(p.T0),
		Beta:  floatPtr(p.Beta),
		Q:     floatPtr(p.Q),
		Nc:    intPtr(p.Trajectories),
		Shape: intPtr(p.Shape),
	}
	cfg.K1, cfg.K2, cfg.K3 = floatPtr(p.Rates[0]), floatPtr(p.Rates[1]), floatPtr(p.Rates[2])
	cfg.K4, cfg.K5, cfg.K6 = floatPtr(p.Rates[3]), floatPtr(p.Rates[4]), floatPtr(p.Rates[5])
	cfg.E1, cfg.E2, cfg.E3 = floatPtr(p.Activation[0]), floatPtr(p.Activation[1]), floatPtr(p.Activation[2])
	cfg.E4, cfg.E5, cfg.E6 = floatPtr(p.Activation[3]), floatPtr(p.Activation[4]), floatPtr(p.Activation[5])
	return cfg
}

// Validate re-checks a parameter set built outside NewParameters.
func (p Parameters) Validate() error {
	return ValidateParametersConfig(p.Config())
}

// TemperatureAt returns the ramp temperature T0 + beta*t.
func (p Parameters) TemperatureAt(t float64) float64 {
	return p.T0 + p.Beta*t
}
