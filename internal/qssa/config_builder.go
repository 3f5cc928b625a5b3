package qssa

import "fmt"

// NewParameters validates cfg and builds the immutable parameter set the
// engine runs on. A validation failure is returned as *ValidationError.
func NewParameters(cfg ParametersConfig) (Parameters, error) {
	if err := ValidateParametersConfig(cfg); err != nil {
		return Parameters{}, err
	}

	var p Parameters
	for i, k := range cfg.rateFields() {
		p.Rates[i] = *k
	}
	for i, e := range cfg.activationFields() {
		p.Activation[i] = *e
	}

	p.Initial = InitialState{
		A:  *cfg.A0,
		B:  *cfg.B0,
		C:  *cfg.C0,
		Cj: *cfg.Cj0,
		P:  *cfg.P0,
	}
	// Same numbers as the initial state, kept separately on purpose.
	p.Reference = ReferenceCounts{
		A0: *cfg.A0,
		B0: *cfg.B0,
		C0: *cfg.C0,
	}

	p.T0 = *cfg.T0
	p.Beta = *cfg.Beta
	p.Q = *cfg.Q
	p.Shape = *cfg.Shape
	p.Trajectories = *cfg.Nc
	return p, nil
}

// MustParameters is like NewParameters but panics on invalid input. It is
// meant for fixtures and examples with literal values.
func MustParameters(cfg ParametersConfig) Parameters {
	p, err := NewParameters(cfg)
	if err != nil {
		panic(fmt.Sprintf("qssa: invalid parameters: %v", err))
	}
	return p
}
