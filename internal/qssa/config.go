package qssa

// ParametersConfig is the ingestion form of a parameter set. Every key is
// required; pointer fields let validation tell a missing key from a zero.
// The keys match the flat parameter dictionary used by the reference runs,
// so such a dictionary dumped as JSON or YAML loads unchanged.
type ParametersConfig struct {
	K1 *float64 `json:"k1" yaml:"k1"`
	K2 *float64 `json:"k2" yaml:"k2"`
	K3 *float64 `json:"k3" yaml:"k3"`
	K4 *float64 `json:"k4" yaml:"k4"`
	K5 *float64 `json:"k5" yaml:"k5"`
	K6 *float64 `json:"k6" yaml:"k6"`

	E1 *float64 `json:"E1" yaml:"E1"`
	E2 *float64 `json:"E2" yaml:"E2"`
	E3 *float64 `json:"E3" yaml:"E3"`
	E4 *float64 `json:"E4" yaml:"E4"`
	E5 *float64 `json:"E5" yaml:"E5"`
	E6 *float64 `json:"E6" yaml:"E6"`

	A0  *float64 `json:"A0" yaml:"A0"`
	B0  *float64 `json:"B0" yaml:"B0"`
	C0  *float64 `json:"C0" yaml:"C0"`
	Cj0 *float64 `json:"Cj0" yaml:"Cj0"`
	P0  *float64 `json:"P0" yaml:"P0"`
	T0  *float64 `json:"T0" yaml:"T0"`

	Beta *float64 `json:"beta" yaml:"beta"`
	Q    *float64 `json:"q" yaml:"q"`

	Nc    *int `json:"Nc" yaml:"Nc"`
	Shape *int `json:"shape" yaml:"shape"`
}

// rateFields returns pointers to k1..k6 in channel order.
func (c *ParametersConfig) rateFields() [NumReactions]*float64 {
	return [NumReactions]*float64{c.K1, c.K2, c.K3, c.K4, c.K5, c.K6}
}

// activationFields returns pointers to E1..E6 in channel order.
func (c *ParametersConfig) activationFields() [NumReactions]*float64 {
	return [NumReactions]*float64{c.E1, c.E2, c.E3, c.E4, c.E5, c.E6}
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
