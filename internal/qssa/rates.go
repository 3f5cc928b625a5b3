package qssa

import "math"

// ArrheniusRates converts the temperature T into the six rate coefficients
// F_k = k_k * exp(-E_k / T).
func ArrheniusRates(T float64, p Parameters) ([NumReactions]float64, error) {
	var F [NumReactions]float64
	if !(T > 0) || math.IsInf(T, 0) {
		return F, domainErrorf("temperature %g is not a positive finite value", T)
	}
	for k := range F {
		F[k] = p.Rates[k] * math.Exp(-p.Activation[k]/T)
		if !isFinite(F[k]) {
			return F, domainErrorf("rate coefficient F%d = %g at T=%g", k+1, F[k], T)
		}
	}
	return F, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
