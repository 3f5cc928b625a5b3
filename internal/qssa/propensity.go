package qssa

import "math"

// Propensities holds the per-channel propensities of one step and their sum.
type Propensities struct {
	Values [NumReactions]float64
	Sum    float64
}

// ComputePropensities evaluates the q-deformed mass-action law for every
// channel. Reference counts normalize the law so that q=1 gives the classical
// products:
//
//	p1 = F1 A^q B^q A0^(1-q) B0^(1-q)
//	p2 = F2 Aj^q C^q C0^(1-q)
//	p3 = F3 Bj^q C^(2q) C0^(1-q)
//	p4 = F4 P^q B^q B0^(1-q)
//	p5 = F5 Cj^q A^q A0^(1-q)
//	p6 = F6 P^q Cj^q
func ComputePropensities(c Counts, F [NumReactions]float64, q float64, ref ReferenceCounts) (Propensities, error) {
	pow := math.Pow
	r := 1 - q

	var out Propensities
	out.Values = [NumReactions]float64{
		F[0] * pow(c[IdxA], q) * pow(c[IdxB], q) * pow(ref.A0, r) * pow(ref.B0, r),
		F[1] * pow(c[IdxAj], q) * pow(c[IdxC], q) * pow(ref.C0, r),
		F[2] * pow(c[IdxBj], q) * pow(c[IdxC], 2*q) * pow(ref.C0, r),
		F[3] * pow(c[IdxP], q) * pow(c[IdxB], q) * pow(ref.B0, r),
		F[4] * pow(c[IdxCj], q) * pow(c[IdxA], q) * pow(ref.A0, r),
		F[5] * pow(c[IdxP], q) * pow(c[IdxCj], q),
	}

	for k, v := range out.Values {
		if !isFinite(v) {
			return Propensities{}, domainErrorf("propensity %d = %g (counts %v, q=%g)", k+1, v, c, q)
		}
		if v < 0 {
			return Propensities{}, domainErrorf("propensity %d = %g is negative (counts %v)", k+1, v, c)
		}
		out.Sum += v
	}
	if !isFinite(out.Sum) {
		return Propensities{}, domainErrorf("propensity sum overflowed")
	}
	return out, nil
}
