package qssa

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError collects multiple validation issues
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "invalid parameters: unknown validation error"
	}
	if len(e.Issues) == 1 {
		return e.Issues[0]
	}
	return "parameter validation errors: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Add(issue string) {
	e.Issues = append(e.Issues, issue)
}

func (e *ValidationError) Addf(format string, v ...any) {
	e.Add(fmt.Sprintf(format, v...))
}

func (e *ValidationError) HasIssues() bool {
	return len(e.Issues) > 0
}

// ValidateParametersConfig performs comprehensive validation of a
// ParametersConfig. All keys are required; q=1 and q=2 are reserved because
// the waiting-time formula divides by (1-q) and (2-q).
func ValidateParametersConfig(cfg ParametersConfig) error {
	err := &ValidationError{}

	for i, k := range cfg.rateFields() {
		name := fmt.Sprintf("k%d", i+1)
		if requireFinite(err, name, k) && *k <= 0 {
			err.Addf("%s must be > 0, got %g", name, *k)
		}
	}
	for i, e := range cfg.activationFields() {
		requireFinite(err, fmt.Sprintf("E%d", i+1), e)
	}

	initial := []struct {
		name string
		v    *float64
	}{
		{"A0", cfg.A0}, {"B0", cfg.B0}, {"C0", cfg.C0}, {"Cj0", cfg.Cj0}, {"P0", cfg.P0},
	}
	for _, f := range initial {
		if requireFinite(err, f.name, f.v) && *f.v < 0 {
			err.Addf("%s must be >= 0, got %g", f.name, *f.v)
		}
	}

	if requireFinite(err, "T0", cfg.T0) && *cfg.T0 <= 0 {
		err.Addf("T0 must be > 0, got %g", *cfg.T0)
	}
	// A negative ramp would break the non-decreasing temperature invariant
	// and eventually drive T through zero.
	if requireFinite(err, "beta", cfg.Beta) && *cfg.Beta < 0 {
		err.Addf("beta must be >= 0, got %g", *cfg.Beta)
	}

	if requireFinite(err, "q", cfg.Q) {
		switch *cfg.Q {
		case 1:
			err.Add("q must not be 1 (reserved: waiting time divides by 1-q)")
		case 2:
			err.Add("q must not be 2 (reserved: waiting time divides by 2-q)")
		}
		if *cfg.Q > 1 {
			// X0^(1-q) diverges for a zero normalizer.
			for _, f := range initial[:3] {
				if f.v != nil && *f.v == 0 {
					err.Addf("%s must be > 0 when q > 1 (used as a propensity normalizer)", f.name)
				}
			}
		}
	}

	if cfg.Nc == nil {
		err.Add("Nc is required")
	} else if *cfg.Nc <= 0 {
		err.Addf("Nc must be a positive integer, got %d", *cfg.Nc)
	}
	if cfg.Shape == nil {
		err.Add("shape is required")
	} else if *cfg.Shape <= 0 {
		err.Addf("shape must be a positive integer, got %d", *cfg.Shape)
	}

	if err.HasIssues() {
		return err
	}
	return nil
}

// requireFinite records an issue when v is missing or not a finite number and
// reports whether further range checks make sense.
func requireFinite(err *ValidationError, name string, v *float64) bool {
	if v == nil {
		err.Add(name + " is required")
		return false
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		err.Addf("%s must be finite, got %g", name, *v)
		return false
	}
	return true
}

// ParameterWarnings lists settings that pass validation but make steps fail
// at run time. For q < 1 the waiting time is only defined while
// 1-(2-q)*r1 >= 0, so a share 1-1/(2-q) of all draws ends the trajectory
// with ErrNumericDomain.
func ParameterWarnings(cfg ParametersConfig) []string {
	var out []string
	if cfg.Q != nil && isFinite(*cfg.Q) && *cfg.Q < 1 {
		q := *cfg.Q
		limit := 1 / (2 - q)
		out = append(out, fmt.Sprintf(
			"q=%g < 1: draws r1 > %.4g fall outside the waiting-time support and fail the step (%.1f%% of steps)",
			q, limit, 100*(1-limit)))
	}
	return out
}
