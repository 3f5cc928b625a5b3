package qssa

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParametersBuilder_Reference(t *testing.T) {
	cfg := ReferenceParameters().Build()

	if err := Validate(cfg); err != nil {
		t.Fatalf("Expected reference parameters to be valid, got %v", err)
	}
	if *cfg.K3 != 1e-11 || *cfg.E6 != 353 {
		t.Errorf("unexpected k3=%g E6=%g", *cfg.K3, *cfg.E6)
	}
	if *cfg.C0 != 99000 || *cfg.Cj0 != 0 || *cfg.T0 != 50 || *cfg.Beta != 10 {
		t.Errorf("unexpected initial/ramp values")
	}
	if *cfg.Nc != 100 || *cfg.Shape != 1000 {
		t.Errorf("Expected Nc=100 shape=1000, got %d %d", *cfg.Nc, *cfg.Shape)
	}
}

func TestParametersBuilder_Overrides(t *testing.T) {
	b := ReferenceParameters()
	first := b.Build()
	second := b.Q(0.7).Rate(2, 5).Rate(9, 1).Trajectories(3).Build()

	if *first.Q != 1.5 {
		t.Errorf("Expected earlier Build to keep q=1.5, got %g", *first.Q)
	}
	if *second.Q != 0.7 || *second.K2 != 5 || *second.Nc != 3 {
		t.Errorf("overrides not applied: q=%g k2=%g Nc=%d", *second.Q, *second.K2, *second.Nc)
	}
}

func TestParametersBuilder_Incomplete(t *testing.T) {
	err := NewParameters().Rates(1, 1, 1).Q(1.5).Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *ValidationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "k4 is required") {
		t.Errorf("Expected missing k4 to be reported, got %v", err)
	}
}

func TestParseParameters_YAMLAndJSON(t *testing.T) {
	yamlDoc := `
k1: 1.0e-4
k2: 8.0e-6
k3: 1.0e-11
k4: 6.0e-5
k5: 3.0e-4
k6: 4.0e-4
E1: 353
E2: 353
E3: 353
E4: 353
E5: 353
E6: 353
A0: 500
B0: 500
C0: 99000
Cj0: 0
P0: 0
T0: 50
beta: 10
q: 1.5
Nc: 4
shape: 100
`
	cfg, err := ParseParameters([]byte(yamlDoc))
	if err != nil {
		t.Fatalf("ParseParameters(yaml): %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	jsonDoc := `{"k1": 1e-4, "k2": 8e-6, "k3": 1e-11, "k4": 6e-5, "k5": 3e-4, "k6": 4e-4,
		"E1": 353, "E2": 353, "E3": 353, "E4": 353, "E5": 353, "E6": 353,
		"A0": 500, "B0": 500, "C0": 99000, "Cj0": 0, "P0": 0, "T0": 50,
		"beta": 10, "q": 1.5, "Nc": 4, "shape": 100}`
	fromJSON, err := ParseParameters([]byte(jsonDoc))
	if err != nil {
		t.Fatalf("ParseParameters(json): %v", err)
	}
	if *fromJSON.K4 != *cfg.K4 || *fromJSON.Shape != *cfg.Shape {
		t.Errorf("JSON and YAML documents disagree")
	}
}

func TestParseParameters_Rejects(t *testing.T) {
	if _, err := ParseParameters([]byte("k1: 1\nbogus: 2\n")); err == nil {
		t.Error("Expected unknown key to be rejected")
	}
	if _, err := ParseParameters(nil); err == nil {
		t.Error("Expected empty document to be rejected")
	}
}

func TestLoadParametersFile(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("q: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadParametersFile(bad); err == nil || !strings.Contains(err.Error(), "bad.yaml") {
		t.Errorf("Expected validation error naming the file, got %v", err)
	}

	if _, err := LoadParametersFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}

	good := filepath.Join("..", "..", "examples", "params", "reference.yaml")
	cfg, err := LoadParametersFile(good)
	if err != nil {
		t.Fatalf("LoadParametersFile(%s): %v", good, err)
	}
	if *cfg.Q != 1.5 {
		t.Errorf("Expected q=1.5, got %g", *cfg.Q)
	}
	if want := ReferenceParameters().Build(); !reflect.DeepEqual(cfg, want) {
		t.Errorf("reference.yaml differs from ReferenceParameters: %+v", cfg)
	}
}
