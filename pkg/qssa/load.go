package qssa

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseParameters decodes a YAML or JSON parameter dictionary. Unknown keys
// are rejected. The result is not validated.
func ParseParameters(data []byte) (ParametersConfig, error) {
	var cfg ParametersConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("parameter document is empty")
		}
		return cfg, fmt.Errorf("failed to parse parameters: %w", err)
	}
	return cfg, nil
}

// LoadParametersFile reads, parses and validates a parameter file.
func LoadParametersFile(path string) (ParametersConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ParametersConfig{}, fmt.Errorf("read %s: %w", path, err)
	}
	cfg, err := ParseParameters(data)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
