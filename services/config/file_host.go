//go:build !rp2040

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML profile. Fields left out keep the values of the
// profile named by its "base" key (default "sim").
func LoadFile(path string) (Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Board{}, fmt.Errorf("read board file: %w", err)
	}

	var head struct {
		Base string `yaml:"base"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Board{}, fmt.Errorf("parse board yaml: %w", err)
	}
	if head.Base == "" {
		head.Base = "sim"
	}
	b, err := Lookup(head.Base)
	if err != nil {
		return Board{}, err
	}
	if err := yaml.Unmarshal(data, &b); err != nil {
		return Board{}, fmt.Errorf("parse board yaml: %w", err)
	}
	if err := b.Validate(); err != nil {
		return Board{}, err
	}
	return b, nil
}
