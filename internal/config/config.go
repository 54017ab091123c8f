// Package config loads and computes the osci machine layout: the
// register/IVT/flag-count parameters spec.md fixes as constants, plus
// run-time options, optionally overridden from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oscimu/osciemu/internal/osci"
)

// Config captures the machine parameters spec.md fixes as constants
// (NumRegisters, NumIVT, NumFlags, Word) plus run options.
type Config struct {
	NumRegisters uint32 `yaml:"registers"`
	NumIVT       uint32 `yaml:"ivt"`
	NumFlags     uint32 `yaml:"flags"`
	Word         uint32 `yaml:"word"`
	MaxSteps     uint64 `yaml:"max_steps"`
	Verbose      bool   `yaml:"verbose"`
}

// Default returns the layout spec.md fixes: N_REG=4, N_IVT=1, N_FLAGS=1,
// WORD=4, with no step limit and verbose logging off.
func Default() *Config {
	return &Config{
		NumRegisters: 4,
		NumIVT:       1,
		NumFlags:     1,
		Word:         4,
		MaxSteps:     0,
		Verbose:      false,
	}
}

// Load parses a YAML config file, starting from Default() so a partial
// file only overrides the fields it sets.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.NumRegisters == 0 || cfg.Word == 0 {
		return nil, fmt.Errorf("config: %s: registers and word must be non-zero", path)
	}
	return cfg, nil
}

// Layout computes the boundary constants for c and returns them as an
// osci.Layout, ready to pass straight to osci.New — a non-default c
// (loaded from YAML) produces an Emulator with a genuinely different
// address-space layout, not just a different info printout. BiosBound is
// fixed at 2^31 regardless of the other parameters, matching spec.md §3.
func (c *Config) Layout() osci.Layout {
	const maxAddr uint32 = 0xFFFFFFFF
	regBound := maxAddr - c.NumRegisters*c.Word + 1
	ivtBound := regBound - c.NumIVT*c.Word
	flagWords := (c.NumFlags + 31) / 32
	flagBound := ivtBound - flagWords*c.Word

	return osci.Layout{
		MaxAddr:      maxAddr,
		RegBound:     regBound,
		IVTBound:     ivtBound,
		FlagBound:    flagBound,
		BiosBound:    osci.BiosBound,
		NumRegisters: c.NumRegisters,
	}
}
