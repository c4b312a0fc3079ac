package main

import (
	"fmt"
	"os"

	"github.com/naoina/toml"
)

// policyFile is the on-disk shape of a policy document: the (X, A, L)
// triple, plus an optional fixed schedule of attempt times for the
// simulate command. Any field left zero is filled by the library's own
// defaulting rules, not by this loader.
type policyFile struct {
	Policy struct {
		X float64 `toml:"x"`
		A int64   `toml:"a"`
		L int64   `toml:"l"`
	} `toml:"policy"`
	Schedule []int64 `toml:"schedule"`
}

// loadPolicyFile reads and decodes a TOML policy document. An empty path is
// not an error: it yields an empty policyFile, which defaults everything. A
// non-empty path that cannot be read or decoded returns an error.
func loadPolicyFile(path string) (policyFile, error) {
	var cfg policyFile
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read policy file: %w", err)
	}
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("decode policy file: %w", err)
	}
	return cfg, nil
}
