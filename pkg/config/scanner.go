package config

import (
	"fmt"
	"strings"
)

// ScannerConfig controls the barcode scanner loop on standard input.
type ScannerConfig struct {
	Enabled bool `koanf:"enabled"`
}

// String returns a string representation of the scanner configuration.
func (c *ScannerConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Scanner ---\n")
	b.WriteString(fmt.Sprintf("  enabled: %t\n", c.Enabled))
	return b.String()
}

func (c *ScannerConfig) Validate() error {
	return nil
}
