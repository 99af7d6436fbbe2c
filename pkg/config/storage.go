package config

import "fmt"

// StorageConfig holds the location of the local snapshot database.
type StorageConfig struct {
	Path string `koanf:"path"`
}

func (c *StorageConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("storage path is not configured")
	}
	return nil
}
