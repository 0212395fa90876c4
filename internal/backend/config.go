package backend

import (
	"fmt"

	"expenses/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) Config {
	return Config{
		Type:      BackendType(appConfig.Backend),
		StorePath: appConfig.StorePath(),
		Name:      appConfig.StoreName,
	}
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case XLSXBackend, SQLiteBackend:
		if c.StorePath == "" {
			return fmt.Errorf("store path is required for %s backend", c.Type)
		}
	case MemoryBackend:
		// Name falls back to a default
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{XLSXBackend, SQLiteBackend, MemoryBackend}
}
