// Package cargo reads the few crate manifest fields the extractor
// needs.
package cargo

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// ErrNoVersion indicates a manifest without a package.version entry.
var ErrNoVersion = errors.New("manifest has no package.version")

// Version returns the package.version string from the crate's
// Cargo.toml.
func Version(crateDir string) (string, error) {
	manifest := viper.New()
	manifest.SetConfigFile(filepath.Join(crateDir, "Cargo.toml"))
	manifest.SetConfigType("toml")

	if err := manifest.ReadInConfig(); err != nil {
		return "", fmt.Errorf("failed to read crate manifest: %w", err)
	}

	version := manifest.GetString("package.version")
	if version == "" {
		return "", ErrNoVersion
	}

	return version, nil
}
