package cli

import (
	"path/filepath"

	"github.com/ardnew/optbind/pkg"
)

// baseConfig is the base name of the configuration files.
const baseConfig = "config"

// configPath returns the path of the configuration file with extension ext.
func configPath(ext string) string {
	return filepath.Join(pkg.ConfigDir(), baseConfig+ext)
}
