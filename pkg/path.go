package pkg

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

// DirMode is the permission mode of directories created by [MkdirAll].
const DirMode os.FileMode = 0o700

// Prefix returns the base name of the running executable, used to name the
// configuration and cache directories and as the prefix of environment
// variables read by the CLI.
//
// Two substitutions apply to the base name:
//   - "__debug_bin" (default output of the dlv debugger): replaced with [Name]
//   - "^\.+" (dot-prefixed names): the dots are removed
//
//nolint:gochecknoglobals
var Prefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimSuffix(id, filepath.Ext(id))

		id = debugBin.ReplaceAllString(id, Name)
		id = leadingDots.ReplaceAllString(id, "")

		if id == "" {
			return Name
		}

		return id
	},
)

var (
	debugBin    = regexp.MustCompile(`^__debug_bin\d*$`)
	leadingDots = regexp.MustCompile(`^\.+`)
)

// EnvName returns the environment variable name for key, e.g.
// "OPTBIND_CONFIG_DIR" for "config-dir".
func EnvName(key string) string {
	id := strings.ToUpper(Prefix() + "_" + key)

	return strings.NewReplacer("-", "_", ".", "_").Replace(id)
}

// ConfigDir returns the configuration directory path. The environment
// variable named by EnvName("config-dir") overrides it.
//
//nolint:gochecknoglobals
var ConfigDir = sync.OnceValue(
	func() string { return userDir("config-dir", os.UserConfigDir, ".config") },
)

// CacheDir returns the directory for transient files such as profiles and
// line-editor history. The environment variable named by
// EnvName("cache-dir") overrides it.
//
//nolint:gochecknoglobals
var CacheDir = sync.OnceValue(
	func() string { return userDir("cache-dir", os.UserCacheDir, ".cache") },
)

// userDir returns the per-user directory for this executable under base,
// falling back to home/hidden and then the working directory.
func userDir(key string, base func() (string, error), hidden string) string {
	if dir := os.Getenv(EnvName(key)); dir != "" {
		return dir
	}

	dir, err := base()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, Prefix())
}

// MkdirAll creates the configuration and cache directories.
func MkdirAll() error {
	for _, dir := range []string{ConfigDir(), CacheDir()} {
		if err := os.MkdirAll(dir, DirMode); err != nil {
			return err
		}
	}

	return nil
}
