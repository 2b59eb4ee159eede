package pkg

import (
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
)

// ErrVersion is returned when the embedded version is not a valid semantic
// version.
var ErrVersion = NewError("invalid embedded version")

// SemVer parses the embedded [Version] as a semantic version.
//
// The result is computed once; later calls return the same value.
var SemVer = sync.OnceValues(
	func() (*semver.Version, error) {
		raw := strings.TrimSpace(Version)

		v, err := semver.NewVersion(raw)
		if err != nil {
			return nil, ErrVersion.Wrap(err).WithArg(raw)
		}

		return v, nil
	},
)

// VersionString returns the canonical "v"-prefixed form of the embedded
// version, or the raw text if it cannot be parsed.
func VersionString() string {
	v, err := SemVer()
	if err != nil {
		return strings.TrimSpace(Version)
	}

	return "v" + v.String()
}
