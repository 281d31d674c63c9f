// Package versions orders configuration document versions.
package versions

import "github.com/Masterminds/semver/v3"

// IsNewerVersion reports whether candidate denotes a strictly newer
// version than current. Both values are compared as semantic versions
// when they parse as such. Anything else falls back to lexicographic
// ordering, which keeps date-stamped schemes like "build-2026-08-25"
// usable.
func IsNewerVersion(candidate, current string) bool {
	candidateSemver, errCandidate := semver.NewVersion(candidate)
	currentSemver, errCurrent := semver.NewVersion(current)

	if errCandidate != nil || errCurrent != nil {
		return candidate > current
	}

	return candidateSemver.Compare(currentSemver) > 0
}
