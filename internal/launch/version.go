package launch

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// parseVersion extracts a semantic version ("v3.10.4") from interpreter
// output such as "Python 3.10.4".
func parseVersion(output string) (string, error) {
	m := versionPattern.FindStringSubmatch(output)
	if m == nil {
		return "", fmt.Errorf("no version number in %q", strings.TrimSpace(output))
	}
	v := "v" + m[1] + "." + m[2]
	if m[3] != "" {
		v += "." + m[3]
	}
	return v, nil
}

// atLeast reports whether version satisfies the minimum, given in the
// config's bare form ("3.8").
func atLeast(version, minimum string) (bool, error) {
	minV := "v" + strings.TrimPrefix(strings.TrimSpace(minimum), "v")
	if !semver.IsValid(minV) {
		return false, fmt.Errorf("invalid minimum version %q", minimum)
	}
	if !semver.IsValid(version) {
		return false, fmt.Errorf("invalid version %q", version)
	}
	return semver.Compare(version, minV) >= 0, nil
}
