package classify

import (
	"regexp"
	"strconv"
	"strings"
)

var majorVersionPattern = regexp.MustCompile(`^v?(\d+)(\.\d+)*$`)

// ExtractMajorVersion returns "v<major>" for tags like v4, 4.1, or v4.1.2.
// It returns nil for any other tag.
func ExtractMajorVersion(tag string) *string {
	m := majorVersionPattern.FindStringSubmatch(tag)
	if m == nil {
		return nil
	}
	s := "v" + m[1]
	return &s
}

func majorOf(version string) (int, bool) {
	first, _, _ := strings.Cut(strings.TrimPrefix(version, "v"), ".")
	n, err := strconv.Atoi(first)
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsOutdated reports whether the major version of detected is lower than that of latest.
// It returns false if either version is empty or its major version isn't a number.
func IsOutdated(detected, latest string) bool {
	if detected == "" || latest == "" {
		return false
	}
	d, ok := majorOf(detected)
	if !ok {
		return false
	}
	l, ok := majorOf(latest)
	if !ok {
		return false
	}
	return d < l
}
