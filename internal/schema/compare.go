// internal/schema/compare.go
package schema

import (
	"strconv"
	"strings"
)

// CompareVersions compares two dotted numeric versions. Each dot-segment is
// compared numerically; missing segments are treated as 0, so "1.1" == "1.1.0".
// Returns -1, 0 or 1.
func CompareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := len(as)
	if len(bs) > n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		av := segment(as, i)
		bv := segment(bs, i)
		if av < bv {
			return -1
		}
		if av > bv {
			return 1
		}
	}
	return 0
}

func segment(parts []string, i int) int {
	if i >= len(parts) {
		return 0
	}
	v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
	if err != nil {
		return 0
	}
	return v
}
