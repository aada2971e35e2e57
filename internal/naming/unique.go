package naming

import (
	"fmt"
	"strings"
)

// GenerateUniqueFileName returns requested unchanged when it is free in
// existing. Otherwise it probes "stem (1).ext", "stem (2).ext", ... and
// returns the first free candidate. The extension is whatever follows the
// final dot; a name ending in a dot has no extension.
func GenerateUniqueFileName(requested string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, n := range existing {
		taken[n] = struct{}{}
	}
	if _, ok := taken[requested]; !ok {
		return requested
	}

	stem, ext := requested, ""
	if i := strings.LastIndexByte(requested, '.'); i >= 0 && i < len(requested)-1 {
		stem, ext = requested[:i], requested[i+1:]
	}

	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s (%d)", stem, n)
		if ext != "" {
			candidate += "." + ext
		}
		if _, ok := taken[candidate]; !ok {
			return candidate
		}
	}
}
