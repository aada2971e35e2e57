// Package flagx pre-scans command-line arguments so the config file path can
// be resolved before the full flag set is parsed.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs keeps only the flags named in allowed together with their
// values. Both "-c file" and "-c=file" forms are recognised; everything else
// is dropped.
func FilterArgs(args []string, allowed []string) []string {
	keep := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		keep[f] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, found := strings.Cut(arg, "="); found && strings.HasPrefix(arg, "-") {
			if keep[name] {
				out = append(out, arg)
			}
			continue
		}

		if !keep[arg] {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}

	return out
}

// ConfigFileFlag returns the value of -c / -config found in args, or "" when
// neither is present. Later occurrences win.
func ConfigFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to JSON or YAML config file")
	fs.StringVar(&path, "c", "", "path to JSON or YAML config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))

	return path
}
