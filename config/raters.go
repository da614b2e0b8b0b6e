package config

import (
	"os"
	"strings"
)

// defaultRaters is the built-in reviewer roster used when RATERS is not set.
// Declaration order matters: it is the tie-break when two raters carry the
// same load during an assignment pass.
var defaultRaters = []string{"Vrishank", "Raushan", "Priyanshu", "Vishwanath", "Niyati", "Balaji"}

// Raters returns the reviewer roster as a fresh slice, from the RATERS
// environment variable (comma separated) or the built-in default. Callers
// always get their own copy so the configured roster is never mutated.
func Raters() []string {
	raw := os.Getenv("RATERS")
	if raw == "" {
		out := make([]string, len(defaultRaters))
		copy(out, defaultRaters)
		return out
	}

	parts := strings.Split(raw, ",")
	raters := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" {
			continue
		}
		raters = append(raters, name)
	}
	if len(raters) == 0 {
		out := make([]string, len(defaultRaters))
		copy(out, defaultRaters)
		return out
	}
	return raters
}

// IsRater reports whether name is a member of the configured roster.
func IsRater(name string) bool {
	for _, r := range Raters() {
		if r == name {
			return true
		}
	}
	return false
}
