package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// expandPath expands $VAR references and a leading ~ in p. On Windows a
// ~\ prefix is accepted as well.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)

	var rest string
	switch {
	case p == "~":
	case strings.HasPrefix(p, "~/"):
		rest = p[2:]
	case runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`):
		rest = p[2:]
	default:
		return p
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if rest == "" {
		return home
	}
	return filepath.Join(home, rest)
}
