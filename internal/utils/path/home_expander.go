package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const tildePrefixConstant = "~"

// HomeDirectoryProvider resolves the current user's home directory.
type HomeDirectoryProvider func() (string, error)

// HomeExpander rewrites ~-prefixed paths against the user's home directory.
// The directory is looked up once and reused for every expansion.
type HomeExpander struct {
	resolveHome func() (string, error)
}

// NewHomeExpander builds an expander backed by os.UserHomeDir.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider builds an expander backed by the supplied
// lookup. A nil provider falls back to os.UserHomeDir.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{resolveHome: sync.OnceValues(provider)}
}

// Expand resolves a leading tilde to the home directory. Paths without the
// shortcut, ~user forms, and lookup failures return the input unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil {
		return candidatePath
	}
	relativePath, expandable := expandableRemainder(candidatePath)
	if !expandable {
		return candidatePath
	}

	homeDirectory, homeError := expander.resolveHome()
	if homeError != nil || len(homeDirectory) == 0 {
		return candidatePath
	}
	return filepath.Join(homeDirectory, relativePath)
}

func expandableRemainder(candidatePath string) (string, bool) {
	remainder, tildeFound := strings.CutPrefix(candidatePath, tildePrefixConstant)
	if !tildeFound {
		return "", false
	}
	if len(remainder) == 0 {
		return "", true
	}
	if remainder[0] == '/' || remainder[0] == os.PathSeparator {
		return remainder[1:], true
	}
	return "", false
}
