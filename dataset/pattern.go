package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cquammen/cinema"
)

// Expand replaces every {name} placeholder of pattern with controls[name],
// or with the default of parameter name when the control is not set. The
// result must be a local, slash-separated path.
func Expand(pattern string, ds *cinema.Dataset, controls cinema.Controls) (string, error) {
	var b strings.Builder
	rest := pattern
	for {
		before, after, found := strings.Cut(rest, "{")
		b.WriteString(before)
		if !found {
			break
		}
		name, tail, ok := strings.Cut(after, "}")
		if !ok || name == "" {
			return "", fmt.Errorf("%w: %q", ErrBadPattern, pattern)
		}
		value, ok := controls[name]
		if !ok {
			p, known := ds.Parameter(name)
			if !known || p.Default == "" {
				return "", fmt.Errorf("%w: %q", ErrMissingParameter, name)
			}
			value = p.Default
		}
		b.WriteString(value)
		rest = tail
	}

	out := b.String()
	if !filepath.IsLocal(filepath.FromSlash(out)) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, out)
	}
	return out, nil
}
