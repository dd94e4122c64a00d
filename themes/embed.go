// Package themes carries the built-in theme so a bare binary can serve the
// site.
package themes

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed redimaq
var builtin embed.FS

// Open returns the theme rooted at its directory (templates/, static/). An
// empty dir selects the embedded copy.
func Open(dir, name string) (fs.FS, error) {
	if dir != "" {
		root := filepath.Join(dir, name)
		if _, err := os.Stat(root); err != nil {
			return nil, fmt.Errorf("themes: %w", err)
		}
		return os.DirFS(root), nil
	}
	sub, err := fs.Sub(builtin, name)
	if err != nil {
		return nil, fmt.Errorf("themes: %w", err)
	}
	if _, err := fs.Stat(sub, "templates"); err != nil {
		return nil, fmt.Errorf("themes: unknown built-in theme %q", name)
	}
	return sub, nil
}
