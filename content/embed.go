// Package content holds the built-in blog posts.
package content

import (
	"embed"
	"io/fs"
	"os"
)

//go:embed posts
var builtin embed.FS

// Open returns dir as a file system, or the built-in posts when dir is empty.
func Open(dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	return builtin
}
