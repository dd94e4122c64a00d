package ingest

import (
	"io/fs"
	"sort"
	"strings"
)

type SourceFile struct {
	Path string
}

func isMarkdown(name string) bool {
	name = strings.ToLower(name)
	return strings.HasSuffix(name, ".md") || strings.HasSuffix(name, ".markdown")
}

// DiscoverSource lists markdown files under fsys in lexical path order.
func DiscoverSource(fsys fs.FS) ([]SourceFile, error) {
	var out []SourceFile

	err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// 跳过 .git 之类的隐藏目录
			if path != "." && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if isMarkdown(d.Name()) {
			out = append(out, SourceFile{Path: path})
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, err
}
