package ingest

import (
	"fmt"
	"io/fs"
	"runtime"
	"sort"
	"strings"
	"sync"

	"redimaq/internal/domain/content"
)

type Warning struct {
	Path string
	Msg  string
}

func (w Warning) String() string { return w.Path + ": " + w.Msg }

type Result struct {
	Post  content.Post
	Warns []Warning
	Skip  bool
	Err   error
}

// Ingest reads every markdown post under fsys. Problems with a single file
// become warnings; only I/O failures abort. Posts come back in source order:
// front matter "order", then path.
func Ingest(fsys fs.FS) ([]content.Post, []Warning, error) {
	files, err := DiscoverSource(fsys)
	if err != nil {
		return nil, nil, fmt.Errorf("ingest: discover: %w", err)
	}

	workers := min(runtime.GOMAXPROCS(0), max(len(files), 1))
	jobs := make(chan SourceFile)
	results := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sf := range jobs {
				results <- parseFile(fsys, sf)
			}
		}()
	}

	go func() {
		for _, f := range files {
			jobs <- f
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	var out []content.Post
	var warns []Warning
	var firstErr error
	for r := range results {
		// 继续读完 results，避免 worker 阻塞
		if r.Err != nil {
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}
		warns = append(warns, r.Warns...)
		if r.Skip {
			continue
		}
		out = append(out, r.Post)
	}
	if firstErr != nil {
		return nil, nil, firstErr
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].SourcePath < out[j].SourcePath
	})

	posts, dupWarns := dedupe(out)
	return posts, append(warns, dupWarns...), nil
}

func parseFile(fsys fs.FS, sf SourceFile) Result {
	raw, err := fs.ReadFile(fsys, sf.Path)
	if err != nil {
		return Result{Err: fmt.Errorf("ingest: read %s: %w", sf.Path, err)}
	}

	fm, body, fmErr := ParseFrontMatter(raw)
	if fmErr != nil {
		return Result{
			Warns: []Warning{{Path: sf.Path, Msg: "failed to parse front matter: " + fmErr.Error()}},
			Skip:  true,
		}
	}
	if fm.Draft {
		return Result{Skip: true}
	}

	var warns []Warning
	slug := ResolveSlug(fm, sf.Path)
	if slug == "" {
		return Result{Warns: []Warning{{Path: sf.Path, Msg: "empty slug"}}, Skip: true}
	}
	if fm.ID <= 0 {
		return Result{Warns: []Warning{{Path: sf.Path, Msg: "missing or non-positive id"}}, Skip: true}
	}

	p := content.Post{
		ID:         fm.ID,
		Title:      fm.Title,
		Excerpt:    strings.TrimSpace(fm.Excerpt),
		Content:    string(body),
		ImageRef:   fm.Image,
		Author:     fm.Author,
		Date:       fm.Date,
		Category:   fm.Category,
		Slug:       slug,
		Order:      fm.Order,
		SourcePath: sf.Path,
		Hash:       HashBytes(raw),
	}
	p.Normalize()

	if p.Title == "" {
		warns = append(warns, Warning{Path: sf.Path, Msg: "title is empty"})
	}
	if _, ok := p.Day(); !ok {
		warns = append(warns, Warning{Path: sf.Path, Msg: fmt.Sprintf("date %q is not YYYY-MM-DD, sorts as oldest", p.Date)})
	}
	return Result{Post: p, Warns: warns}
}

// dedupe keeps the first post for every id and slug.
func dedupe(in []content.Post) ([]content.Post, []Warning) {
	var warns []Warning
	seenSlug := make(map[string]struct{}, len(in))
	seenID := make(map[int]struct{}, len(in))
	out := make([]content.Post, 0, len(in))
	for _, p := range in {
		if _, ok := seenSlug[p.Slug]; ok {
			warns = append(warns, Warning{Path: p.SourcePath, Msg: "slug 冲突（重复），已跳过: " + p.Slug})
			continue
		}
		if _, ok := seenID[p.ID]; ok {
			warns = append(warns, Warning{Path: p.SourcePath, Msg: fmt.Sprintf("id 冲突（重复），已跳过: %d", p.ID)})
			continue
		}
		seenSlug[p.Slug] = struct{}{}
		seenID[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out, warns
}
