package app

import (
	"context"
	"fmt"
	"io/fs"
	"log"

	"redimaq/internal/domain/content"
	"redimaq/internal/index"
	"redimaq/internal/ingest"
	"redimaq/internal/render"
)

const excerptRunes = 160

// LoadCatalog ingests posts from src, fills missing excerpts from the body,
// stores the set in idx and returns the snapshot read back from it.
func LoadCatalog(ctx context.Context, src fs.FS, idx *index.Store, md *render.MarkdownRenderer) (*content.Catalog, []ingest.Warning, error) {
	posts, warns, err := ingest.Ingest(src)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, warns, err
	}

	for i := range posts {
		if posts[i].Excerpt != "" {
			continue
		}
		res, err := md.Render([]byte(posts[i].Content))
		if err != nil {
			return nil, warns, fmt.Errorf("app: excerpt for %s: %w", posts[i].Slug, err)
		}
		posts[i].Excerpt = md.Summary(string(res.HTML), excerptRunes)
	}

	changed, err := idx.Rebuild(posts)
	if err != nil {
		return nil, warns, err
	}
	if changed {
		log.Printf("[index] rebuilt with %d posts", len(posts))
	}

	cat, err := idx.Catalog()
	if err != nil {
		return nil, warns, fmt.Errorf("app: read catalogue: %w", err)
	}
	return cat, warns, nil
}
