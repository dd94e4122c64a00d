package render

import "context"

type Renderer interface {
	RenderHome(ctx context.Context, page HomePage) ([]byte, error)
	RenderRepair(ctx context.Context, page RepairPage) ([]byte, error)
	RenderBlog(ctx context.Context, page BlogPage) ([]byte, error)
	RenderPost(ctx context.Context, page PostPage) ([]byte, error)
	RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error)

	// RenderRegion renders one live region ("hero", "post-list", ...) with
	// the same templates the full page uses.
	RenderRegion(ctx context.Context, region string, data any) ([]byte, error)
}
