package app

import (
	"path"

	"redimaq/internal/domain/content"
	"redimaq/internal/domain/site"
)

// Routes lists every page a static export writes, with its output path
// relative to the public directory.
func Routes(cat *content.Catalog) []site.Route {
	routes := []site.Route{
		{Kind: site.RouteHome, OutPath: "index.html"},
		{Kind: site.RouteRepair, OutPath: path.Join(site.PathRepair[1:], "index.html")},
		{Kind: site.RouteBlog, OutPath: path.Join(site.PathBlog[1:], "index.html")},
	}
	for _, p := range cat.Posts() {
		routes = append(routes, site.Route{
			Kind:    site.RoutePost,
			Slug:    p.Slug,
			OutPath: path.Join(site.PostURL(p.Slug)[1:], "index.html"),
		})
	}
	return append(routes, site.Route{Kind: site.RouteNotFound, OutPath: "404.html"})
}
