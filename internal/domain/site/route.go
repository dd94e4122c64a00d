package site

import (
	"fmt"
	"strings"
)

type RouteKind string

const (
	RouteHome     RouteKind = "home"
	RouteRepair   RouteKind = "repair"
	RouteBlog     RouteKind = "blog"
	RoutePost     RouteKind = "post"
	RouteNotFound RouteKind = "404"
)

const (
	PathHome   = "/"
	PathRepair = "/consertodecadeiras"
	PathBlog   = "/redimaqblog"
	PathPost   = "/redimaqblog/post/"
	PathLive   = "/live"
)

type Route struct {
	Kind    RouteKind
	Slug    string
	OutPath string
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Slug != "" {
		parts = append(parts, "slug="+r.Slug)
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}

// PostURL is the standalone article page for slug.
func PostURL(slug string) string {
	return fmt.Sprintf("%s%s/", PathPost, slug)
}
