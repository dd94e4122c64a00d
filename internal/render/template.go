package render

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

type TemplateRenderer struct {
	tpl *template.Template
}

// NewTemplateRenderer parses templates/*.tmpl from a theme tree.
func NewTemplateRenderer(theme fs.FS) (*TemplateRenderer, error) {
	if err := CheckThemeTemplates(theme); err != nil {
		return nil, err
	}
	tpl, err := template.New("").Funcs(templateFuncs()).ParseFS(theme, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("render: parse templates: %w", err)
	}
	return &TemplateRenderer{tpl: tpl}, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"add": func(a, b int) int { return a + b },
		// tel: 不在 html/template 的白名单里
		"telURL": func(s string) template.URL {
			if !strings.HasPrefix(s, "tel:") {
				return template.URL("#")
			}
			return template.URL(s)
		},
	}
}

func (r *TemplateRenderer) RenderHome(ctx context.Context, page HomePage) ([]byte, error) {
	return r.exec("home.tmpl", page)
}

func (r *TemplateRenderer) RenderRepair(ctx context.Context, page RepairPage) ([]byte, error) {
	return r.exec("repair.tmpl", page)
}

func (r *TemplateRenderer) RenderBlog(ctx context.Context, page BlogPage) ([]byte, error) {
	return r.exec("blog.tmpl", page)
}

func (r *TemplateRenderer) RenderPost(ctx context.Context, page PostPage) ([]byte, error) {
	return r.exec("post.tmpl", page)
}

func (r *TemplateRenderer) RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error) {
	return r.exec("404.tmpl", page)
}

func (r *TemplateRenderer) RenderRegion(ctx context.Context, region string, data any) ([]byte, error) {
	return r.exec("region-"+region, data)
}

func (r *TemplateRenderer) exec(name string, data any) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var requiredTemplates = []string{
	"partials.tmpl",
	"blog-regions.tmpl",
	"home.tmpl",
	"repair.tmpl",
	"blog.tmpl",
	"post.tmpl",
	"404.tmpl",
}

func CheckThemeTemplates(theme fs.FS) error {
	for _, name := range requiredTemplates {
		if _, err := fs.Stat(theme, "templates/"+name); err != nil {
			return fmt.Errorf("missing template: %s", name)
		}
	}
	return nil
}
