package render

import (
	"bytes"
	stdhtml "html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// MarkdownRenderer turns post bodies into sanitised HTML. Safe for concurrent
// use once built.
type MarkdownRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	strip  *bluemonday.Policy
}

func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.Strikethrough,
			extension.Table,
			extension.Typographer,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		// 原始 HTML 放行，交给 bluemonday 清理
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	policy.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "span")

	return &MarkdownRenderer{
		md:     md,
		policy: policy,
		strip:  bluemonday.StrictPolicy(),
	}
}

type Heading struct {
	Level int
	ID    string
	Text  string
}

type MarkdownResult struct {
	HTML     template.HTML
	Headings []Heading
}

func (r *MarkdownRenderer) Render(src []byte) (MarkdownResult, error) {
	var buf bytes.Buffer

	ctx := parser.NewContext()
	doc := r.md.Parser().Parse(text.NewReader(src), parser.WithContext(ctx))

	var heads []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var idStr string
		if id, ok := h.AttributeString("id"); ok {
			switch v := id.(type) {
			case string:
				idStr = v
			case []byte:
				idStr = string(v)
			}
		}
		var textBuf bytes.Buffer
		for c := h.FirstChild(); c != nil; c = c.NextSibling() {
			if seg, ok := c.(*ast.Text); ok {
				textBuf.Write(seg.Segment.Value(src))
			}
		}
		if idStr != "" {
			idStr = BodyIDPrefix + idStr
		}
		heads = append(heads, Heading{
			Level: h.Level,
			ID:    idStr,
			Text:  textBuf.String(),
		})
		return ast.WalkContinue, nil
	})

	if err := r.md.Renderer().Render(&buf, src, doc); err != nil {
		return MarkdownResult{}, err
	}
	out, err := scopeIDs(r.policy.SanitizeBytes(buf.Bytes()))
	if err != nil {
		return MarkdownResult{}, err
	}
	return MarkdownResult{
		HTML:     template.HTML(out),
		Headings: heads,
	}, nil
}

// PlainText drops every tag from s and collapses whitespace.
func (r *MarkdownRenderer) PlainText(s string) string {
	out := stdhtml.UnescapeString(r.strip.Sanitize(s))
	return strings.Join(strings.Fields(out), " ")
}

// Summary is the first limit runes of the plain text of s, cut at a word
// boundary when one is close.
func (r *MarkdownRenderer) Summary(s string, limit int) string {
	plain := []rune(r.PlainText(s))
	if limit <= 0 || len(plain) <= limit {
		return string(plain)
	}
	cut := limit
	for i := limit; i > limit*3/4; i-- {
		if plain[i] == ' ' {
			cut = i
			break
		}
	}
	return strings.TrimSpace(string(plain[:cut])) + "…"
}
