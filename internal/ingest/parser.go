package ingest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"path"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

var errNoFrontMatter = errors.New("no front matter found")
var errInvalidFrontMatter = errors.New("invalid front matter")

type FrontMatter struct {
	ID       int    `yaml:"id"`
	Title    string `yaml:"title"`
	Slug     string `yaml:"slug"`
	Excerpt  string `yaml:"excerpt"`
	Author   string `yaml:"author"`
	Date     string `yaml:"date"`
	Category string `yaml:"category"`
	Image    string `yaml:"image"`
	Order    int    `yaml:"order"`
	Draft    bool   `yaml:"draft"`
}

func ParseFrontMatter(raw []byte) (FrontMatter, []byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return FrontMatter{}, raw, errNoFrontMatter
	}

	// 统一换行符
	normed := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	normed = bytes.ReplaceAll(normed, []byte("\r"), []byte("\n"))

	const (
		sep      = "---"
		sepLine  = sep + "\n"
		closeMid = "\n" + sep + "\n"
	)

	if !bytes.HasPrefix(normed, []byte(sepLine)) {
		return FrontMatter{}, normed, errNoFrontMatter
	}

	rest := normed[len(sepLine):]

	var yamlPart, bodyPart []byte

	if parts := bytes.SplitN(rest, []byte(closeMid), 2); len(parts) == 2 {
		yamlPart = parts[0]
		bodyPart = parts[1]
	} else {
		switch {
		case bytes.HasSuffix(rest, []byte("\n"+sep)):
			yamlPart = rest[:len(rest)-len("\n"+sep)]
		case bytes.Equal(bytes.TrimSpace(rest), []byte(sep)):
			// "---\n---"：空 front matter，无正文
		default:
			return FrontMatter{}, normed, errInvalidFrontMatter
		}
	}

	yamlPart = bytes.TrimSpace(yamlPart)
	bodyPart = bytes.TrimSpace(bodyPart)

	var fm FrontMatter
	if len(yamlPart) > 0 {
		if err := yaml.Unmarshal(yamlPart, &fm); err != nil {
			return FrontMatter{}, normed, err
		}
	}
	return fm, bodyPart, nil
}

func ResolveSlug(fm FrontMatter, p string) string {
	if s := strings.TrimSpace(fm.Slug); s != "" {
		return slugify(s)
	}
	if t := strings.TrimSpace(fm.Title); t != "" {
		return slugify(t)
	}
	base := path.Base(p)
	return slugify(strings.TrimSuffix(base, path.Ext(base)))
}

func HashBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// slugify lower-cases s, folds Latin accents ("ção" -> "cao") and joins words
// with single dashes.
func slugify(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = norm.NFD.String(s)

	var out []rune
	lastDash := false

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]

		switch {
		case unicode.Is(unicode.Mn, r):
			// 组合附加符号，丢弃
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			out = append(out, unicode.ToLower(r))
			lastDash = false
		default:
			if !lastDash && len(out) > 0 {
				out = append(out, '-')
				lastDash = true
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}
