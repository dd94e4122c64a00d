package render

import (
	"bytes"
	"errors"
	"io"
	"strings"

	nethtml "golang.org/x/net/html"
)

// BodyIDPrefix is put in front of every id inside a rendered post body, and of
// every in-body fragment link, so body ids never collide with page ids.
const BodyIDPrefix = "md-"

func scopeIDs(src []byte) ([]byte, error) {
	z := nethtml.NewTokenizer(bytes.NewReader(src))
	var out bytes.Buffer
	for {
		tt := z.Next()
		switch tt {
		case nethtml.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return nil, err
			}
			return out.Bytes(), nil
		case nethtml.StartTagToken, nethtml.SelfClosingTagToken:
			raw := append([]byte(nil), z.Raw()...)
			tok := z.Token()
			if !scopeAttrs(tok.Attr) {
				out.Write(raw)
				continue
			}
			out.WriteString(tok.String())
		default:
			out.Write(z.Raw())
		}
	}
}

func scopeAttrs(attrs []nethtml.Attribute) bool {
	changed := false
	for i, a := range attrs {
		switch {
		case a.Key == "id" && a.Val != "":
			attrs[i].Val = BodyIDPrefix + a.Val
			changed = true
		case a.Key == "href" && len(a.Val) > 1 && strings.HasPrefix(a.Val, "#"):
			attrs[i].Val = "#" + BodyIDPrefix + a.Val[1:]
			changed = true
		}
	}
	return changed
}
