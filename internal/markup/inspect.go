package markup

import (
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Annotation is an element found by Inspect.
type Annotation struct {
	Tag   string
	Role  string
	Label string
	// Attrs holds every attribute of the element in source order.
	Attrs []html.Attribute
}

// Attr returns the value of the named attribute.
func (a Annotation) Attr(key string) (string, bool) {
	for _, at := range a.Attrs {
		if at.Key == key {
			return at.Val, true
		}
	}
	return "", false
}

// Inspect tokenizes text and returns, in document order, every element that
// carries a role or an aria-* attribute.
func Inspect(text string) ([]Annotation, error) {
	var out []Annotation
	z := html.NewTokenizer(strings.NewReader(text))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return out, err
			}
			return out, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if a, ok := annotationOf(tok); ok {
				out = append(out, a)
			}
		}
	}
}

func annotationOf(tok html.Token) (Annotation, bool) {
	a := Annotation{Tag: tok.Data, Attrs: tok.Attr}
	found := false
	for _, at := range tok.Attr {
		switch {
		case at.Key == "role":
			a.Role = at.Val
			found = true
		case at.Key == "aria-label":
			a.Label = at.Val
			found = true
		case strings.HasPrefix(at.Key, "aria-"):
			found = true
		}
	}
	return a, found
}
