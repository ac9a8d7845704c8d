package adapters

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ErrTokenNotFound is returned when a login page carries no CSRF token.
var ErrTokenNotFound = errors.New("csrf token not found")

// TokenExtractor pulls an anti-forgery token out of a login page.
type TokenExtractor interface {
	ExtractToken(html string) (string, error)
}

// HTMLTokenExtractor looks for a hidden `_token` input, then a `csrf-token` meta tag.
type HTMLTokenExtractor struct{}

// ExtractToken implements TokenExtractor.
func (HTMLTokenExtractor) ExtractToken(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse login page: %w", err)
	}

	if token := firstAttr(doc.Find(`input[name="_token"]`), "value"); token != "" {
		return token, nil
	}
	if token := firstAttr(doc.Find(`meta[name="csrf-token"]`), "content"); token != "" {
		return token, nil
	}

	return "", ErrTokenNotFound
}

// firstAttr returns the first non-empty value of attr within sel.
func firstAttr(sel *goquery.Selection, attr string) string {
	var found string
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr(attr); ok && v != "" {
			found = v
			return false
		}
		return true
	})
	return found
}
