package adapters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLTokenExtractor(t *testing.T) {
	cases := []struct {
		name string
		html string
		want string
	}{
		{
			name: "hidden input",
			html: `<form><input type="hidden" name="_token" value="abc123"></form>`,
			want: "abc123",
		},
		{
			name: "hidden input single quotes",
			html: `<form><input type='hidden' name='_token' value='q-1'></form>`,
			want: "q-1",
		},
		{
			name: "meta tag",
			html: `<html><head><meta name="csrf-token" content="meta-456"></head><body></body></html>`,
			want: "meta-456",
		},
		{
			name: "input wins over meta",
			html: `<head><meta name="csrf-token" content="meta"></head><body><input name="_token" value="input"></body>`,
			want: "input",
		},
		{
			name: "empty input falls back to meta",
			html: `<head><meta name="csrf-token" content="meta"></head><body><input name="_token" value=""></body>`,
			want: "meta",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := HTMLTokenExtractor{}.ExtractToken(tc.html)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHTMLTokenExtractor_NotFound(t *testing.T) {
	for _, html := range []string{
		"",
		`<form><input name="email"></form>`,
		`<meta name="description" content="Steadfast">`,
		`<input name="_token">`,
	} {
		_, err := HTMLTokenExtractor{}.ExtractToken(html)
		assert.ErrorIs(t, err, ErrTokenNotFound, "html %q", html)
	}
}
