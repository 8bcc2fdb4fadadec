package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeRemovesScripts(t *testing.T) {
	t.Parallel()

	out := Sanitize(`<p onclick="x()">Hello</p><script>alert(1)</script>`)

	assert.Equal(t, "<p>Hello</p>", out)
}

func TestPlainText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "paragraphs", in: "<p>Breaking</p>\n<p>news   today</p>", want: "Breaking news today"},
		{name: "markup only", in: "<p><br/></p>", want: ""},
		{name: "style dropped", in: "<style>p{}</style><p>Body</p>", want: "Body"},
		{name: "plain input", in: "  just   text ", want: "just text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlainText(tt.in))
		})
	}
}

func TestExcerpt(t *testing.T) {
	t.Parallel()

	body := "<p>" + strings.Repeat("word ", 40) + "</p>"

	out := Excerpt(body, 30)
	assert.True(t, strings.HasSuffix(out, "…"))
	assert.LessOrEqual(t, len([]rune(out)), 31)
	assert.Equal(t, "short", Excerpt("<b>short</b>", 30))
}

func TestExcerptCutsMultibyteTextOnWordBoundary(t *testing.T) {
	t.Parallel()

	// accented runes take more bytes than runes
	word := "Hà Nội"
	body := "<p>" + strings.Repeat(word+" ", 20) + "</p>"

	out := Excerpt(body, 20)
	assert.Equal(t, "Hà Nội Hà Nội Hà…", out)
}
