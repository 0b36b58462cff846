package render

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTML_Render(t *testing.T) {
	t.Parallel()
	r := NewHTML()

	tests := []struct {
		name     string
		body     string
		contains []string
	}{
		{"heading", "# Usage", []string{`<h1 id="usage">Usage</h1>`}},
		{"table", "| a | b |\n|---|---|\n| 1 | 2 |", []string{"<table>", "<td>1</td>"}},
		{"strikethrough", "~~old~~", []string{"<del>old</del>"}},
		{"task list", "- [x] done", []string{`type="checkbox"`, "checked"}},
		{"autolink", "see https://example.com", []string{`<a href="https://example.com">`}},
		{"code", "```sh\nls\n```", []string{`<code class="language-sh">`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out, err := r.Render(tt.body)
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestHTML_OmitsRawHTML(t *testing.T) {
	t.Parallel()
	out, err := NewHTML().Render("<script>alert(1)</script>\n\ntext")
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "<p>text</p>")
}

func TestHTML_Empty(t *testing.T) {
	t.Parallel()
	out, err := NewHTML().Render("")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestHTML_Concurrent(t *testing.T) {
	t.Parallel()
	r := NewHTML()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := r.Render("**bold**")
			assert.NoError(t, err)
			assert.Contains(t, out, "<strong>bold</strong>")
		}()
	}
	wg.Wait()
}

func TestTerminal(t *testing.T) {
	t.Parallel()
	out := Terminal("# Title\n\nSome *text*.", 60)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "text")
}
