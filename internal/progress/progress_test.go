package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetLoadingToggles(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, "Scraping")

	assert.False(t, p.Loading())
	p.SetLoading(true)
	p.SetLoading(true)
	assert.True(t, p.Loading())
	p.SetLoading(false)
	assert.False(t, p.Loading())

	p.SetLoading(false)
	assert.False(t, p.Loading())
}

func TestSetTarget(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, "Scraping")
	p.SetTarget("https://example.com/a")
	assert.Equal(t, " Scraping https://example.com/a", p.s.Suffix)
}

func TestShortURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com", "https://example.com"},
		{"https://news.example.com/2024/05/01/a-very-long-article-slug", "news.example.com...ery-long-article-slug"},
	}
	for _, tt := range tests {
		got := ShortURL(tt.in, 40)
		assert.Equal(t, tt.want, got, tt.in)
		assert.LessOrEqual(t, len(got), 40)
	}
}
