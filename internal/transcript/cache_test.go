package transcript

import (
	"testing"

	"glyph-cli/internal/tui/render"
)

func TestBlockCacheWidthKey(t *testing.T) {
	var c BlockCache
	if _, ok := c.HeightAt(80); ok {
		t.Fatalf("empty cache reported a hit")
	}

	c.StoreWithHeight(80, []render.Line{plainLine("a"), plainLine("b")})
	if h, ok := c.HeightAt(80); !ok || h != 2 {
		t.Fatalf("HeightAt(80) = %d,%v, want 2,true", h, ok)
	}
	if _, ok := c.HeightAt(40); ok {
		t.Fatalf("cache hit at the wrong width")
	}

	c.Invalidate()
	if _, ok := c.HeightAt(80); ok {
		t.Fatalf("cache hit after invalidation")
	}
}

func TestBlockCacheCopiesLines(t *testing.T) {
	src := []render.Line{plainLine("original")}
	var c BlockCache
	c.StoreWithHeight(80, src)

	src[0].Spans[0].Text = "mutated"
	lines, ok := c.LinesAt(80)
	if !ok || lines[0].Plain() != "original" {
		t.Fatalf("cache shares storage with caller: %q", lines[0].Plain())
	}
}

func TestTextBlockAppendInvalidates(t *testing.T) {
	b := &TextBlock{Content: "hel"}
	b.Cache.StoreWithHeight(80, []render.Line{plainLine("hel")})
	b.Append("lo")
	if _, ok := b.Cache.HeightAt(80); ok {
		t.Fatalf("append left a stale cache entry")
	}
	if b.Content != "hello" {
		t.Fatalf("content = %q", b.Content)
	}
}

func TestSetContentNoopKeepsCache(t *testing.T) {
	b := &TextBlock{Content: "same"}
	b.Cache.StoreWithHeight(80, []render.Line{plainLine("same")})
	b.SetContent("same")
	if _, ok := b.Cache.HeightAt(80); !ok {
		t.Fatalf("identical SetContent dropped the cache")
	}
}
