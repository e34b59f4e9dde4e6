// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blocks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/folio/internal/model"
)

func TestColumns(t *testing.T) {
	tests := []struct {
		n       int
		image   int
		gallery int
	}{
		{0, 0, 0},
		{1, 1, 1},
		{2, 2, 2},
		{3, 3, 3},
		{4, 2, 2},
		{5, 3, 3},
		{6, 3, 3},
		{7, 3, 4},
		{12, 3, 4},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.image, Columns(tt.n, StyleImage), "image n=%d", tt.n)
		assert.Equal(t, tt.gallery, Columns(tt.n, StyleGallery), "gallery n=%d", tt.n)
	}
}

func TestEmbedURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"youtube watch with params", "https://www.youtube.com/watch?v=XYZ&t=5", "https://www.youtube.com/embed/XYZ"},
		{"youtube watch", "https://youtube.com/watch?v=abc123", "https://www.youtube.com/embed/abc123"},
		{"youtu.be with query", "https://youtu.be/XYZ?t=5", "https://www.youtube.com/embed/XYZ"},
		{"youtu.be", "https://youtu.be/XYZ", "https://www.youtube.com/embed/XYZ"},
		{"vimeo", "https://vimeo.com/123456?share=copy", "https://player.vimeo.com/video/123456"},
		{"already embedded", "https://www.youtube.com/embed/XYZ", "https://www.youtube.com/embed/XYZ"},
		{"direct file", "https://cdn.example.com/clip.mp4", "https://cdn.example.com/clip.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EmbedURL(tt.in))
		})
	}
}

func TestIsEmbeddable(t *testing.T) {
	assert.True(t, IsEmbeddable("https://www.youtube.com/watch?v=1"))
	assert.True(t, IsEmbeddable("https://youtu.be/1"))
	assert.True(t, IsEmbeddable("https://vimeo.com/1"))
	assert.False(t, IsEmbeddable("https://example.com/video.mp4"))
}

func TestRender_EmptyList(t *testing.T) {
	doc := Render(nil)
	assert.True(t, doc.Empty)
	assert.Contains(t, string(doc.HTML()), "No content available")

	doc = Render([]model.Block{})
	assert.True(t, doc.Empty)
}

func TestRender_PreservesOrderAndLength(t *testing.T) {
	input := []model.Block{
		{ID: "1", Type: model.BlockHeading, Content: "Overview"},
		{ID: "2", Type: model.BlockText, Content: "Body"},
		{ID: "3", Type: model.BlockSubheading, Content: "Details"},
		{ID: "4", Type: model.BlockImage, Content: "https://img.example.com/a.png"},
		{ID: "5", Type: model.BlockVideo, Content: "https://youtu.be/XYZ"},
	}

	doc := Render(input)
	require.Len(t, doc.Fragments, len(input))
	require.Len(t, doc.NonEmpty(), len(input))
	for i, f := range doc.Fragments {
		assert.Equal(t, input[i].ID, f.BlockID)
		assert.Equal(t, input[i].Type, f.Type)
	}
}

func TestRender_UnknownTypeOmitted(t *testing.T) {
	doc := Render([]model.Block{
		{ID: "1", Type: model.BlockHeading, Content: "Before"},
		{ID: "2", Type: "foo", Content: "ignored"},
		{ID: "3", Type: model.BlockHeading, Content: "After"},
	})

	require.Len(t, doc.Fragments, 3)
	assert.True(t, doc.Fragments[1].IsEmpty())
	assert.Len(t, doc.NonEmpty(), 2)

	out := string(doc.HTML())
	assert.Contains(t, out, "Before")
	assert.Contains(t, out, "After")
	assert.NotContains(t, out, "ignored")
	assert.Less(t, strings.Index(out, "Before"), strings.Index(out, "After"))
}

func TestRenderBlock_Headings(t *testing.T) {
	h := string(RenderBlock(model.Block{Type: model.BlockHeading, Content: "Tom & Jerry"}))
	assert.Contains(t, h, "<h2")
	assert.Contains(t, h, "Tom &amp; Jerry")

	sub := string(RenderBlock(model.Block{Type: model.BlockSubheading}))
	assert.Contains(t, sub, "<h3")
}

func TestRenderBlock_TextKeepsLineBreaksAndEscapes(t *testing.T) {
	out := string(RenderBlock(model.Block{
		Type:    model.BlockText,
		Content: "first line\nsecond <b>line</b>\n**not markdown**",
	}))

	assert.Equal(t, 2, strings.Count(out, "<br"))
	assert.Contains(t, out, "&lt;b&gt;line&lt;/b&gt;")
	assert.Contains(t, out, "**not markdown**")
	assert.NotContains(t, out, "<b>")
}

func TestRenderBlock_ImageResolution(t *testing.T) {
	t.Run("content only", func(t *testing.T) {
		out := string(RenderBlock(model.Block{Type: model.BlockImage, Content: "https://img.example.com/a.png"}))
		assert.Contains(t, out, `src="https://img.example.com/a.png"`)
		assert.Contains(t, out, `data-fallback="Image not available"`)
		assert.NotContains(t, out, "grid-cols")
	})

	t.Run("images win over content", func(t *testing.T) {
		out := string(RenderBlock(model.Block{
			Type:    model.BlockImage,
			Content: "https://img.example.com/ignored.png",
			Images:  []string{"https://img.example.com/1.png", "https://img.example.com/2.png"},
		}))
		assert.NotContains(t, out, "ignored.png")
		assert.Contains(t, out, "grid-cols-2")
		assert.Contains(t, out, `data-fallback="Image 1 not available"`)
		assert.Contains(t, out, `data-fallback="Image 2 not available"`)
		assert.NotContains(t, out, "gallery-item")
	})

	t.Run("no image", func(t *testing.T) {
		out := string(RenderBlock(model.Block{Type: model.BlockImage}))
		assert.Contains(t, out, "No images provided")
	})

	t.Run("blank content", func(t *testing.T) {
		out := string(RenderBlock(model.Block{Type: model.BlockImage, Content: "   "}))
		assert.Contains(t, out, "No images provided")
		assert.NotContains(t, out, "<img")
	})

	t.Run("four images use two columns", func(t *testing.T) {
		out := string(RenderBlock(model.Block{Type: model.BlockImage, Images: []string{"/1", "/2", "/3", "/4"}}))
		assert.Contains(t, out, "grid-cols-2")
	})
}

func TestRenderBlock_Gallery(t *testing.T) {
	t.Run("single image is still a gallery", func(t *testing.T) {
		out := string(RenderBlock(model.Block{Type: model.BlockGallery, Images: []string{"/1.png"}}))
		assert.Contains(t, out, "gallery-item")
		assert.Contains(t, out, "grid-cols-1")
	})

	t.Run("content list", func(t *testing.T) {
		out := string(RenderBlock(model.Block{Type: model.BlockGallery, Content: "/1.png\n/2.png, /3.png"}))
		assert.Contains(t, out, "grid-cols-3")
		assert.Equal(t, 3, strings.Count(out, "<img"))
	})

	t.Run("seven images use four columns", func(t *testing.T) {
		images := []string{"/1", "/2", "/3", "/4", "/5", "/6", "/7"}
		out := string(RenderBlock(model.Block{Type: model.BlockGallery, Images: images}))
		assert.Contains(t, out, "grid-cols-4")
	})

	t.Run("empty", func(t *testing.T) {
		out := string(RenderBlock(model.Block{Type: model.BlockGallery}))
		assert.Contains(t, out, "No gallery images provided")
	})
}

func TestRenderBlock_Video(t *testing.T) {
	t.Run("embeddable", func(t *testing.T) {
		out := string(RenderBlock(model.Block{Type: model.BlockVideo, Content: "https://www.youtube.com/watch?v=XYZ&t=5"}))
		assert.Contains(t, out, "<iframe")
		assert.Contains(t, out, `src="https://www.youtube.com/embed/XYZ"`)
	})

	t.Run("direct", func(t *testing.T) {
		out := string(RenderBlock(model.Block{Type: model.BlockVideo, Content: "https://cdn.example.com/clip.mp4"}))
		assert.Contains(t, out, "<video")
		assert.Contains(t, out, `src="https://cdn.example.com/clip.mp4"`)
		assert.Contains(t, out, `data-fallback="Video not available"`)
	})

	t.Run("empty", func(t *testing.T) {
		out := string(RenderBlock(model.Block{Type: model.BlockVideo, Content: "  "}))
		assert.Contains(t, out, "Video not provided")
	})

	for _, url := range []string{
		"https://www.youtube.com/shorts/abcDEF",
		"https://vimeo.com/channels/staff/12345",
	} {
		t.Run("no player form "+url, func(t *testing.T) {
			out := string(RenderBlock(model.Block{Type: model.BlockVideo, Content: url}))
			assert.NotContains(t, out, "<iframe")
			assert.Contains(t, out, "placeholder-video")
			assert.Contains(t, out, "Video not available")
		})
	}
}

func TestRenderBlock_UnsafeURLsNeutralized(t *testing.T) {
	out := string(RenderBlock(model.Block{Type: model.BlockImage, Content: "javascript:alert(1)"}))
	assert.NotContains(t, out, "javascript:")

	out = string(RenderBlock(model.Block{Type: model.BlockText, Content: `<script>alert(1)</script>`}))
	assert.NotContains(t, out, "<script>")
}

func TestRenderMedia(t *testing.T) {
	frags := RenderMedia([]model.Media{
		{Type: model.MediaTypeImage, URL: "https://img.example.com/shot.png", Caption: "Dashboard"},
		{Type: model.MediaTypeVideo, URL: "https://vimeo.com/42"},
		{Type: model.MediaTypeImage, URL: ""},
	})

	require.Len(t, frags, 2)
	assert.Contains(t, string(frags[0].HTML), "<figcaption>Dashboard</figcaption>")
	assert.Contains(t, string(frags[1].HTML), "https://player.vimeo.com/video/42")
	assert.Equal(t, model.BlockVideo, frags[1].Type)
	assert.Equal(t, "media-1", frags[1].BlockID)
}

func TestRenderMedia_EmbedWithoutPlayer(t *testing.T) {
	frags := RenderMedia([]model.Media{
		{Type: model.MediaTypeVideo, URL: "https://www.youtube.com/shorts/abcDEF", Caption: "Teaser"},
	})

	require.Len(t, frags, 1)
	out := string(frags[0].HTML)
	assert.NotContains(t, out, "<iframe")
	assert.Contains(t, out, "Video not available")
	assert.Contains(t, out, "<figcaption>Teaser</figcaption>")
}
