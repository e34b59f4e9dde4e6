// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package blocks renders project content blocks into HTML fragments.
//
// Rendering is a pure function of the block list: one fragment per block,
// in input order. Unknown block types produce an empty fragment. Media
// elements carry a data-fallback label that the page script uses to swap a
// single broken image or video for a placeholder.
package blocks

import (
	"bytes"
	"html/template"
	"log/slog"
	"strconv"
	"strings"

	"github.com/olegiv/folio/internal/model"
)

// Fragment is the rendered output of one block.
type Fragment struct {
	BlockID string
	Type    model.BlockType
	HTML    template.HTML
}

// IsEmpty reports whether the fragment produced no markup.
func (f Fragment) IsEmpty() bool {
	return f.HTML == ""
}

// Document is the rendered body of a project.
type Document struct {
	Fragments []Fragment
	// Empty is set when there were no blocks at all.
	Empty bool
}

// HTML joins all fragments, or returns the "No content available" marker
// for an empty document.
func (d Document) HTML() template.HTML {
	if d.Empty {
		return execute("empty", nil)
	}
	var sb strings.Builder
	for _, f := range d.Fragments {
		sb.WriteString(string(f.HTML))
	}
	return template.HTML(sb.String()) //nolint:gosec // fragments are escaped and sanitized
}

// NonEmpty returns the fragments that produced markup, in order.
func (d Document) NonEmpty() []Fragment {
	var out []Fragment
	for _, f := range d.Fragments {
		if !f.IsEmpty() {
			out = append(out, f)
		}
	}
	return out
}

// Render maps blocks to fragments.
func Render(blocks []model.Block) Document {
	if len(blocks) == 0 {
		return Document{Empty: true}
	}

	doc := Document{Fragments: make([]Fragment, 0, len(blocks))}
	for _, b := range blocks {
		doc.Fragments = append(doc.Fragments, Fragment{
			BlockID: b.ID,
			Type:    b.Type,
			HTML:    RenderBlock(b),
		})
	}
	return doc
}

// RenderBlock renders a single block. Unknown types render as nothing.
func RenderBlock(b model.Block) template.HTML {
	switch b.Type {
	case model.BlockHeading:
		return execute("heading", b)
	case model.BlockSubheading:
		return execute("subheading", b)
	case model.BlockText:
		return execute("text", textData{Lines: splitLines(b.Content)})
	case model.BlockImage:
		return renderImages(b.ImageURLs(), StyleImage)
	case model.BlockGallery:
		return renderImages(b.GalleryURLs(), StyleGallery)
	case model.BlockVideo:
		return renderVideo(b.Content)
	default:
		return ""
	}
}

type textData struct {
	Lines []string
}

type gridData struct {
	Kind    string
	Alt     string
	URLs    []string
	Columns int
	Gallery bool
}

type urlData struct {
	URL string
}

type placeholderData struct {
	Kind  string
	Label string
}

func renderImages(urls []string, style GridStyle) template.HTML {
	gallery := style == StyleGallery

	if len(urls) == 0 {
		if gallery {
			return execute("placeholder", placeholderData{Kind: "gallery", Label: "No gallery images provided"})
		}
		return execute("placeholder", placeholderData{Kind: "image", Label: "No images provided"})
	}

	if len(urls) == 1 && !gallery {
		return execute("image-single", urlData{URL: urls[0]})
	}

	data := gridData{
		Kind:    "image",
		Alt:     "Project image",
		URLs:    urls,
		Columns: Columns(len(urls), style),
		Gallery: gallery,
	}
	if gallery {
		data.Kind = "gallery"
		data.Alt = "Gallery image"
	}
	return execute("image-grid", data)
}

func renderVideo(url string) template.HTML {
	url = strings.TrimSpace(url)
	if url == "" {
		return execute("placeholder", placeholderData{Kind: "video", Label: "Video not provided"})
	}
	if IsEmbeddable(url) {
		embed, ok := embedPlayerURL(url)
		if !ok {
			return execute("placeholder", placeholderData{Kind: "video", Label: "Video not available"})
		}
		return execute("video-embed", urlData{URL: embed})
	}
	return execute("video-direct", urlData{URL: url})
}

// embedPlayerURL rewrites url for an iframe and reports whether the result
// is a player URL the output policy keeps.
func embedPlayerURL(url string) (string, bool) {
	embed := EmbedURL(url)
	return embed, embedSrc.MatchString(embed)
}

type mediaData struct {
	Type     string
	URL      string
	Caption  string
	Embed    bool
	Playable bool // false for embed links with no iframe form
}

// RenderMedia renders the legacy media gallery of a project. Entries without
// a URL are skipped.
func RenderMedia(media []model.Media) []Fragment {
	var out []Fragment
	for i, m := range media {
		if strings.TrimSpace(m.URL) == "" {
			continue
		}
		data := mediaData{Type: model.MediaTypeImage, URL: m.URL, Caption: m.Caption}
		bt := model.BlockImage
		if m.Type == model.MediaTypeVideo {
			data.Type = model.MediaTypeVideo
			bt = model.BlockVideo
			if IsEmbeddable(m.URL) {
				data.Embed = true
				data.URL, data.Playable = embedPlayerURL(m.URL)
			}
		}
		out = append(out, Fragment{
			BlockID: "media-" + strconv.Itoa(i),
			Type:    bt,
			HTML:    execute("media-item", data),
		})
	}
	return out
}

// splitLines splits text on newlines, keeping empty lines so paragraph
// spacing survives.
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}

// execute runs a fragment template and sanitizes the result. A failing
// template yields an empty fragment rather than breaking the page.
func execute(name string, data any) template.HTML {
	var buf bytes.Buffer
	if err := fragmentTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("rendering block fragment", "template", name, "error", err)
		return ""
	}
	return template.HTML(outputPolicy.Sanitize(buf.String())) //nolint:gosec // sanitized by outputPolicy
}
