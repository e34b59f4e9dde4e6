// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
)

// BlockType is the discriminant of a content block.
type BlockType string

// Block types understood by the renderer.
const (
	BlockText       BlockType = "text"
	BlockHeading    BlockType = "heading"
	BlockSubheading BlockType = "subheading"
	BlockImage      BlockType = "image"
	BlockGallery    BlockType = "gallery"
	BlockVideo      BlockType = "video"
)

// BlockTypes lists the known block types in editor order.
var BlockTypes = []BlockType{
	BlockHeading,
	BlockSubheading,
	BlockText,
	BlockImage,
	BlockGallery,
	BlockVideo,
}

// Known reports whether t is one of the supported block types.
func (t BlockType) Known() bool {
	switch t {
	case BlockText, BlockHeading, BlockSubheading, BlockImage, BlockGallery, BlockVideo:
		return true
	}
	return false
}

// Block is one unit of rich content within a project's body.
type Block struct {
	ID       string         `json:"id"`
	Type     BlockType      `json:"type"`
	Content  string         `json:"content"`
	Images   []string       `json:"images,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ImageURLs resolves the URLs of an image block: Images when present,
// otherwise Content as a single URL.
func (b Block) ImageURLs() []string {
	if len(b.Images) > 0 {
		return b.Images
	}
	if c := strings.TrimSpace(b.Content); c != "" {
		return []string{c}
	}
	return nil
}

// GalleryURLs resolves the URLs of a gallery block: Images when present,
// otherwise Content split on newlines and commas.
func (b Block) GalleryURLs() []string {
	if len(b.Images) > 0 {
		return b.Images
	}
	return SplitURLList(b.Content)
}

// SplitURLList splits a newline- or comma-separated URL list, trimming
// whitespace and dropping empty entries. Only legacy gallery content uses
// commas as separators.
func SplitURLList(s string) []string {
	return splitURLs(s, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
}

// SplitURLLines splits a URL list with one URL per line. Commas are kept,
// since image CDN transformation paths contain them.
func SplitURLLines(s string) []string {
	return splitURLs(s, func(r rune) bool {
		return r == '\n' || r == '\r'
	})
}

func splitURLs(s string, sep func(rune) bool) []string {
	fields := strings.FieldsFunc(s, sep)
	var urls []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			urls = append(urls, f)
		}
	}
	return urls
}

// Direction of a block move in the editor.
type Direction int

// Move directions.
const (
	Up Direction = iota
	Down
)

// InsertBlockAfter returns a copy of blocks with a new empty block of type t
// inserted after index i. An index of -1 inserts at the front.
func InsertBlockAfter(blocks []Block, i int, t BlockType, id string) []Block {
	if i < -1 {
		i = -1
	}
	if i >= len(blocks) {
		i = len(blocks) - 1
	}
	out := make([]Block, 0, len(blocks)+1)
	out = append(out, blocks[:i+1]...)
	out = append(out, Block{ID: id, Type: t})
	out = append(out, blocks[i+1:]...)
	return out
}

// RemoveBlock returns a copy of blocks without index i. The last remaining
// block is never removed.
func RemoveBlock(blocks []Block, i int) []Block {
	if len(blocks) <= 1 || i < 0 || i >= len(blocks) {
		return blocks
	}
	out := make([]Block, 0, len(blocks)-1)
	out = append(out, blocks[:i]...)
	return append(out, blocks[i+1:]...)
}

// MoveBlock returns a copy of blocks with index i swapped with its neighbour
// in direction d. Moves past either end are ignored.
func MoveBlock(blocks []Block, i int, d Direction) []Block {
	target := i - 1
	if d == Down {
		target = i + 1
	}
	if i < 0 || i >= len(blocks) || target < 0 || target >= len(blocks) {
		return blocks
	}
	out := make([]Block, len(blocks))
	copy(out, blocks)
	out[i], out[target] = out[target], out[i]
	return out
}
