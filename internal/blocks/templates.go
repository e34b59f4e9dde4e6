// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package blocks

import (
	"html/template"
)

// fragmentTemplates holds one named template per fragment shape.
var fragmentTemplates = template.Must(template.New("blocks").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`
{{define "heading"}}<h2 class="block block-heading">{{.Content}}</h2>{{end}}

{{define "subheading"}}<h3 class="block block-subheading">{{.Content}}</h3>{{end}}

{{define "text"}}<div class="block block-text"><p>{{range $i, $line := .Lines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p></div>{{end}}

{{define "image-single"}}<figure class="block block-image"><img src="{{.URL}}" alt="Project image" loading="lazy" data-fallback="Image not available"></figure>{{end}}

{{define "image-grid"}}<div class="block block-{{.Kind}} grid grid-cols-{{.Columns}}">{{range $i, $u := .URLs}}<figure class="grid-item{{if $.Gallery}} gallery-item{{end}}"><img src="{{$u}}" alt="{{$.Alt}} {{inc $i}}" loading="lazy" data-fallback="Image {{inc $i}} not available"></figure>{{end}}</div>{{end}}

{{define "video-embed"}}<div class="block block-video"><iframe src="{{.URL}}" title="Video content" allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture" allowfullscreen></iframe></div>{{end}}

{{define "video-direct"}}<div class="block block-video"><video controls preload="metadata" data-fallback="Video not available"><source src="{{.URL}}" type="video/mp4">Your browser does not support the video tag.</video></div>{{end}}

{{define "placeholder"}}<div class="block placeholder placeholder-{{.Kind}}"><span>{{.Label}}</span></div>{{end}}

{{define "media-item"}}<figure class="media-item media-{{.Type}}">{{if eq .Type "video"}}{{if .Embed}}{{if .Playable}}<iframe src="{{.URL}}" title="{{.Caption}}" allowfullscreen></iframe>{{else}}<div class="placeholder placeholder-video"><span>Video not available</span></div>{{end}}{{else}}<video controls preload="metadata" data-fallback="Video not available"><source src="{{.URL}}" type="video/mp4"></video>{{end}}{{else}}<img src="{{.URL}}" alt="{{.Caption}}" loading="lazy" data-fallback="Image not available">{{end}}{{if .Caption}}<figcaption>{{.Caption}}</figcaption>{{end}}</figure>{{end}}

{{define "empty"}}<div class="blocks-empty">No content available</div>{{end}}
`))
