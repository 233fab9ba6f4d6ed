// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"bytes"
	"html"
	"html/template"
	"log/slog"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Markdown converts blog bodies from markdown to sanitized HTML.
type Markdown struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	strip  *bluemonday.Policy
}

// NewMarkdown creates a converter with GitHub flavoured extensions and a
// user-generated-content sanitizing policy. Every newline in the source is
// kept as a line break.
func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(gmhtml.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
		strip:  bluemonday.StrictPolicy(),
	}
}

// Render converts source to sanitized HTML. Raw HTML in source is dropped.
func (m *Markdown) Render(source string) template.HTML {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(source), &buf); err != nil {
		slog.Warn("markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(m.policy.SanitizeBytes(buf.Bytes()))
}

var spaceRun = regexp.MustCompile(`\s+`)

// Text returns the plain text of source with markup removed.
func (m *Markdown) Text(source string) string {
	rendered := m.Render(source)
	text := html.UnescapeString(m.strip.Sanitize(string(rendered)))
	return strings.TrimSpace(spaceRun.ReplaceAllString(text, " "))
}
