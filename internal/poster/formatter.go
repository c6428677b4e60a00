package poster

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ParseTags splits a comma-separated tag list. Entries are trimmed and empty
// entries dropped; order is preserved.
func ParseTags(raw string) []string {
	tags := make([]string, 0)
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// MergeTags appends extra to tags, skipping case-insensitive duplicates.
func MergeTags(tags, extra []string) []string {
	seen := make(map[string]struct{}, len(tags)+len(extra))
	merged := make([]string, 0, len(tags)+len(extra))
	for _, list := range [][]string{tags, extra} {
		for _, tag := range list {
			tag = strings.TrimSpace(tag)
			key := strings.ToLower(tag)
			if tag == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, tag)
		}
	}
	return merged
}

// FormatContent converts Markdown source into the body for the requested
// content format. Markdown is passed through unchanged.
func FormatContent(markdown, format string) (string, error) {
	switch format {
	case "", FormatMarkdown:
		return markdown, nil
	case FormatHTML:
		return RenderHTML(markdown)
	default:
		return "", fmt.Errorf("unsupported content format %q", format)
	}
}

// RenderHTML renders Markdown to HTML with GitHub-flavoured extensions.
// Raw HTML in the source is kept.
func RenderHTML(markdown string) (string, error) {
	engine := goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Footnote),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	var buf bytes.Buffer
	if err := engine.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
