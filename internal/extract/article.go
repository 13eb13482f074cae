// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"strings"

	"github.com/tidwall/gjson"
)

// ArticleText resolves the body and title of an article tweet. The body
// comes from the first non-empty of: plain text, content-state blocks
// (joined by newlines), sections (item texts concatenated in order), and
// the preview text. The title is never part of the body.
func ArticleText(r gjson.Result) (body, title string) {
	a := firstObject(r,
		"article.article_results.result",
		"article.result",
		"article",
	)
	if !a.Exists() {
		return "", ""
	}

	title = firstString(a, "title")

	if s := firstString(a, "plain_text", "plainText", "text"); s != "" {
		return s, title
	}
	if s := blocksText(firstArray(a, "content_state.blocks", "contentState.blocks")); s != "" {
		return s, title
	}
	if s := sectionsText(a.Get("sections")); s != "" {
		return s, title
	}
	return firstString(a, "preview_text", "previewText"), title
}

func firstArray(r gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if v := r.Get(p); v.IsArray() {
			return v
		}
	}
	return gjson.Result{}
}

func blocksText(blocks gjson.Result) string {
	var parts []string
	for _, b := range blocks.Array() {
		if s := firstString(b, "text"); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

// sectionsText walks sections[].items[] in order and concatenates each
// item's resolved text.
func sectionsText(sections gjson.Result) string {
	var b strings.Builder
	for _, sec := range sections.Array() {
		for _, item := range sec.Get("items").Array() {
			b.WriteString(itemText(item))
		}
	}
	return b.String()
}

func itemText(item gjson.Result) string {
	if item.Type == gjson.String {
		return item.Str
	}
	return firstString(item,
		"text",
		"value",
		"content",
		"content.text",
		"rich_text.text",
		"richtext.text",
	)
}
