// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// blockElements are HTML elements that end a paragraph. Text following
// them is separated by a blank line so the paragraph splitter sees a
// boundary instead of one run-on line.
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "tr": true, "blockquote": true, "pre": true,
}

// extractHTML strips HTML tags and returns the visible text content.
// Script and style elements are skipped entirely; block elements become
// paragraph boundaries.
func extractHTML(content []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		// Fall back to raw text if HTML is malformed
		return string(content), nil
	}

	var sb strings.Builder
	walkHTMLNode(doc, &sb)
	return strings.TrimSpace(sb.String()), nil
}

func walkHTMLNode(n *html.Node, sb *strings.Builder) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return
		}
	}

	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if text != "" {
			if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
				sb.WriteString(" ")
			}
			sb.WriteString(text)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkHTMLNode(c, sb)
	}

	if n.Type == html.ElementNode && blockElements[n.Data] && sb.Len() > 0 {
		sb.WriteString("\n\n")
	}
}
