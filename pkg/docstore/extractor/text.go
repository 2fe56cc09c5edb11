// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package extractor

import "strings"

// extractText returns the content as plain text with line endings
// normalized to LF. Scanned contracts frequently arrive with CRLF
// endings, which would otherwise defeat blank-line paragraph detection.
func extractText(content []byte) (string, error) {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text, nil
}
