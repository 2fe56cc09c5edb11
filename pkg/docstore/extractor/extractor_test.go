// Copyright Legal QA Gateway Authors
// SPDX-License-Identifier: Apache-2.0

package extractor

import (
	"strings"
	"testing"
)

func TestExtractText(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  []byte
		contains string // substring the result should contain
		wantErr  bool
	}{
		{
			name:     "plain text passthrough",
			filename: "nda.txt",
			content:  []byte("SECTION 1. DEFINITIONS"),
			contains: "SECTION 1. DEFINITIONS",
		},
		{
			name:     "unknown extension treated as text",
			filename: "filing.xyz",
			content:  []byte("raw content"),
			contains: "raw content",
		},
		{
			name:     "HTML extraction",
			filename: "opinion.html",
			content:  []byte("<html><body><p>Hello</p><script>var x=1;</script><p>World</p></body></html>"),
			contains: "Hello",
		},
		{
			name:     "HTML skips script",
			filename: "opinion.htm",
			content:  []byte("<html><script>alert('x')</script><body>visible</body></html>"),
			contains: "visible",
		},
		{
			name:     "CSV extraction",
			filename: "exhibits.csv",
			content:  []byte("exhibit,date,description\nA,2026-01-05,Master agreement\nB,2026-02-10,Amendment"),
			contains: "Master agreement",
		},
		{
			name:     "JSON pretty-print",
			filename: "docket.json",
			content:  []byte(`{"case":"acme-v-globex","num":42}`),
			contains: "\"case\": \"acme-v-globex\"",
		},
		{
			name:     "JSONL extraction",
			filename: "entries.jsonl",
			content:  []byte("{\"a\":1}\n{\"b\":2}"),
			contains: "\"a\": 1",
		},
		{
			name:     "invalid JSON falls back to raw",
			filename: "bad.json",
			content:  []byte("not json at all"),
			contains: "not json at all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ExtractText(tt.content, tt.filename)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ExtractText() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !strings.Contains(result, tt.contains) {
				t.Errorf("ExtractText() = %q, want substring %q", result, tt.contains)
			}
		})
	}
}

func TestExtractText_NormalizesLineEndings(t *testing.T) {
	content := []byte("SECTION 1. TERM\r\n\r\nThe term begins on the Effective Date.\r\n")
	result, err := ExtractText(content, "lease.txt")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(result, "\r") {
		t.Errorf("expected no carriage returns in %q", result)
	}
	if !strings.Contains(result, "SECTION 1. TERM\n\n") {
		t.Errorf("expected blank-line paragraph break, got %q", result)
	}
}

func TestExtractHTML_BlockBoundaries(t *testing.T) {
	content := []byte("<html><body><h2>GOVERNING LAW</h2><p>This Agreement is governed by Delaware law.</p></body></html>")
	result, err := ExtractText(content, "agreement.html")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(result, "GOVERNING LAW\n\n") {
		t.Errorf("expected heading followed by a blank line, got %q", result)
	}
	if !strings.Contains(result, "Delaware law") {
		t.Errorf("expected body text in result, got %q", result)
	}
}

func TestExtractHTML_NoScriptOrStyle(t *testing.T) {
	content := []byte("<html><head><style>body{}</style></head><body><p>Content here</p></body></html>")
	result, err := ExtractText(content, "test.html")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(result, "body{}") {
		t.Error("HTML extraction should strip style content")
	}
	if !strings.Contains(result, "Content here") {
		t.Errorf("expected 'Content here' in result, got %q", result)
	}
}

func TestExtractCSV_TabSeparated(t *testing.T) {
	content := []byte("a,b,c\n1,2,3")
	result, err := ExtractText(content, "schedule.csv")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(result, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0] != "a\tb\tc" {
		t.Errorf("expected tab-separated header, got %q", lines[0])
	}
}
