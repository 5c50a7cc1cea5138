// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package commonmark

import "testing"

// kinds returns the Kind of every descendant of root, in Walk's pre-order,
// as a convenient shape to assert against.
func kinds(root *Node) []Kind {
	var got []Kind
	Walk(root, func(c *Cursor) bool {
		if c.Entering {
			got = append(got, c.Node.Kind())
		}
		return true
	})
	return got
}

func sameKinds(a, b []Kind) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestParseDocumentBasic(t *testing.T) {
	doc := ParseDocument([]byte("# Title\n\nSome *text*.\n"), 0)
	want := []Kind{Document, Heading, Paragraph}
	if got := kinds(doc); !sameKinds(got, want) {
		t.Errorf("kinds = %v; want %v", got, want)
	}
	h := doc.FirstChild()
	if h.HeadingLevel() != 1 {
		t.Errorf("heading level = %d; want 1", h.HeadingLevel())
	}
	if h.Setext() {
		t.Error("heading reported as setext; want ATX")
	}
}

func TestParseSetextHeading(t *testing.T) {
	doc := ParseDocument([]byte("Title\n=====\n"), 0)
	h := doc.FirstChild()
	if h.Kind() != Heading || !h.Setext() || h.HeadingLevel() != 1 {
		t.Errorf("got kind=%v setext=%v level=%d; want Heading/true/1",
			h.Kind(), h.Setext(), h.HeadingLevel())
	}
}

func TestParseBlockQuoteLazyContinuation(t *testing.T) {
	doc := ParseDocument([]byte("> foo\nbar\n"), 0)
	bq := doc.FirstChild()
	if bq.Kind() != BlockQuote {
		t.Fatalf("first child kind = %v; want BlockQuote", bq.Kind())
	}
	p := bq.FirstChild()
	if p.Kind() != Paragraph {
		t.Fatalf("block quote's first child kind = %v; want Paragraph", p.Kind())
	}
	if got, want := string(p.Content()), "foo\nbar\n"; got != want {
		t.Errorf("paragraph content = %q; want %q", got, want)
	}
}

func TestParseFencedCodeBlockInfo(t *testing.T) {
	doc := ParseDocument([]byte("```go\nfmt.Println(1)\n```\n"), 0)
	cb := doc.FirstChild()
	if cb.Kind() != CodeBlock || !cb.Fenced() {
		t.Fatalf("kind = %v fenced = %v; want CodeBlock/true", cb.Kind(), cb.Fenced())
	}
	if got, want := string(cb.Info()), "go"; got != want {
		t.Errorf("Info() = %q; want %q", got, want)
	}
	if got, want := string(cb.Literal()), "fmt.Println(1)\n"; got != want {
		t.Errorf("Literal() = %q; want %q", got, want)
	}
}

func TestParseIndentedCodeBlock(t *testing.T) {
	doc := ParseDocument([]byte("    foo\n    bar\n"), 0)
	cb := doc.FirstChild()
	if cb.Kind() != CodeBlock || cb.Fenced() {
		t.Fatalf("kind = %v fenced = %v; want CodeBlock/false", cb.Kind(), cb.Fenced())
	}
	if got, want := string(cb.Literal()), "foo\nbar\n"; got != want {
		t.Errorf("Literal() = %q; want %q", got, want)
	}
}

func TestParseTightList(t *testing.T) {
	doc := ParseDocument([]byte("- a\n- b\n- c\n"), 0)
	list := doc.FirstChild()
	if list.Kind() != List {
		t.Fatalf("kind = %v; want List", list.Kind())
	}
	if !list.Tight() {
		t.Error("Tight() = false; want true")
	}
	n := 0
	for item := list.FirstChild(); item != nil; item = item.Next() {
		if item.Kind() != Item {
			t.Errorf("child kind = %v; want Item", item.Kind())
		}
		n++
	}
	if n != 3 {
		t.Errorf("item count = %d; want 3", n)
	}
}

func TestParseLooseList(t *testing.T) {
	doc := ParseDocument([]byte("- a\n\n- b\n"), 0)
	list := doc.FirstChild()
	if list.Kind() != List {
		t.Fatalf("kind = %v; want List", list.Kind())
	}
	if list.Tight() {
		t.Error("Tight() = true; want false")
	}
}

func TestParseDoubleBlankLineBreaksList(t *testing.T) {
	doc := ParseDocument([]byte("- a\n\n\n- b\n"), 0)
	n := 0
	for c := doc.FirstChild(); c != nil; c = c.Next() {
		if c.Kind() != List {
			t.Errorf("child kind = %v; want List", c.Kind())
		}
		n++
	}
	if n != 2 {
		t.Errorf("top-level List count = %d; want 2 (blank-line pair should break the list in two)", n)
	}
}

func TestParseReferenceDefinitionConsumed(t *testing.T) {
	p := NewParser(0)
	p.Feed([]byte("[foo]: /url \"title\"\n\nSee [foo].\n"))
	doc := p.Finish()
	if got := kinds(doc); !sameKinds(got, []Kind{Document, Paragraph}) {
		t.Errorf("kinds = %v; want [Document Paragraph] (reference definition paragraph should be fully consumed)", got)
	}
	def, ok := p.refmap.MatchReference("foo")
	if !ok {
		t.Fatal("MatchReference(\"foo\") = false; want true")
	}
	if def.Destination != "/url" || def.Title != "title" {
		t.Errorf("got %+v; want Destination=/url Title=title", def)
	}
}

func TestParseNULReplacement(t *testing.T) {
	doc := ParseDocument([]byte("a\x00b\n"), 0)
	p := doc.FirstChild()
	want := "a�b\n"
	if got := string(p.Content()); got != want {
		t.Errorf("content = %q; want %q", got, want)
	}
}

func TestStartColumn(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   int // StartColumn() of doc's first child
	}{
		{"blockQuote", "> a\n", 3},
		{"blockQuoteNoSpaceAfterMarker", ">a\n", 2},
		{"atxHeading", "## Title\n", 4},
		{"indentedCodeBlock", "    foo\n", 5},
		{"fencedCodeBlock", "```go\nx\n```\n", 1},
		{"thematicBreak", "---\n", 1},
		{"list", "- a\n", 1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := ParseDocument([]byte(test.source), 0)
			c := doc.FirstChild()
			if got := c.StartColumn(); got != test.want {
				t.Errorf("%q: first child (%v) StartColumn() = %d; want %d", test.source, c.Kind(), got, test.want)
			}
		})
	}
}

func TestStartColumnInsideListItem(t *testing.T) {
	// The indented code block's start column is measured from the byte
	// offset reached after consuming the list item's own marker/padding
	// indent, not from the line's first non-space byte.
	doc := ParseDocument([]byte("-     foo\n"), 0)
	list := doc.FirstChild()
	item := list.FirstChild()
	cb := item.FirstChild()
	if cb.Kind() != CodeBlock || cb.Fenced() {
		t.Fatalf("item's first child kind = %v fenced = %v; want CodeBlock/false", cb.Kind(), cb.Fenced())
	}
	if got, want := cb.StartColumn(), 7; got != want {
		t.Errorf("StartColumn() = %d; want %d", got, want)
	}
}

func TestFeedSplitCRLFTolerantOfInterveningEmptyChunks(t *testing.T) {
	// A "\r\n" terminator split exactly across two Feed calls must not be
	// mistaken for two separate line endings (which would manufacture a
	// spurious blank line), even when an empty Feed call is interleaved
	// between the '\r' and the '\n' that completes it.
	want := kinds(ParseDocument([]byte("a\r\nb\r\n"), 0))

	p := NewParser(0)
	p.Feed([]byte("a\r"))
	p.Feed(nil)
	p.Feed([]byte("\nb\r\n"))
	got := kinds(p.Finish())

	if !sameKinds(got, want) {
		t.Errorf("kinds = %v; want %v (an intervening empty Feed should not break CRLF-splitting detection)", got, want)
	}
}

func TestFeedChunkingIsTransparent(t *testing.T) {
	source := "# Title\r\nline one\r\nline two\r\n\r\n- a\r\n- b\r\n"

	whole := ParseDocument([]byte(source), 0)

	for _, split := range []int{1, 5, 9, 13, 17, 21, len(source) - 1} {
		if split <= 0 || split >= len(source) {
			continue
		}
		p := NewParser(0)
		p.Feed([]byte(source[:split]))
		p.Feed([]byte(source[split:]))
		chunked := p.Finish()

		gotWhole, gotChunked := kinds(whole), kinds(chunked)
		if !sameKinds(gotWhole, gotChunked) {
			t.Errorf("split at %d: kinds = %v; want %v", split, gotChunked, gotWhole)
		}
	}
}
