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

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// Options is a bitset of parsing behaviors, passed to [NewParser] and
// [ParseDocument] and forwarded unchanged to any [InlineParser] registered
// with [Parser.SetInlineParser].
type Options uint32

const (
	// Normalize collapses runs of whitespace within inline text during
	// an inline parsing pass. The block layer does not act on it itself;
	// it is carried purely so a caller has one bitset to configure both
	// layers.
	Normalize Options = 1 << iota
	// ValidateUTF8 replaces invalid UTF-8 byte sequences with U+FFFD as
	// each line is fed in, the same way a stray NUL byte is replaced.
	ValidateUTF8
)

// codeIndent is the number of columns of indentation that introduces an
// indented code block.
const codeIndent = 4

// A Parser consumes a byte stream, incrementally as arbitrary chunks, and
// builds a tree of block [Node]s. Call [Parser.Feed] any number of times
// and then [Parser.Finish] to obtain the completed [Document] node.
//
// A Parser is not safe for concurrent use.
type Parser struct {
	options Options

	root    *Node
	current *Node // innermost node still open, a.k.a. the "tip"

	lineNumber     int
	lastLineLength int

	// offset/column are the cursor used by findFirstNonspace/advanceOffset
	// while processing the current line.
	offset, column                     int
	firstNonspace, firstNonspaceColumn int
	indent                             int
	blank                              bool

	refmap ReferenceMap

	inlineParser InlineParser

	// linebuf accumulates a line's bytes across Feed calls when a chunk
	// boundary falls in the middle of it.
	linebuf []byte
	// pendingCR is set when a chunk ends in a bare '\r' that might be the
	// first half of a "\r\n" terminator split across two Feed calls.
	pendingCR bool

	finished bool
}

// NewParser returns a Parser ready to accept input via [Parser.Feed].
func NewParser(options Options) *Parser {
	root := &Node{
		kind:        Document,
		open:        true,
		startLine:   1,
		startColumn: 1,
	}
	return &Parser{
		options: options,
		root:    root,
		current: root,
		refmap:  make(ReferenceMap),
		column:  0,
	}
}

// SetInlineParser registers the collaborator that [Parser.Finish] invokes
// on every [Paragraph] and [Heading] node's content once the block tree is
// complete. It is optional: a caller that only wants block structure, or
// that walks the tree itself afterward, never needs to call it.
func (p *Parser) SetInlineParser(ip InlineParser) {
	p.inlineParser = ip
}

// Feed appends chunk to the parser's input. chunk may be any length,
// including zero, and a line ending, a rune, or a tab may be split across
// successive Feed calls; Feed buffers a partial final line and completes
// it on the next call (or in [Parser.Finish]) rather than requiring a
// caller to chunk on line boundaries.
//
// Feed must not be called after [Parser.Finish].
func (p *Parser) Feed(chunk []byte) {
	if p.finished {
		panic("commonmark: Feed called after Finish")
	}
	if p.pendingCR && len(chunk) > 0 {
		// The "\r\n" terminator may have been split across this Feed
		// boundary and the one that supplied it (an empty Feed call in
		// between changes nothing: the '\r' already ended the buffered
		// line in feed below, and we must keep waiting for the byte that
		// follows it). Only resolve the flag once a non-empty chunk
		// arrives to check.
		p.pendingCR = false
		if chunk[0] == '\n' {
			// The leading '\n' is the second half of that same
			// terminator, not the start of a new blank line.
			chunk = chunk[1:]
		}
	}
	p.feed(chunk)
}

func (p *Parser) processBufferedLine() {
	line := p.linebuf
	p.linebuf = nil
	if p.options&ValidateUTF8 != 0 {
		line = replaceInvalidUTF8(line)
	}
	p.processLine(line)
}

// feed implements the line-splitting half of cmark's S_parser_feed: split
// chunk on line endings, replacing stray NUL bytes with U+FFFD as it goes,
// and hand each complete line's content — terminator excluded —
// to processLine, which supplies its own trailing '\n'. UTF-8 validation
// waits until a line is complete, so a rune split across chunks survives.
func (p *Parser) feed(chunk []byte) {
	for len(chunk) > 0 {
		eol := indexLineEnd(chunk)
		if eol < 0 {
			p.linebuf = appendSanitized(p.linebuf, chunk, p.options&^ValidateUTF8)
			return
		}

		p.linebuf = appendSanitized(p.linebuf, chunk[:eol], p.options&^ValidateUTF8)
		term := chunk[eol]
		rest := chunk[eol+1:]
		if term == '\r' && len(rest) == 0 {
			// This chunk ends in a bare '\r' with nothing following.
			// It might be the first half of a "\r\n" terminator split
			// across this Feed call and the next: finish the line now,
			// but remember to swallow a leading '\n' next time.
			p.pendingCR = true
			p.processBufferedLine()
			return
		}
		if term == '\r' && rest[0] == '\n' {
			rest = rest[1:]
		}
		p.processBufferedLine()
		chunk = rest
	}
}

func indexLineEnd(buf []byte) int {
	for i, b := range buf {
		if b == '\n' || b == '\r' {
			return i
		}
	}
	return -1
}

// appendSanitized appends src to dst, replacing any NUL byte with U+FFFD
// (matching cmark's insecure-character substitution), and, if
// ValidateUTF8 is set, replacing any invalid UTF-8 byte with U+FFFD as
// well.
func appendSanitized(dst, src []byte, options Options) []byte {
	if options&ValidateUTF8 != 0 {
		src = replaceInvalidUTF8(src)
	}
	for len(src) > 0 {
		i := indexByte(src, 0)
		if i < 0 {
			return append(dst, src...)
		}
		dst = append(dst, src[:i]...)
		dst = append(dst, replacementCharUTF8...)
		src = src[i+1:]
	}
	return dst
}

// replaceInvalidUTF8 returns src with every maximal invalid UTF-8 byte
// sequence replaced by U+FFFD, matching cmark_utf8proc_check's behavior
// under CMARK_OPT_VALIDATE_UTF8.
func replaceInvalidUTF8(src []byte) []byte {
	if utf8.Valid(src) {
		return src
	}
	var out []byte
	for len(src) > 0 {
		r, size := utf8.DecodeRune(src)
		if r == utf8.RuneError && size <= 1 {
			out = append(out, replacementCharUTF8...)
			src = src[1:]
			continue
		}
		out = append(out, src[:size]...)
		src = src[size:]
	}
	return out
}

var replacementCharUTF8 = []byte{0xEF, 0xBF, 0xBD} // U+FFFD

func indexByte(b []byte, c byte) int {
	for i, x := range b {
		if x == c {
			return i
		}
	}
	return -1
}

// Finish completes parsing, finalizing every still-open node (including
// the document root), extracting link reference definitions, running any
// registered [InlineParser] over every [Paragraph] and [Heading], and
// returning the finished [Document] node. The Parser must not be reused
// afterward.
func (p *Parser) Finish() *Node {
	if p.finished {
		panic("commonmark: Finish called more than once")
	}
	p.pendingCR = false
	if len(p.linebuf) > 0 {
		p.processBufferedLine()
	}
	for p.current != p.root {
		p.current = p.finalize(p.current, nil)
	}
	p.finalize(p.root, nil)
	p.finished = true

	if p.inlineParser != nil {
		Walk(p.root, func(c *Cursor) bool {
			if !c.Entering {
				return true
			}
			if c.Node.Kind() == Paragraph || c.Node.Kind() == Heading {
				p.inlineParser.ParseInlines(c.Node, p.refmap, p.options)
			}
			return true
		})
	}

	return p.root
}

// ParseDocument parses source in its entirety and returns the completed
// [Document] node. It is equivalent to feeding source to a [NewParser] in
// one call and then calling [Parser.Finish].
func ParseDocument(source []byte, options Options) *Node {
	p := NewParser(options)
	p.Feed(source)
	return p.Finish()
}

// ParseFile reads f to completion, in fixed-size chunks, and returns the
// completed [Document] node. Unlike [ParseDocument], it never requires the
// whole file to be resident in memory at once.
func ParseFile(f *os.File, options Options) (*Node, error) {
	p := NewParser(options)
	br := bufio.NewReaderSize(f, 64*1024)
	buf := make([]byte, 64*1024)
	for {
		n, err := br.Read(buf)
		if n > 0 {
			p.Feed(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("commonmark: parse file: %w", err)
		}
	}
	return p.Finish(), nil
}
