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
	"html"
	"strings"
)

// finalize closes b permanently, computing its end position and running
// any kind-specific cleanup (reference-definition stripping, code literal
// extraction, tight/loose classification), then returns b's parent.
//
// buf is the raw bytes of the line currently being processed — the same
// value processLine is working from — or nil when finalize is called from
// [Parser.Finish] after all input has been consumed. That distinction
// drives which of three ways b's end position is computed.
//
// Ported from cmark's finalize in original_source/ext/blocks.c.
func (p *Parser) finalize(b *Node, buf []byte) *Node {
	parent := b.parent
	if !b.open {
		panic("commonmark: finalize called on an already-closed node")
	}
	b.open = false

	switch {
	case buf == nil:
		b.endLine = p.lineNumber
		b.endColumn = p.lastLineLength
		if b.endLine < b.startLine {
			// Only the root of an empty document gets here: no line was
			// ever processed, so it ends on the line it starts on.
			b.endLine = b.startLine
		}
	case b.kind == Document ||
		(b.kind == CodeBlock && b.code.fenced) ||
		(b.kind == Heading && b.heading.setext):
		b.endLine = p.lineNumber
		n := len(buf)
		if n > 0 && buf[n-1] == '\n' {
			n--
		}
		if n > 0 && buf[n-1] == '\r' {
			n--
		}
		b.endColumn = n
	default:
		b.endLine = p.lineNumber - 1
		b.endColumn = p.lastLineLength
	}

	switch b.kind {
	case Paragraph:
		for len(b.content) > 0 && b.content[0] == '[' {
			rest, label, dest, title, hasTitle, ok := parseLinkReferenceDefinition(b.content)
			if !ok {
				break
			}
			key := NormalizeLabel(label)
			if _, exists := p.refmap[key]; !exists && key != "" {
				p.refmap[key] = LinkDefinition{
					Destination:  dest,
					Title:        title,
					TitlePresent: hasTitle,
				}
			}
			b.content = rest
		}
		if isBlankFrom(b.content, 0) {
			b.unlink()
		}

	case CodeBlock:
		if !b.code.fenced {
			b.content = removeTrailingBlankLines(b.content)
			b.content = append(b.content, '\n')
		} else {
			pos := 0
			for pos < len(b.content) && !isLineEndByte(b.content[pos]) {
				pos++
			}
			info := html.UnescapeString(string(b.content[:pos]))
			info = strings.TrimSpace(info)
			info = unescapeLinkText(info)
			b.code.info = []byte(info)

			if pos < len(b.content) && b.content[pos] == '\r' {
				pos++
			}
			if pos < len(b.content) && b.content[pos] == '\n' {
				pos++
			}
			b.content = b.content[pos:]
		}
		b.code.literal = b.content
		b.content = nil

	case HTMLBlock:
		// b.content is kept as is; [*Node.Literal] returns it.

	case List:
		b.list.tight = true
		for item := b.firstChild; item != nil; item = item.next {
			if item.lastLineBlank && item.next != nil {
				b.list.tight = false
				break
			}
			allTight := true
			for subitem := item.firstChild; subitem != nil; subitem = subitem.next {
				if endsWithBlankLine(subitem) && (item.next != nil || subitem.next != nil) {
					allTight = false
					break
				}
			}
			if !allTight {
				b.list.tight = false
				break
			}
		}
	}

	return parent
}

// removeTrailingBlankLines trims every wholly-blank trailing line from ln,
// together with the line terminator of the last non-blank line, so the
// result ends with no terminator at all.
//
// Ported from cmark's remove_trailing_blank_lines.
func removeTrailingBlankLines(ln []byte) []byte {
	i := len(ln) - 1
	for ; i >= 0; i-- {
		c := ln[i]
		if c != ' ' && c != '\t' && !isLineEndByte(c) {
			break
		}
	}
	if i < 0 {
		return ln[:0]
	}
	for j := i; j < len(ln); j++ {
		if isLineEndByte(ln[j]) {
			return ln[:j]
		}
	}
	return ln
}

// endsWithBlankLine reports whether node, or (recursing through nested
// lists) its innermost last child, ends with a blank line: whether the last
// line that reached it was blank.
//
// Ported from cmark's ends_with_blank_line.
func endsWithBlankLine(node *Node) bool {
	for cur := node; cur != nil; {
		if cur.lastLineBlank {
			return true
		}
		if cur.kind == List || cur.kind == Item {
			cur = cur.lastChild
		} else {
			cur = nil
		}
	}
	return false
}
