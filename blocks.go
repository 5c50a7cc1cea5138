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

// processLine runs the per-line block-structure algorithm against one
// line's content (its terminator excluded; processLine supplies its own).
// It is the heart of the parser: it walks the chain of currently open
// nodes to see how far this line continues them, tries to open any new
// containers the remaining text starts, and finally deposits whatever
// text is left into the innermost leaf.
//
// Ported from cmark's S_process_line in original_source/ext/blocks.c.
func (p *Parser) processLine(content []byte) {
	buf := make([]byte, 0, len(content)+1)
	buf = append(buf, content...)
	buf = append(buf, '\n')

	p.offset = 0
	p.column = 0
	p.blank = false
	p.lineNumber++

	container := p.root
	allMatched := true

	for container.lastChild.isOpen() {
		container = container.lastChild
		p.findFirstNonspace(buf)

		matched := true
		switch container.kind {
		case BlockQuote:
			matched = p.indent <= 3 && peekByte(buf, p.firstNonspace) == '>'
			if matched {
				p.advanceOffset(buf, p.indent+1, true)
				if peekByte(buf, p.offset) == ' ' {
					p.offset++
				}
			}

		case Item:
			if p.indent >= container.list.markerOffset+container.list.padding {
				p.advanceOffset(buf, container.list.markerOffset+container.list.padding, true)
			} else if p.blank && container.firstChild != nil {
				p.advanceOffset(buf, p.firstNonspace-p.offset, false)
			} else {
				matched = false
			}

		case CodeBlock:
			if !container.code.fenced {
				if p.indent >= codeIndent {
					p.advanceOffset(buf, codeIndent, true)
				} else if p.blank {
					p.advanceOffset(buf, p.firstNonspace-p.offset, false)
				} else {
					matched = false
				}
			} else {
				closeLen := 0
				if p.indent <= 3 && peekByte(buf, p.firstNonspace) == container.code.fenceChar {
					closeLen = scanCodeFenceClose(buf, p.firstNonspace, container.code.fenceChar)
				}
				if closeLen >= container.code.fenceLength {
					p.advanceOffset(buf, closeLen, false)
					p.current = p.finalize(container, buf)
					p.recordLastLineLength(buf)
					return
				}
				i := container.code.fenceOffset
				for i > 0 && peekByte(buf, p.offset) == ' ' {
					p.advanceOffset(buf, 1, false)
					i--
				}
			}

		case Heading:
			// A heading can never contain more than one line.
			matched = false

		case HTMLBlock:
			switch container.html.blockType {
			case 1, 2, 3, 4, 5:
				// These end on a matching substring, not on a blank line.
			case 6, 7:
				matched = !p.blank
			default:
				panic("commonmark: unknown HTML block type")
			}

		case Paragraph:
			matched = !p.blank
		}

		if !matched {
			allMatched = false
			container = container.parent
			break
		}
	}

	lastMatchedContainer := container

	if p.blank && container.lastLineBlank {
		container = p.breakOutOfLists(buf, container)
	}

	maybeLazy := p.current.kind == Paragraph

	for container.kind != CodeBlock && container.kind != HTMLBlock {
		p.findFirstNonspace(buf)
		indented := p.indent >= codeIndent

		atxLevel, atxMatched, atxOK := scanATXHeadingStart(buf, p.firstNonspace)
		fenceChar, fenceLength, fenceOK := scanCodeFenceStart(buf, p.firstNonspace)
		htmlType, htmlOK := scanHTMLBlockStart(buf, p.firstNonspace, container.kind == Paragraph)
		setextLevel, setextOK := scanSetextHeadingUnderline(buf, p.firstNonspace)
		marker, markerOK := scanListMarker(buf, p.firstNonspace)

		switch {
		case !indented && peekByte(buf, p.firstNonspace) == '>':
			p.advanceOffset(buf, p.firstNonspace+1-p.offset, false)
			if peekByte(buf, p.offset) == ' ' {
				p.advanceOffset(buf, 1, false)
			}
			container = p.addChild(buf, container, BlockQuote, p.offset+1)

		case !indented && atxOK:
			p.advanceOffset(buf, p.firstNonspace+atxMatched-p.offset, false)
			container = p.addChild(buf, container, Heading, p.offset+1)
			container.heading.level = atxLevel
			container.heading.setext = false

		case !indented && fenceOK:
			container = p.addChild(buf, container, CodeBlock, p.firstNonspace+1)
			container.code.fenced = true
			container.code.fenceChar = fenceChar
			container.code.fenceOffset = p.firstNonspace - p.offset
			container.code.fenceLength = fenceLength
			p.advanceOffset(buf, p.firstNonspace+fenceLength-p.offset, false)

		case !indented && htmlOK:
			container = p.addChild(buf, container, HTMLBlock, p.firstNonspace+1)
			container.html.blockType = htmlType

		case !indented && container.kind == Paragraph && setextOK && paragraphIsSingleLine(container):
			container.kind = Heading
			container.heading.level = setextLevel
			container.heading.setext = true
			p.advanceOffset(buf, len(buf)-1-p.offset, false)

		case !indented && !(container.kind == Paragraph && !allMatched) && scanThematicBreak(buf, p.firstNonspace):
			container = p.addChild(buf, container, ThematicBreak, p.firstNonspace+1)
			p.advanceOffset(buf, len(buf)-1-p.offset, false)

		case markerOK && (!indented || container.kind == List):
			container = p.openListItem(buf, container, marker)

		case indented && !maybeLazy && !p.blank:
			p.advanceOffset(buf, codeIndent, true)
			container = p.addChild(buf, container, CodeBlock, p.offset+1)
			container.code.fenced = false

		default:
			goto openingDone
		}

		if container.kind.acceptsLines() {
			break
		}
		maybeLazy = false
	}
openingDone:

	p.findFirstNonspace(buf)

	if p.blank && container.lastChild != nil {
		container.lastChild.lastLineBlank = true
	}

	container.lastLineBlank = p.blank &&
		container.kind != BlockQuote &&
		container.kind != Heading &&
		container.kind != ThematicBreak &&
		!(container.kind == CodeBlock && container.code.fenced) &&
		!(container.kind == Item && container.firstChild == nil && container.startLine == p.lineNumber)

	for cont := container; cont.parent != nil; cont = cont.parent {
		cont.parent.lastLineBlank = false
	}

	if p.current != lastMatchedContainer && container == lastMatchedContainer &&
		!p.blank && p.current.kind == Paragraph && len(p.current.content) > 0 {
		p.addLine(p.current, buf, p.offset)
	} else {
		for p.current != lastMatchedContainer {
			p.current = p.finalize(p.current, buf)
		}

		switch {
		case container.kind == CodeBlock:
			p.addLine(container, buf, p.offset)

		case container.kind == HTMLBlock:
			p.addLine(container, buf, p.offset)
			if htmlBlockEnds(buf[p.firstNonspace:], container.html.blockType) {
				container = p.finalize(container, buf)
			}

		case p.blank:
			// Nothing to add.

		case container.kind.acceptsLines():
			line := buf
			if container.kind == Heading && !container.heading.setext {
				line = chopTrailingHashtags(buf)
			}
			if p.firstNonspace < len(line) {
				p.addLine(container, line, p.firstNonspace)
			}

		default:
			container = p.addChild(buf, container, Paragraph, p.firstNonspace+1)
			p.addLine(container, buf, p.firstNonspace)
		}

		p.current = container
	}

	p.recordLastLineLength(buf)
}

func (p *Parser) recordLastLineLength(buf []byte) {
	n := len(buf)
	if n > 0 && buf[n-1] == '\n' {
		n--
	}
	if n > 0 && buf[n-1] == '\r' {
		n--
	}
	p.lastLineLength = n
}

// findFirstNonspace updates p.firstNonspace/firstNonspaceColumn/indent/blank
// from p.offset/p.column against buf.
func (p *Parser) findFirstNonspace(buf []byte) {
	off, col := findFirstNonspace(buf, p.offset, p.column)
	p.firstNonspace, p.firstNonspaceColumn = off, col
	p.indent = p.firstNonspaceColumn - p.column
	p.blank = isLineEndByte(peekByte(buf, p.firstNonspace))
}

// advanceOffset moves p.offset/p.column forward, per [advanceOffset].
func (p *Parser) advanceOffset(buf []byte, count int, columns bool) {
	p.offset, p.column = advanceOffset(buf, p.offset, p.column, count, columns)
}

// addChild creates a new node of kind under parent (backing up to
// finalize ancestors that cannot contain it, exactly like cmark's
// add_child), appends it as parent's last child, and returns it. buf is
// the line currently being processed, forwarded to finalize. startColumn
// is the 1-based column the caller has already computed for this node,
// matching whatever column cmark passes as add_child's explicit
// start_column argument at each call site (sometimes first_nonspace+1,
// sometimes offset+1 after the opener has been consumed).
func (p *Parser) addChild(buf []byte, parent *Node, kind Kind, startColumn int) *Node {
	for !parent.kind.canContain(kind) {
		parent = p.finalize(parent, buf)
	}
	child := &Node{
		kind:        kind,
		open:        true,
		startLine:   p.lineNumber,
		startColumn: startColumn,
	}
	parent.appendChild(child)
	return child
}

// addLine appends buf[offset:] to node's raw content. node must be open.
func (p *Parser) addLine(node *Node, buf []byte, offset int) {
	if !node.open {
		panic("commonmark: addLine called on a closed node")
	}
	node.content = append(node.content, buf[offset:]...)
}

// breakOutOfLists finalizes every node from container up to and including
// the outermost currently open [List] (found by descending from the
// document root), returning the list's parent as the new container.
// Called when two consecutive blank lines are seen inside a list, per
// CommonMark's rule that this always ends every enclosing list.
//
// Ported from cmark's break_out_of_lists.
func (p *Parser) breakOutOfLists(buf []byte, container *Node) *Node {
	b := p.root
	for b.isOpen() && b.kind != List {
		b = b.lastChild
	}
	if !b.isOpen() {
		return container
	}
	for container != nil && container != b {
		container = p.finalize(container, buf)
	}
	p.finalize(b, buf)
	return b.parent
}

// openListItem opens (and, if needed, its enclosing list) an [Item] for an
// already-scanned marker at the current position, computing the marker's
// padding the same way cmark does: if 1 to 4 spaces follow the marker, the
// item's content starts after all of them; if there is none, or there are 5
// or more, or the marker runs to the end of the line, it starts exactly one
// column past the marker.
//
// Ported from the list-marker branch of cmark's S_process_line.
func (p *Parser) openListItem(buf []byte, container *Node, m listMarker) *Node {
	p.advanceOffset(buf, p.firstNonspace+m.width-p.offset, false)

	spaces := 0
	for spaces <= 5 && peekByte(buf, p.offset+spaces) == ' ' {
		spaces++
	}
	var padding int
	if spaces >= 5 || spaces < 1 || isLineEndByte(peekByte(buf, p.offset)) {
		padding = m.width + 1
		if spaces > 0 {
			p.advanceOffset(buf, 1, false)
		}
	} else {
		padding = m.width + spaces
		p.advanceOffset(buf, spaces, true)
	}

	data := listData{
		listType:     m.listType,
		bulletChar:   m.bulletChar,
		start:        m.start,
		delimiter:    m.delimiter,
		markerOffset: p.indent,
		padding:      padding,
	}
	if data.listType == Bullet {
		data.delimiter = Period
	}

	if container.kind != List || !listsMatch(container.list, data) {
		container = p.addChild(buf, container, List, p.firstNonspace+1)
		container.list = data
	}

	container = p.addChild(buf, container, Item, p.firstNonspace+1)
	container.list = data
	return container
}

// paragraphIsSingleLine reports whether container's raw content consists
// of exactly one line so far, the condition under which a setext
// underline may still retroactively promote it to a [Heading].
func paragraphIsSingleLine(container *Node) bool {
	content := container.content
	if len(content) == 0 {
		return false
	}
	return indexByteFrom(content[:len(content)-1], '\n') < 0
}

func indexByteFrom(buf []byte, c byte) int {
	for i, b := range buf {
		if b == c {
			return i
		}
	}
	return -1
}
