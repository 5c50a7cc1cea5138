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

// Kind is an enumeration of the block tags a [Node] can carry.
type Kind uint8

const (
	// Document is the root of every tree returned by [Parser.Finish].
	Document Kind = 1 + iota
	// BlockQuote is a container opened by a '>' marker.
	BlockQuote
	// List is a container of consecutive [Item] siblings sharing a marker style.
	List
	// Item is a single entry of a [List].
	Item
	// Heading is an ATX ("# Foo") or setext ("Foo\n===") heading.
	// See [*Node.Setext] and [*Node.HeadingLevel].
	Heading
	// Paragraph is a run of non-blank text lines.
	Paragraph
	// CodeBlock is an indented or fenced code block.
	// See [*Node.Fenced].
	CodeBlock
	// HTMLBlock is a raw block of HTML, passed through unescaped.
	HTMLBlock
	// ThematicBreak is a horizontal rule. It never has children.
	ThematicBreak
)

func (k Kind) String() string {
	switch k {
	case Document:
		return "Document"
	case BlockQuote:
		return "BlockQuote"
	case List:
		return "List"
	case Item:
		return "Item"
	case Heading:
		return "Heading"
	case Paragraph:
		return "Paragraph"
	case CodeBlock:
		return "CodeBlock"
	case HTMLBlock:
		return "HTMLBlock"
	case ThematicBreak:
		return "ThematicBreak"
	default:
		return "Kind(0)"
	}
}

// canContain reports whether a node of kind parent may have a child of kind child.
func (parent Kind) canContain(child Kind) bool {
	switch parent {
	case Document, BlockQuote, Item:
		return true
	case List:
		return child == Item
	default:
		return false
	}
}

// acceptsLines reports whether nodes of this kind absorb raw text lines
// directly (as opposed to further block structure).
func (k Kind) acceptsLines() bool {
	switch k {
	case Paragraph, Heading, CodeBlock, HTMLBlock:
		return true
	default:
		return false
	}
}

// ListType distinguishes bullet lists from ordered lists.
type ListType uint8

const (
	// Bullet is a list introduced by '-', '+', or '*'.
	Bullet ListType = 1 + iota
	// Ordered is a list introduced by digits followed by '.' or ')'.
	Ordered
)

// Delimiter is the character that follows the digits of an [Ordered] list marker.
type Delimiter uint8

const (
	// Period marks a list item as "1.". It is also used as the zero-value
	// placeholder delimiter for [Bullet] lists.
	Period Delimiter = 1 + iota
	// Paren marks a list item as "1)".
	Paren
)

// headingData holds the tag-specific fields of a [Heading] node.
type headingData struct {
	level  int
	setext bool
}

// codeData holds the tag-specific fields of a [CodeBlock] node.
type codeData struct {
	fenced      bool
	fenceChar   byte
	fenceLength int
	fenceOffset int
	info        []byte // detached, post HTML-unescape/trim/backslash-unescape
	literal     []byte // detached, final code bytes after finalization
}

// htmlData holds the tag-specific fields of an [HTMLBlock] node.
type htmlData struct {
	blockType int // 1..7, see scanHTMLBlockStart
}

// listData holds the tag-specific fields shared by [List] and [Item] nodes.
// An Item's fields are copies of the marker that opened it; a List's fields
// describe the marker style all of its items share.
type listData struct {
	listType     ListType
	bulletChar   byte // 0 for Ordered lists
	start        int  // 1..10^9, meaningless for Bullet
	delimiter    Delimiter
	tight        bool // only meaningful after finalization
	markerOffset int  // indent at which the marker started
	padding      int  // columns from the marker character to the content
}

// A Node is a single element of the block tree: a document, a container
// such as a block quote or list, or a leaf such as a paragraph or code
// block.
//
// Nodes form a tree via [*Node.Parent], [*Node.FirstChild], [*Node.LastChild],
// [*Node.Next], and [*Node.Prev]. Parent and Prev are non-owning: the tree is
// owned top-down, by the child-and-sibling links. At most one chain of
// nodes descending from the root is open at any time while a [Parser] is
// running; after [Parser.Finish] returns, no node is open.
type Node struct {
	kind Kind
	open bool

	startLine, startColumn int
	endLine, endColumn     int

	// content holds not-yet-parsed text for a leaf node while it is open.
	// For Paragraph and Heading nodes it remains populated after
	// finalization, ready for an inline parsing pass. For CodeBlock nodes
	// it is moved into codeData.literal at finalization and cleared. For
	// HTMLBlock nodes it is kept and serves as the literal (see
	// *Node.Literal).
	content []byte

	lastLineBlank bool

	parent, firstChild, lastChild, prev, next *Node

	heading headingData
	code    codeData
	html    htmlData
	list    listData
}

// Kind returns the node's tag, or zero if n is nil.
func (n *Node) Kind() Kind {
	if n == nil {
		return 0
	}
	return n.kind
}

// StartLine returns the 1-based line on which n begins, or 0 if n is nil.
func (n *Node) StartLine() int {
	if n == nil {
		return 0
	}
	return n.startLine
}

// StartColumn returns the 1-based column at which n begins, or 0 if n is nil.
func (n *Node) StartColumn() int {
	if n == nil {
		return 0
	}
	return n.startColumn
}

// EndLine returns the 1-based line on which n ends, or 0 if n is nil or
// still open.
func (n *Node) EndLine() int {
	if n == nil {
		return 0
	}
	return n.endLine
}

// EndColumn returns the 1-based column at which n ends, or 0 if n is nil or
// still open.
func (n *Node) EndColumn() int {
	if n == nil {
		return 0
	}
	return n.endColumn
}

// Parent returns n's parent, or nil if n is nil or the root.
func (n *Node) Parent() *Node {
	if n == nil {
		return nil
	}
	return n.parent
}

// FirstChild returns n's first child, or nil if n has none.
func (n *Node) FirstChild() *Node {
	if n == nil {
		return nil
	}
	return n.firstChild
}

// LastChild returns n's last child, or nil if n has none.
func (n *Node) LastChild() *Node {
	if n == nil {
		return nil
	}
	return n.lastChild
}

// Next returns n's next sibling, or nil if n is the last child of its parent.
func (n *Node) Next() *Node {
	if n == nil {
		return nil
	}
	return n.next
}

// Prev returns n's previous sibling, or nil if n is the first child of its
// parent.
func (n *Node) Prev() *Node {
	if n == nil {
		return nil
	}
	return n.prev
}

// Content returns the raw, not-yet-inline-parsed text of a [Paragraph] or
// [Heading] node. It returns nil for any other kind.
func (n *Node) Content() []byte {
	if n == nil || (n.kind != Paragraph && n.kind != Heading) {
		return nil
	}
	return n.content
}

// HeadingLevel returns the 1-to-6 level of a [Heading] node, or 0 otherwise.
func (n *Node) HeadingLevel() int {
	if n.Kind() != Heading {
		return 0
	}
	return n.heading.level
}

// Setext reports whether a [Heading] node was introduced by an underline
// ("Foo\n===") rather than a leading '#'.
func (n *Node) Setext() bool {
	return n.Kind() == Heading && n.heading.setext
}

// Fenced reports whether a [CodeBlock] node is a fenced (``` or ~~~) block
// rather than an indented one.
func (n *Node) Fenced() bool {
	return n.Kind() == CodeBlock && n.code.fenced
}

// FenceChar returns the fence character ('`' or '~') of a fenced [CodeBlock],
// or 0 otherwise.
func (n *Node) FenceChar() byte {
	if !n.Fenced() {
		return 0
	}
	return n.code.fenceChar
}

// FenceLength returns the number of fence characters (≥3) that opened a
// fenced [CodeBlock], or 0 otherwise.
func (n *Node) FenceLength() int {
	if !n.Fenced() {
		return 0
	}
	return n.code.fenceLength
}

// FenceOffset returns the number of leading spaces under which a fenced
// [CodeBlock]'s fence was opened, or 0 otherwise.
func (n *Node) FenceOffset() int {
	if !n.Fenced() {
		return 0
	}
	return n.code.fenceOffset
}

// Info returns the (HTML-unescaped, trimmed, backslash-unescaped) info
// string of a fenced [CodeBlock], or nil for any other kind.
func (n *Node) Info() []byte {
	if !n.Fenced() {
		return nil
	}
	return n.code.info
}

// Literal returns the final text content of a [CodeBlock] or [HTMLBlock]
// node, valid only after the node has been finalized.
func (n *Node) Literal() []byte {
	switch n.Kind() {
	case CodeBlock:
		return n.code.literal
	case HTMLBlock:
		return n.content
	default:
		return nil
	}
}

// HTMLBlockType returns the 1-to-7 HTML block start condition that opened
// an [HTMLBlock] node, or 0 otherwise.
func (n *Node) HTMLBlockType() int {
	if n.Kind() != HTMLBlock {
		return 0
	}
	return n.html.blockType
}

// IsOrderedList reports whether n is an [Ordered] [List] or [Item].
func (n *Node) IsOrderedList() bool {
	k := n.Kind()
	return (k == List || k == Item) && n.list.listType == Ordered
}

// ListBulletChar returns the bullet character ('*', '-', or '+') of a
// [Bullet] [List] or [Item], or 0 otherwise.
func (n *Node) ListBulletChar() byte {
	k := n.Kind()
	if (k != List && k != Item) || n.list.listType != Bullet {
		return 0
	}
	return n.list.bulletChar
}

// ListStart returns the starting number of an [Ordered] [List] or [Item].
func (n *Node) ListStart() int {
	if !n.IsOrderedList() {
		return 0
	}
	return n.list.start
}

// ListDelimiter returns the delimiter following an [Ordered] list marker's
// digits, or 0 for a [Bullet] list.
func (n *Node) ListDelimiter() Delimiter {
	if !n.IsOrderedList() {
		return 0
	}
	return n.list.delimiter
}

// Tight reports whether a [List] is tight (its items are not wrapped in
// paragraphs when rendered). Only meaningful after finalization. It is
// always false for an [Item]: tightness is computed only on the List.
func (n *Node) Tight() bool {
	k := n.Kind()
	return (k == List || k == Item) && n.list.tight
}

// MarkerOffset returns the indent at which a [List] or [Item] marker began.
func (n *Node) MarkerOffset() int {
	k := n.Kind()
	if k != List && k != Item {
		return 0
	}
	return n.list.markerOffset
}

// Padding returns the number of columns from a [List] or [Item] marker
// character to its content.
func (n *Node) Padding() int {
	k := n.Kind()
	if k != List && k != Item {
		return 0
	}
	return n.list.padding
}

func (n *Node) isOpen() bool {
	return n != nil && n.open
}

// appendChild appends child to n's child list, linking both sides of the
// doubly-linked sibling chain.
func (n *Node) appendChild(child *Node) {
	child.parent = n
	if n.lastChild != nil {
		n.lastChild.next = child
		child.prev = n.lastChild
	} else {
		n.firstChild = child
	}
	n.lastChild = child
}

// unlink removes n from its parent's child list. It is used to drop a
// paragraph that turns out to be nothing but link reference definitions.
func (n *Node) unlink() {
	if n.prev != nil {
		n.prev.next = n.next
	} else if n.parent != nil {
		n.parent.firstChild = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else if n.parent != nil {
		n.parent.lastChild = n.prev
	}
	n.parent = nil
	n.prev = nil
	n.next = nil
}
