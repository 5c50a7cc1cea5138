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
	"bytes"

	"golang.org/x/net/html/atom"
)

// scanThematicBreak reports whether the line starting at off (already past
// up to 3 leading spaces) is a thematic break: three or more matching '*',
// '-', or '_' characters, optionally separated by spaces or tabs, and
// nothing else on the line.
//
// Ported from cmark's thematic break scanner in blocks.c.
func scanThematicBreak(buf []byte, off int) bool {
	if off >= len(buf) {
		return false
	}
	marker := buf[off]
	if marker != '*' && marker != '-' && marker != '_' {
		return false
	}
	count := 0
	for i := off; i < len(buf); i++ {
		switch buf[i] {
		case marker:
			count++
		case ' ', '\t', '\r':
		case '\n':
			return count >= 3
		default:
			return false
		}
	}
	return count >= 3
}

// scanATXHeadingStart reports whether the line starting at off is an ATX
// heading opener: 1–6 '#' characters followed by a space, a tab, or the end
// of the line. It returns the heading level and matched, the number of
// bytes consumed by the whole opener (the hash run plus the run of
// spaces/tabs immediately following it, if any).
func scanATXHeadingStart(buf []byte, off int) (level, matched int, ok bool) {
	i := off
	for i < len(buf) && buf[i] == '#' {
		i++
	}
	level = i - off
	if level < 1 || level > 6 {
		return 0, 0, false
	}
	if i >= len(buf) || isLineEndByte(buf[i]) {
		return level, level, true
	}
	if buf[i] != ' ' && buf[i] != '\t' {
		return 0, 0, false
	}
	for i < len(buf) && (buf[i] == ' ' || buf[i] == '\t') {
		i++
	}
	return level, i - off, true
}

// chopTrailingHashtags strips an optional closing sequence of '#'
// characters from the end of an ATX heading line, along with the single
// run of whitespace that precedes it, provided that run is nonempty.
// A hash run with nothing but more text before it (no separating space or
// tab) is left in place, since it isn't a closing sequence at all.
//
// Ported from cmark's chop_trailing_hashtags.
func chopTrailingHashtags(line []byte) []byte {
	line = bytes.TrimRight(line, " \t\r\n")
	n := len(line) - 1
	orig := n
	for n >= 0 && line[n] == '#' {
		n--
	}
	if n != orig && n >= 0 && (line[n] == ' ' || line[n] == '\t') {
		return bytes.TrimRight(line[:n+1], " \t\r\n")
	}
	return line
}

// scanSetextHeadingUnderline reports whether the line starting at off is a
// setext heading underline: a run of '=' characters (level 1) or '-'
// characters (level 2), optionally followed by trailing spaces or tabs.
func scanSetextHeadingUnderline(buf []byte, off int) (level int, ok bool) {
	if off >= len(buf) {
		return 0, false
	}
	marker := buf[off]
	if marker != '=' && marker != '-' {
		return 0, false
	}
	i := off
	for i < len(buf) && buf[i] == marker {
		i++
	}
	for i < len(buf) {
		switch buf[i] {
		case ' ', '\t', '\r':
			i++
		case '\n':
			i = len(buf)
		default:
			return 0, false
		}
	}
	if marker == '=' {
		return 1, true
	}
	return 2, true
}

// scanCodeFenceStart reports whether the line starting at off opens a
// fenced code block: a run of 3 or more matching '`' or '~' characters (a
// backtick fence's run must not be followed later on the line by another
// backtick, since the info string of a backtick fence cannot contain one).
func scanCodeFenceStart(buf []byte, off int) (fenceChar byte, fenceLength int, ok bool) {
	if off >= len(buf) {
		return 0, 0, false
	}
	c := buf[off]
	if c != '`' && c != '~' {
		return 0, 0, false
	}
	i := off
	for i < len(buf) && buf[i] == c {
		i++
	}
	n := i - off
	if n < 3 {
		return 0, 0, false
	}
	if c == '`' && bytes.IndexByte(buf[i:], '`') >= 0 {
		return 0, 0, false
	}
	return c, n, true
}

// scanCodeFenceClose returns the length of a run of fenceChar starting at
// off, provided the rest of the line is empty but for trailing
// spaces/tabs. It returns 0 if the line has any other content, regardless
// of how long the run is — the caller compares the result against the
// opening fence's length to decide whether the block closes.
func scanCodeFenceClose(buf []byte, off int, fenceChar byte) int {
	i := off
	for i < len(buf) && buf[i] == fenceChar {
		i++
	}
	if i == off || !isBlankFrom(buf, i) {
		return 0
	}
	return i - off
}

// htmlBlockEndNeedles holds the literal end-condition substring for HTML
// block types 2–5, ported from cmark's html_block_tag table. Type 1 is
// matched against four possible closing tags (see htmlType1Enders); types 6
// and 7 end at the next blank line rather than a substring match.
var htmlBlockEndNeedles = [8][]byte{
	// index 0 unused: block types are 1-based.
	2: []byte("-->"),
	3: []byte("?>"),
	4: []byte(">"),
	5: []byte("]]>"),
}

var htmlType1Starters = [][]byte{[]byte("script"), []byte("pre"), []byte("style"), []byte("textarea")}
var htmlType1Enders = [][]byte{[]byte("</script"), []byte("</pre"), []byte("</style"), []byte("</textarea")}

// htmlBlockStarters6 is the set of tag names that can open an HTML block of
// type 6, matching cmark's fixed list. Using golang.org/x/net/html/atom's
// generated tag-name table avoids hand-maintaining 62 string comparisons.
var htmlBlockStarters6 = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Base: true,
	atom.Basefont: true, atom.Blockquote: true, atom.Body: true, atom.Caption: true,
	atom.Center: true, atom.Col: true, atom.Colgroup: true, atom.Dd: true,
	atom.Details: true, atom.Dialog: true, atom.Dir: true, atom.Div: true,
	atom.Dl: true, atom.Dt: true, atom.Fieldset: true, atom.Figcaption: true,
	atom.Figure: true, atom.Footer: true, atom.Form: true, atom.Frame: true,
	atom.Frameset: true, atom.H1: true, atom.H2: true, atom.H3: true,
	atom.H4: true, atom.H5: true, atom.H6: true, atom.Head: true,
	atom.Header: true, atom.Hr: true, atom.Html: true, atom.Iframe: true,
	atom.Legend: true, atom.Li: true, atom.Link: true, atom.Main: true,
	atom.Menu: true, atom.Menuitem: true, atom.Nav: true, atom.Noframes: true,
	atom.Ol: true, atom.Optgroup: true, atom.Option: true, atom.P: true,
	atom.Param: true, atom.Section: true, atom.Source: true, atom.Summary: true,
	atom.Table: true, atom.Tbody: true, atom.Td: true, atom.Tfoot: true,
	atom.Th: true, atom.Thead: true, atom.Title: true, atom.Tr: true,
	atom.Track: true, atom.Ul: true,
}

func asciiLower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func hasPrefixFold(buf []byte, off int, prefix []byte) bool {
	if off+len(prefix) > len(buf) {
		return false
	}
	for i, c := range prefix {
		if asciiLower(buf[off+i]) != asciiLower(c) {
			return false
		}
	}
	return true
}

func containsFold(buf []byte, needle []byte) bool {
	n := len(needle)
	if n == 0 {
		return true
	}
	for i := 0; i+n <= len(buf); i++ {
		if hasPrefixFold(buf, i, needle) {
			return true
		}
	}
	return false
}

// isHTMLTagNameByte reports whether b may appear in an HTML tag name.
func isHTMLTagNameByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '-'
}

// scanHTMLBlockStart reports whether the line starting at off opens an
// HTML block, per one of the seven start conditions in the CommonMark
// spec. inParagraph is true when the line is being considered as a
// continuation of an open paragraph rather than a fresh block start;
// conditions 1–6 may still open in that position, but condition 7 may not.
//
// Ported from cmark's html_block_tag dispatch in blocks.c/html.go.
func scanHTMLBlockStart(buf []byte, off int, inParagraph bool) (blockType int, ok bool) {
	if off >= len(buf) || buf[off] != '<' {
		return 0, false
	}
	rest := buf[off:]

	if hasPrefixFold(rest, 0, []byte("<!--")) {
		return 2, true
	}
	if hasPrefixFold(rest, 0, []byte("<?")) {
		return 3, true
	}
	if len(rest) >= 3 && rest[1] == '!' && rest[2] >= 'A' && rest[2] <= 'Z' {
		return 4, true
	}
	if hasPrefixFold(rest, 0, []byte("<![CDATA[")) {
		return 5, true
	}
	for _, name := range htmlType1Starters {
		if hasPrefixFold(rest, 1, name) {
			after := 1 + len(name)
			if after >= len(rest) {
				return 1, true
			}
			switch rest[after] {
			case ' ', '\t', '\n', '\r', '>':
				return 1, true
			}
		}
	}

	// Conditions 6 and 7: <tag ...> or </tag ...>, tag name only.
	i := 1
	closing := false
	if i < len(rest) && rest[i] == '/' {
		closing = true
		i++
	}
	nameStart := i
	for i < len(rest) && isHTMLTagNameByte(rest[i]) {
		i++
	}
	if i == nameStart {
		return 0, false
	}
	name := rest[nameStart:i]

	if at := atomFold(name); htmlBlockStarters6[at] {
		if i >= len(rest) {
			return 6, true
		}
		switch rest[i] {
		case ' ', '\t', '\n', '\r', '>':
			return 6, true
		case '/':
			if i+1 < len(rest) && rest[i+1] == '>' {
				return 6, true
			}
		}
	}

	if inParagraph {
		return 0, false
	}
	if closing {
		if !scanHTMLClosingTagRest(rest[i:]) {
			return 0, false
		}
	} else {
		if !scanHTMLOpenTagRest(rest[i:]) {
			return 0, false
		}
	}
	return 7, true
}

func atomFold(name []byte) atom.Atom {
	lower := make([]byte, len(name))
	for i, c := range name {
		lower[i] = asciiLower(c)
	}
	return atom.Lookup(lower)
}

// scanHTMLOpenTagRest reports whether rest (the bytes of a line following a
// tag name) completes a valid HTML open tag — zero or more attributes, then
// optional whitespace, an optional '/', and '>' — followed by only
// whitespace to the end of the line, as required by HTML block condition 7.
func scanHTMLOpenTagRest(rest []byte) bool {
	i := 0
	for {
		j := skipHTMLWhitespace(rest, i)
		if j == i {
			break
		}
		i = j
		k := i
		for k < len(rest) && isHTMLAttrNameByte(rest[k]) {
			k++
		}
		if k == i {
			break
		}
		i = k
		i = skipHTMLWhitespace(rest, i)
		if i < len(rest) && rest[i] == '=' {
			i++
			i = skipHTMLWhitespace(rest, i)
			v, ok := scanHTMLAttrValue(rest, i)
			if !ok {
				return false
			}
			i = v
		}
	}
	i = skipHTMLWhitespace(rest, i)
	if i < len(rest) && rest[i] == '/' {
		i++
	}
	if i >= len(rest) || rest[i] != '>' {
		return false
	}
	i++
	return isBlankFrom(rest, i)
}

func scanHTMLClosingTagRest(rest []byte) bool {
	i := skipHTMLWhitespace(rest, 0)
	if i >= len(rest) || rest[i] != '>' {
		return false
	}
	return isBlankFrom(rest, i+1)
}

func skipHTMLWhitespace(buf []byte, off int) int {
	i := off
	for i < len(buf) {
		switch buf[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

func isHTMLAttrNameByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' ||
		b == '_' || b == ':' || b == '.' || b == '-'
}

func scanHTMLAttrValue(buf []byte, off int) (end int, ok bool) {
	if off >= len(buf) {
		return off, false
	}
	switch buf[off] {
	case '"':
		i := off + 1
		for i < len(buf) && buf[i] != '"' {
			i++
		}
		if i >= len(buf) {
			return off, false
		}
		return i + 1, true
	case '\'':
		i := off + 1
		for i < len(buf) && buf[i] != '\'' {
			i++
		}
		if i >= len(buf) {
			return off, false
		}
		return i + 1, true
	default:
		i := off
		for i < len(buf) {
			switch buf[i] {
			case ' ', '\t', '\n', '\r', '"', '\'', '=', '<', '>', '`':
				if i == off {
					return off, false
				}
				return i, true
			}
			i++
		}
		if i == off {
			return off, false
		}
		return i, true
	}
}

// htmlBlockEnds reports whether buf closes an open HTML block of the given
// type. For types 1–5 the end condition is a substring match anywhere on
// the line (checked case-insensitively for type 1); for types 6 and 7 it is
// a blank line, which processLine's continuation step checks via p.blank
// instead.
func htmlBlockEnds(buf []byte, blockType int) bool {
	switch blockType {
	case 1:
		for _, needle := range htmlType1Enders {
			if containsFold(buf, needle) {
				return true
			}
		}
		return false
	case 2, 3, 4, 5:
		return bytes.Contains(buf, htmlBlockEndNeedles[blockType])
	default:
		return false
	}
}

// listMarker describes a parsed list item marker: a bullet or an ordered
// number, and the number of bytes the marker itself occupies. The padding
// after it is computed by the caller (see openListItem).
type listMarker struct {
	listType   ListType
	bulletChar byte
	start      int
	delimiter  Delimiter
	width      int // bytes consumed by the marker itself (digits/char + delimiter)
}

// scanListMarker reports whether the line starting at off begins a list
// item marker: a bullet character ('-', '+', '*') or 1–9 ASCII digits
// followed by '.' or ')'. It does not itself enforce CommonMark's
// "not immediately followed by more than 3 spaces" or interruption rules;
// those are block-opening concerns handled by the caller.
//
// Ported from cmark's parse_list_marker.
func scanListMarker(buf []byte, off int) (m listMarker, ok bool) {
	if off >= len(buf) {
		return listMarker{}, false
	}
	switch c := buf[off]; {
	case c == '-' || c == '+' || c == '*':
		// A run of 3+ of the same character is ambiguous with a
		// thematic break; the caller resolves priority by trying
		// scanThematicBreak first, per the container-opening order
		// in the CommonMark spec.
		if !isMarkerFollowSpace(buf, off+1) {
			return listMarker{}, false
		}
		return listMarker{listType: Bullet, bulletChar: c, width: 1}, true
	case c >= '0' && c <= '9':
		i := off
		for i < len(buf) && i-off < 9 && buf[i] >= '0' && buf[i] <= '9' {
			i++
		}
		if i == off {
			return listMarker{}, false
		}
		if i >= len(buf) {
			return listMarker{}, false
		}
		var delim Delimiter
		switch buf[i] {
		case '.':
			delim = Period
		case ')':
			delim = Paren
		default:
			return listMarker{}, false
		}
		if !isMarkerFollowSpace(buf, i+1) {
			return listMarker{}, false
		}
		start := atoiBytes(buf[off:i])
		return listMarker{
			listType:  Ordered,
			start:     start,
			delimiter: delim,
			width:     i + 1 - off,
		}, true
	default:
		return listMarker{}, false
	}
}

// isMarkerFollowSpace reports whether the byte at off is whitespace or the
// line's end, as cmark's parse_list_marker requires immediately after a
// bullet character or an ordered marker's delimiter.
func isMarkerFollowSpace(buf []byte, off int) bool {
	if off >= len(buf) {
		return true
	}
	switch buf[off] {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

func atoiBytes(digits []byte) int {
	n := 0
	for _, d := range digits {
		n = n*10 + int(d-'0')
	}
	return n
}

// listsMatch reports whether two list markers belong to the same list per
// CommonMark: bullets must share a bullet character; ordered markers must
// share a delimiter.
func listsMatch(a, b listData) bool {
	if a.listType != b.listType {
		return false
	}
	if a.listType == Bullet {
		return a.bulletChar == b.bulletChar
	}
	return a.delimiter == b.delimiter
}
