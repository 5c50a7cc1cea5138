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

// tabStop is the column width CommonMark uses to expand tabs.
const tabStop = 4

// Every line handed to the scanners in this file and in scan.go includes
// its trailing line-ending bytes ('\n', optionally preceded by '\r'), the
// way original_source/ext/blocks.c's S_process_line operates on a
// strbuf that is always newline-terminated. There is no line type: the
// functions below are pure functions over a line buffer and a start
// offset, taking and returning plain ints, in the style spec.md asks for.

// findFirstNonspace returns the byte offset and column of the first
// character at or after off that is not a space or tab, expanding tabs to
// columns as it goes. If the line is entirely blank from off onward, it
// returns the offset and column of the line's ending byte (or of the end
// of buf, if the line has no ending).
//
// Ported from cmark's S_find_first_nonspace.
func findFirstNonspace(buf []byte, off, col int) (offset, column int) {
	offset, column = off, col
	for offset < len(buf) {
		switch buf[offset] {
		case ' ':
			offset++
			column++
		case '\t':
			offset++
			column += tabStop - (column % tabStop)
		default:
			return offset, column
		}
	}
	return offset, column
}

// advanceOffset moves off/col forward past count columns (if columns is
// true) or count bytes (if columns is false), stopping at the end of the
// line. A tab is always consumed whole: when columns is true and a tab's
// full column width exceeds the remaining count, the count still goes
// negative and the loop ends there, leaving column ahead of where the
// consumed bytes nominally end. That gap is intentional — it is how
// CommonMark's "partial tab consumption leaves virtual spaces" rule falls
// out of the column bookkeeping without being handled as a special case.
//
// Ported from cmark's S_advance_offset.
func advanceOffset(buf []byte, off, col, count int, columns bool) (offset, column int) {
	offset, column = off, col
	for count > 0 && offset < len(buf) {
		if buf[offset] == '\t' {
			charsToTab := tabStop - (column % tabStop)
			column += charsToTab
			offset++
			if columns {
				count -= charsToTab
			} else {
				count--
			}
		} else {
			offset++
			column++
			count--
		}
	}
	return offset, column
}

// isBlankFrom reports whether buf contains only spaces and tabs from off
// up to its line ending (or its end, if it has none).
func isBlankFrom(buf []byte, off int) bool {
	for i := off; i < len(buf); i++ {
		switch buf[i] {
		case ' ', '\t':
			continue
		case '\r', '\n':
			return true
		default:
			return false
		}
	}
	return true
}

// isLineEndByte reports whether b terminates a line.
func isLineEndByte(b byte) bool {
	return b == '\n' || b == '\r'
}

// peekByte returns the byte at offset off in buf, or 0 if off is past the end.
func peekByte(buf []byte, off int) byte {
	if off < 0 || off >= len(buf) {
		return 0
	}
	return buf[off]
}
