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

// FuzzBlockParsing exercises the claim behind spec.md §7: no input, however
// malformed, should make the parser panic or fail an invariant. Since
// CommonMark has no errors, there is no "wrong answer" to check here beyond
// the universally-quantified invariants of testable properties 1-3 and the
// indented-code part of property 4.
//
// Grounded on the teacher's FuzzBlockParsing (parse_test.go), adapted from
// its pull-one-block-at-a-time loop to a single Feed+Finish call since this
// package delivers its tree all at once rather than incrementally.
func FuzzBlockParsing(f *testing.F) {
	for _, seed := range []string{
		"",
		"# Title\n\nSome *text*.\n",
		"> a\nb\n",
		"- a\n\n- b\n",
		"```go\nx\n```\n",
		"    x\n    y\n",
		"Foo\n===\n",
		"[a]: /u \"t\"\n\nsee [a]\n",
		"- a\n\n\n- b\n",
		"<script>\nvar x = 1;\n</script>\n",
		"a\x00b\n",
		"\t\tfoo\n",
		"1) one\n2) two\n",
		"*** \n--- \n___\n",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, markdown string) {
		assertSaneTree(t, ParseDocument([]byte(markdown), Normalize|ValidateUTF8))
	})
}

// FuzzFeedChunking exercises testable property 7: feeding the same bytes
// through Feed in two pieces must yield the same tree shape as feeding them
// in one piece, no matter where the split falls — including mid-rune,
// mid-tab, and mid-line-ending.
func FuzzFeedChunking(f *testing.F) {
	f.Add("> quoted\r\ncontinued\r\n\r\n- a\r\n- b\r\n", 5)
	f.Add("line one\nline two\n", 4)
	f.Add("a\r\nb\r\n", 2)

	f.Fuzz(func(t *testing.T, markdown string, split int) {
		whole := snapshot(ParseDocument([]byte(markdown), 0))

		if len(markdown) == 0 {
			return
		}
		n := split % (len(markdown) + 1)
		if n < 0 {
			n += len(markdown) + 1
		}

		p := NewParser(0)
		p.Feed([]byte(markdown[:n]))
		p.Feed([]byte(markdown[n:]))
		chunked := snapshot(p.Finish())

		if diff := treeDiff(whole, chunked); diff != "" {
			t.Errorf("splitting at byte %d changed the tree:\n%s", n, diff)
		}
	})
}

// assertSaneTree walks n checking the invariants from spec.md §8 that hold
// for every node regardless of input: no node left open, every node's end
// is not before its start, and every child's Parent() points back correctly.
func assertSaneTree(t *testing.T, root *Node) {
	t.Helper()
	Walk(root, func(c *Cursor) bool {
		if !c.Entering {
			return true
		}
		n := c.Node
		if n.open {
			t.Errorf("%v: still open after Finish", n.Kind())
		}
		if n.EndLine() < n.StartLine() {
			t.Errorf("%v: end line %d before start line %d", n.Kind(), n.EndLine(), n.StartLine())
		}
		for child := n.FirstChild(); child != nil; child = child.Next() {
			if child.Parent() != n {
				t.Errorf("%v's child %v has Parent() = %v; want the node itself", n.Kind(), child.Kind(), child.Parent())
			}
		}
		if n.Kind() == CodeBlock && !n.Fenced() && n.Literal() != nil {
			lit := n.Literal()
			if len(lit) > 0 && lit[len(lit)-1] != '\n' {
				t.Errorf("indented CodeBlock literal %q does not end in a newline", lit)
			}
		}
		return true
	})
}

// treeDiff returns a human-readable description of the first difference
// between two treeShapes, or "" if they are equal. It exists so
// FuzzFeedChunking can report something more useful than cmp.Diff's full
// nested dump when the fuzzer finds a divergence deep in a large tree.
func treeDiff(a, b treeShape) string {
	if a.Kind != b.Kind {
		return "kind mismatch: " + a.Kind.String() + " vs " + b.Kind.String()
	}
	if a.Content != b.Content {
		return "content mismatch: " + a.Content + " vs " + b.Content
	}
	if len(a.Children) != len(b.Children) {
		return "child count mismatch"
	}
	for i := range a.Children {
		if d := treeDiff(a.Children[i], b.Children[i]); d != "" {
			return d
		}
	}
	return ""
}
