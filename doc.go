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

// Package commonmark implements the block-structure layer of a [CommonMark]
// processor: it turns a stream of bytes into a tree of block nodes
// (documents, block quotes, lists, list items, headings, code blocks,
// HTML blocks, paragraphs, thematic breaks) whose leaves carry raw,
// not-yet-tokenized text.
//
// Inline parsing and rendering are deliberately out of scope. A caller that
// wants rendered output registers an [InlineParser] with [Parser.SetInlineParser]
// and walks the resulting tree itself; this package only ever hands that
// collaborator a [*Node] and a [ReferenceMap].
//
// [CommonMark]: https://spec.commonmark.org/0.30/
package commonmark
