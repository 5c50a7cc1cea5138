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

// An InlineParser processes the raw text collected on [Paragraph] and
// [Heading] nodes into inline structure (emphasis, links, code spans, and
// so on) once block parsing has finished and every link reference
// definition has been collected.
//
// This package defines block structure only; it never constructs inline
// nodes itself. A caller that wants inlines parsed registers one with
// [Parser.SetInlineParser] before calling [Parser.Finish], which then
// invokes ParseInlines once per [Paragraph] and [Heading] node, in
// document order, with refs populated from every reference definition
// found anywhere in the document (including ones that appear after the
// node being parsed).
type InlineParser interface {
	// ParseInlines replaces n's Content with whatever representation the
	// implementation chooses to attach to n — n is otherwise finalized and
	// will not be visited again.
	ParseInlines(n *Node, refs ReferenceMap, options Options)
}
