// Package format prints a Quill CST back to normalized source text.
//
// Formatting happens in two stages: per-node glue lowers the tree into a
// document of layout elements, then the printer renders the document against
// a line width. Comments, blank lines and unparseable fragments from the
// original source are threaded through the document so no byte of author
// intent is lost.
package format

import "strings"

type elemKind uint8

const (
	elemText elemKind = iota
	elemSpace
	// elemLine renders as a space when flat, a line break when broken.
	elemLine
	// elemSoftline renders as nothing when flat, a line break when broken.
	elemSoftline
	elemHardline
	// elemEmptyline is a forced blank line: two line breaks.
	elemEmptyline
	// elemVerbatim carries raw original bytes that must not be reflowed.
	elemVerbatim
	elemGroup
	elemIndent
	// elemLineSuffix defers its content to just before the next line break.
	elemLineSuffix
	elemIfBreaks
	elemIfFlat
	// elemExpandParent forces the enclosing group to break without
	// printing anything itself.
	elemExpandParent
)

// Element is one node of the layout document.
type Element struct {
	kind     elemKind
	text     string
	children []Element
}

func Text(s string) Element      { return Element{kind: elemText, text: s} }
func Space() Element             { return Element{kind: elemSpace} }
func Line() Element              { return Element{kind: elemLine} }
func Softline() Element          { return Element{kind: elemSoftline} }
func Hardline() Element          { return Element{kind: elemHardline} }
func Emptyline() Element         { return Element{kind: elemEmptyline} }
func Verbatim(s string) Element  { return Element{kind: elemVerbatim, text: s} }
func ExpandParent() Element      { return Element{kind: elemExpandParent} }
func Group(els ...Element) Element      { return Element{kind: elemGroup, children: els} }
func Indent(els ...Element) Element     { return Element{kind: elemIndent, children: els} }
func LineSuffix(els ...Element) Element { return Element{kind: elemLineSuffix, children: els} }
func IfBreaks(els ...Element) Element   { return Element{kind: elemIfBreaks, children: els} }
func IfFlat(els ...Element) Element     { return Element{kind: elemIfFlat, children: els} }

// willBreak reports whether the element forces any enclosing group to break.
func willBreak(el Element) bool {
	switch el.kind {
	case elemHardline, elemEmptyline, elemExpandParent:
		return true
	case elemVerbatim:
		return strings.ContainsRune(el.text, '\n')
	case elemGroup, elemIndent, elemIfBreaks:
		// A hard break inside a nested group breaks that group, not this
		// one, but it still cannot be flattened, so measurement treats it
		// the same.
		for _, c := range el.children {
			if willBreak(c) {
				return true
			}
		}
	}
	return false
}
