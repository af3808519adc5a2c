package format

import "strings"

const (
	defaultWidth = 80
	indentWidth  = 4
)

type printMode uint8

const (
	modeFlat printMode = iota
	modeBreak
)

type printCmd struct {
	indent int
	mode   printMode
	el     Element
}

// printer renders a layout document to text. Groups are measured in flat
// mode against the remaining line width; a group that does not fit, or that
// contains a forced break, is printed in break mode.
type printer struct {
	out     strings.Builder
	width   int
	col     int
	suffix  []printCmd
	pending []printCmd
}

// Print renders the document with the default line width.
func Print(els []Element) string {
	return PrintWidth(els, defaultWidth)
}

func PrintWidth(els []Element, width int) string {
	p := &printer{width: width}
	for i := len(els) - 1; i >= 0; i-- {
		p.pending = append(p.pending, printCmd{mode: modeBreak, el: els[i]})
	}
	p.run()
	p.flushSuffixes()
	return p.out.String()
}

func (p *printer) run() {
	for len(p.pending) > 0 {
		cmd := p.pending[len(p.pending)-1]
		p.pending = p.pending[:len(p.pending)-1]
		p.print(cmd)
	}
}

func (p *printer) print(cmd printCmd) {
	el := cmd.el
	switch el.kind {
	case elemText, elemVerbatim:
		p.write(el.text)

	case elemSpace:
		p.write(" ")

	case elemLine:
		if cmd.mode == modeFlat {
			p.write(" ")
		} else {
			p.newline(cmd.indent, 1)
		}

	case elemSoftline:
		if cmd.mode == modeBreak {
			p.newline(cmd.indent, 1)
		}

	case elemHardline:
		p.newline(cmd.indent, 1)

	case elemEmptyline:
		p.newline(cmd.indent, 2)

	case elemGroup:
		mode := modeBreak
		if !willBreak(el) && p.fits(el.children, p.width-p.col) {
			mode = modeFlat
		}
		p.push(cmd.indent, mode, el.children)

	case elemIndent:
		p.push(cmd.indent+1, cmd.mode, el.children)

	case elemLineSuffix:
		for _, c := range el.children {
			p.suffix = append(p.suffix, printCmd{indent: cmd.indent, mode: modeFlat, el: c})
		}

	case elemIfBreaks:
		if cmd.mode == modeBreak {
			p.push(cmd.indent, cmd.mode, el.children)
		}

	case elemIfFlat:
		if cmd.mode == modeFlat {
			p.push(cmd.indent, cmd.mode, el.children)
		}

	case elemExpandParent:
		// Only affects measurement.
	}
}

func (p *printer) push(indent int, mode printMode, els []Element) {
	for i := len(els) - 1; i >= 0; i-- {
		p.pending = append(p.pending, printCmd{indent: indent, mode: mode, el: els[i]})
	}
}

func (p *printer) write(s string) {
	p.out.WriteString(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		p.col = len(s) - i - 1
	} else {
		p.col += len(s)
	}
}

// newline flushes queued line suffixes, emits n line breaks and re-indents.
func (p *printer) newline(indent, n int) {
	p.flushSuffixes()
	for range n {
		p.out.WriteString("\n")
	}
	pad := indent * indentWidth
	p.out.WriteString(strings.Repeat(" ", pad))
	p.col = pad
}

func (p *printer) flushSuffixes() {
	if len(p.suffix) == 0 {
		return
	}
	cmds := p.suffix
	p.suffix = nil
	for _, c := range cmds {
		p.print(c)
	}
}

// fits measures the elements in flat mode against the available width.
func (p *printer) fits(els []Element, avail int) bool {
	stack := make([]Element, len(els))
	for i, el := range els {
		stack[len(els)-1-i] = el
	}
	for len(stack) > 0 && avail >= 0 {
		el := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch el.kind {
		case elemText:
			avail -= len(el.text)
		case elemVerbatim:
			if strings.ContainsRune(el.text, '\n') {
				return false
			}
			avail -= len(el.text)
		case elemSpace, elemLine:
			avail--
		case elemSoftline:
			// Nothing when flat.
		case elemHardline, elemEmptyline, elemExpandParent:
			return false
		case elemGroup, elemIndent, elemIfFlat:
			for i := len(el.children) - 1; i >= 0; i-- {
				stack = append(stack, el.children[i])
			}
		case elemIfBreaks, elemLineSuffix:
			// Not rendered when flat; suffixes take no width here.
		}
	}
	return avail >= 0
}
