// Package lift renders program artifacts to human-readable text.
//
// Programs travel through the engine in a compact JSON encoding; the
// lifter turns that encoding into the line-oriented listing shown to
// operators.
package lift

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Program is an immutable artifact produced by the engine. The encoded
// form is never mutated after construction, so it is safe to retain a
// Program beyond the event callback that delivered it.
type Program struct {
	body []byte
	size int
}

// NewProgram wraps an encoded program. The encoding is validated but not
// deeply parsed; instructions are extracted lazily at lift time.
func NewProgram(body []byte) (*Program, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid program encoding")
	}
	size := int(gjson.GetBytes(body, "instructions.#").Int())
	if size == 0 {
		return nil, fmt.Errorf("program has no instructions")
	}
	return &Program{body: body, size: size}, nil
}

// Size returns the number of instructions in the program.
func (p *Program) Size() int {
	return p.size
}

// Lift renders the program as an indented instruction listing. When
// includeComments is true, instruction comments are emitted as //-lines
// above the instruction they annotate.
func Lift(p *Program, includeComments bool) string {
	var b strings.Builder
	if header := gjson.GetBytes(p.body, "header"); includeComments && header.Exists() {
		fmt.Fprintf(&b, "// %s\n", header.String())
	}
	gjson.GetBytes(p.body, "instructions").ForEach(func(_, instr gjson.Result) bool {
		if comment := instr.Get("comment"); includeComments && comment.Exists() {
			fmt.Fprintf(&b, "// %s\n", comment.String())
		}
		b.WriteString(instr.Get("op").String())
		if operands := instr.Get("operands"); operands.Exists() {
			b.WriteByte(' ')
			writeOperands(&b, operands)
		}
		b.WriteByte('\n')
		return true
	})
	return b.String()
}

func writeOperands(b *strings.Builder, operands gjson.Result) {
	first := true
	operands.ForEach(func(_, op gjson.Result) bool {
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(op.String())
		return true
	})
}
