package transcript

import (
	"strings"

	"github.com/ironsheep/comic-ocr/internal/ocr"
)

// Assembler accumulates recognized lines region by region.
//
// Each line is followed by a newline; lines ending in '.', '?' or '!' get an
// extra one so sentences end paragraphs. Text is otherwise copied verbatim.
// The zero value is ready to use.
type Assembler struct {
	sb    strings.Builder
	lines int
}

// Add appends the top candidate of every observation in obs, in order.
// obs is expected to be already filtered.
func (a *Assembler) Add(obs []ocr.Observation) {
	for _, o := range obs {
		if c, ok := o.Top(); ok {
			a.AddLine(c.Text)
		}
	}
}

// AddLine appends one line of text.
func (a *Assembler) AddLine(text string) {
	a.sb.WriteString(text)
	if EndsSentence(text) {
		a.sb.WriteByte('\n')
	}
	a.sb.WriteByte('\n')
	a.lines++
}

// Lines returns the number of lines added so far.
func (a *Assembler) Lines() int { return a.lines }

// String returns the assembled text.
func (a *Assembler) String() string { return a.sb.String() }

// EndsSentence reports whether text ends in '.', '?' or '!'.
func EndsSentence(text string) bool {
	return strings.HasSuffix(text, ".") ||
		strings.HasSuffix(text, "?") ||
		strings.HasSuffix(text, "!")
}

// Assemble joins accepted observations grouped by region, in region order.
func Assemble(perRegion [][]ocr.Observation) string {
	var a Assembler
	for _, obs := range perRegion {
		a.Add(obs)
	}
	return a.String()
}
