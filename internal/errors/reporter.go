package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Reporter formats *Error values for a terminal, the way the teacher's CLI
// formats its own parse errors: red "error" label, bold error kind, dimmed
// location context.
type Reporter struct {
	Source string
}

func NewReporter(path string) *Reporter {
	return &Reporter{Source: path}
}

// Format renders err as a colorized, multi-line diagnostic suitable for
// printing to stderr.
func (r *Reporter) Format(err *Error) string {
	bold := color.New(color.Bold).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s\n", red("error"), bold(err.Kind.String()), err.Message)
	if r.Source != "" {
		fmt.Fprintf(&b, "  %s %s\n", dim("-->"), r.Source)
	}
	if err.Function != "" {
		loc := err.Function
		if err.Block != "" {
			loc = fmt.Sprintf("%s / block %s", err.Function, err.Block)
		}
		fmt.Fprintf(&b, "  %s %s\n", dim("in"), loc)
	}
	return b.String()
}
