package tui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/muesli/termenv"

	"github.com/aretw0/wayfinder/internal/scenario"
)

// Markdown renders a scenario report as a markdown document.
func Markdown(r *scenario.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Name)
	if r.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", r.Description)
	}
	status := "PASSED"
	if !r.Passed() {
		status = "FAILED"
	}
	fmt.Fprintf(&b, "**%s** · %d steps · %d builds · %d released\n\n", status, len(r.Steps), r.Builds, r.Released)

	b.WriteString("## Steps\n\n")
	b.WriteString("| # | op | container | detail | stack | running | calls |\n")
	b.WriteString("|---|----|-----------|--------|-------|---------|-------|\n")
	for _, s := range r.Steps {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %d | %s |\n",
			s.Index, s.Op, s.Container, cell(s.Detail), cell(strings.Join(s.Stack, " › ")), s.Running, cell(strings.Join(s.Calls, ", ")))
	}

	b.WriteString("\n## Final stacks\n\n")
	ids := make([]string, 0, len(r.Final))
	for id := range r.Final {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(&b, "- `%s`: %s\n", id, strings.Join(r.Final[id], " › "))
	}

	if len(r.Failures) > 0 {
		b.WriteString("\n## Failures\n\n")
		for _, f := range r.Failures {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	return b.String()
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

// PrintReport writes r to w. Terminals get glamour-rendered output; anything
// else gets the raw markdown.
func PrintReport(w io.Writer, r *scenario.Report) error {
	md := Markdown(r)
	if !IsTerminal(w) {
		_, err := io.WriteString(w, md)
		return err
	}
	render, err := NewRenderer(0)
	if err != nil {
		return err
	}
	out, err := render(md)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// TracePrinter writes one line per step as it runs.
type TracePrinter struct {
	w   io.Writer
	out *termenv.Output
}

// NewTracePrinter creates a printer coloured for the terminal profile of w.
func NewTracePrinter(w io.Writer) *TracePrinter {
	return &TracePrinter{w: w, out: termenv.NewOutput(w)}
}

// Step prints one step result.
func (p *TracePrinter) Step(s scenario.StepResult) {
	op := p.out.String(fmt.Sprintf("%-11s", s.Op)).Bold()
	switch {
	case s.Failure != "":
		op = op.Foreground(p.out.Color("1"))
	case s.Op == scenario.OpExpect:
		op = op.Foreground(p.out.Color("2"))
	default:
		op = op.Foreground(p.out.Color("6"))
	}
	fmt.Fprintf(p.w, "%3d %s %s %s\n", s.Index, op, s.Container, s.Detail)
	if len(s.Stack) > 0 {
		fmt.Fprintf(p.w, "    %s %s\n", p.out.String("stack").Faint(), strings.Join(s.Stack, " › "))
	}
	for _, c := range s.Calls {
		fmt.Fprintf(p.w, "    %s %s\n", p.out.String("·").Faint(), c)
	}
	if s.Failure != "" {
		fmt.Fprintf(p.w, "    %s\n", p.out.String(s.Failure).Foreground(p.out.Color("1")))
	}
}
