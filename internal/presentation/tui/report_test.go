package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/wayfinder/internal/scenario"
)

func sampleReport() *scenario.Report {
	return &scenario.Report{
		Name:        "mail",
		Description: "inbox flow",
		Steps: []scenario.StepResult{
			{Index: 1, Op: scenario.OpPush, Container: "main", Detail: "Inbox", Stack: []string{"Home", "Inbox"}, Calls: []string{"Inbox.ON_WILL_SHOW"}},
			{Index: 2, Op: scenario.OpExpect, Container: "main", Failure: "stack mismatch"},
		},
		Final:    map[string][]string{"main": {"Home", "Inbox"}, "a|b": {"X"}},
		Failures: []string{"step 2: stack mismatch"},
		Builds:   2,
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleReport())

	assert.Contains(t, md, "# mail")
	assert.Contains(t, md, "**FAILED** · 2 steps · 2 builds · 0 released")
	assert.Contains(t, md, "| 1 | push | main | Inbox | Home › Inbox | 0 | Inbox.ON_WILL_SHOW |")
	assert.Contains(t, md, "| 2 | expect | main | - | - | 0 | - |")
	assert.Contains(t, md, "- `main`: Home › Inbox")
	assert.Contains(t, md, "## Failures")
	assert.Less(t, strings.Index(md, "`a|b`"), strings.Index(md, "`main`"))
}

func TestPrintReport_NonTerminal(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintReport(&buf, sampleReport()))
	assert.Equal(t, Markdown(sampleReport()), buf.String())
}

func TestTracePrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewTracePrinter(&buf)
	for _, s := range sampleReport().Steps {
		p.Step(s)
	}

	out := buf.String()
	assert.Contains(t, out, "main Inbox")
	assert.Contains(t, out, "Home › Inbox")
	assert.Contains(t, out, "Inbox.ON_WILL_SHOW")
	assert.Contains(t, out, "stack mismatch")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Equal(t, len(bannerLines)+2, strings.Count(buf.String(), "\n"))
}

func TestNewRenderer(t *testing.T) {
	render, err := NewRenderer(60)
	require.NoError(t, err)
	out, err := render("# title")
	require.NoError(t, err)
	assert.Contains(t, out, "title")
}
