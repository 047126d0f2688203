// Package diffview renders unified diffs between chapter revisions.
package diffview

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pmezard/go-difflib/difflib"

	"scribe/internal/textutil"
)

const (
	ansiReset = "\033[0m"
	ansiGreen = "\033[92m"
	ansiRed   = "\033[91m"
	ansiBlue  = "\033[94m"
)

// Presenter writes diffs to a terminal or log stream.
type Presenter struct {
	out     io.Writer
	context int
	color   bool
}

// New returns a Presenter writing to out. Color is enabled when out is a
// terminal and NO_COLOR is unset.
func New(out io.Writer, contextLines int) *Presenter {
	if contextLines < 0 {
		contextLines = 0
	}
	return &Presenter{out: out, context: contextLines, color: colorEnabled(out)}
}

// WithColor forces color on or off.
func (p *Presenter) WithColor(enabled bool) *Presenter {
	p.color = enabled
	return p
}

func colorEnabled(out io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Unified renders the unified diff between before and after.
func Unified(before, after, beforeLabel, afterLabel string, contextLines int) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: beforeLabel,
		ToFile:   afterLabel,
		Context:  contextLines,
	})
}

// ShowDiff prints a framed diff plus a similarity score.
func (p *Presenter) ShowDiff(before, after, beforeLabel, afterLabel string) {
	diff, err := Unified(before, after, beforeLabel, afterLabel, p.context)
	if err != nil {
		fmt.Fprintf(p.out, "\n(diff unavailable: %v)\n", err)
		return
	}
	fmt.Fprintf(p.out, "\n--- Differences between %s and %s ---\n", beforeLabel, afterLabel)
	if diff == "" {
		fmt.Fprintln(p.out, "(no differences)")
	}
	for line := range strings.Lines(diff) {
		fmt.Fprint(p.out, p.paint(line))
	}
	if diff != "" && !strings.HasSuffix(diff, "\n") {
		fmt.Fprintln(p.out)
	}
	fmt.Fprintf(p.out, "similarity %.0f%%\n", textutil.Similarity(before, after)*100)
	fmt.Fprint(p.out, "--- End of differences ---\n\n")
}

func (p *Presenter) paint(line string) string {
	if !p.color {
		return line
	}
	var color string
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return line
	case strings.HasPrefix(line, "+"):
		color = ansiGreen
	case strings.HasPrefix(line, "-"):
		color = ansiRed
	case strings.HasPrefix(line, "@@"):
		color = ansiBlue
	default:
		return line
	}
	body := strings.TrimSuffix(line, "\n")
	suffix := line[len(body):]
	return color + body + ansiReset + suffix
}

// Discard is a presenter that drops every diff.
type Discard struct{}

// ShowDiff implements workflow.DiffPresenter.
func (Discard) ShowDiff(string, string, string, string) {}
