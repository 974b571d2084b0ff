// Package ui renders kernbench results for people: one styled line per
// kernel on terminals, plain text everywhere else.
package ui

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"kernbench/internal/benchmark"
	"kernbench/internal/history"
	"kernbench/internal/suite"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Printer writes human-readable reports to w.
type Printer struct {
	w io.Writer
	s Styles
}

// NewPrinter styles output only when w is a terminal.
func NewPrinter(w io.Writer) *Printer {
	profile := termenv.Ascii
	if IsTerminal(w) {
		profile = termenv.EnvColorProfile()
	}
	return newPrinter(w, profile)
}

func newPrinter(w io.Writer, profile termenv.Profile) *Printer {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return &Printer{w: w, s: NewStyles(r)}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Title prints a banner line.
func (p *Printer) Title(text string) {
	fmt.Fprintln(p.w, p.s.Title.Render(text))
}

// Result prints "<name>: mean <x>ms over <n> iterations (<m> samples)", where
// m counts the recorded deltas, the same number as "times" and history.
func (p *Printer) Result(r benchmark.Result) {
	mean := strconv.FormatFloat(r.MeanMillis(), 'f', -1, 64) + "ms"
	fmt.Fprintf(p.w, "%s: mean %s over %d iterations (%d samples)\n",
		p.s.Name.Render(r.Kernel), p.s.Value.Render(mean), r.Iterations, len(r.Record.Times))
	if r.Path != "" {
		fmt.Fprintln(p.w, p.s.Muted.Render("  "+r.Path))
	}
}

// SelfTest prints PASS or FAIL for each kernel given the outcome of suite.Gate.
func (p *Printer) SelfTest(ks []suite.Kernel, gateErr error) {
	failed := make(map[string]error)
	var ge *suite.GateError
	if errors.As(gateErr, &ge) {
		for _, f := range ge.Failures {
			failed[f.Kernel] = f.Err
		}
	}
	for _, k := range ks {
		if err, ok := failed[k.Name]; ok {
			fmt.Fprintf(p.w, "%s %s: %v\n", p.s.Error.Render("FAIL"), k.Name, err)
			continue
		}
		fmt.Fprintf(p.w, "%s %s\n", p.s.Success.Render("PASS"), k.Name)
	}
}

// Comparisons prints one line per matched record, colouring changes beyond
// threshold percent.
func (p *Printer) Comparisons(cs []benchmark.Comparison, threshold float64) {
	if len(cs) == 0 {
		fmt.Fprintln(p.w, "No common records found.")
		return
	}
	for _, c := range cs {
		line := c.String()
		switch {
		case c.Regressed(threshold):
			line = p.s.Error.Render(line + " (regression)")
		case c.Improved(threshold):
			line = p.s.Success.Render(line + " (improvement)")
		}
		fmt.Fprintln(p.w, line)
	}
}

// Kernels prints the catalog with the sizes and disciplines opts resolve to.
func (p *Printer) Kernels(ks []suite.Kernel, opts suite.Options) {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFAMILY\tSIZE\tDISCIPLINE\tPRIMED")
	for _, k := range ks {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%t\n", k.Name, k.Family, k.SizeFor(opts), k.DisciplineFor(opts), k.Primes)
	}
	tw.Flush()
}

// History prints stored summaries, newest first.
func (p *Printer) History(entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(p.w, "No history recorded.")
		return
	}
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tRUN\tKERNEL\tTAG\tSIZE\tMEAN\tSAMPLES")
	for _, e := range entries {
		mean := time.Duration(e.MeanNs).String()
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%d\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"), e.RunID, e.Kernel, e.Tag, e.Size, mean, e.Samples)
	}
	tw.Flush()
}
