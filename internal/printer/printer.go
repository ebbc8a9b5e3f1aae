// Package printer renders search results to the configured output.
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/bethropolis/dir-grepper/internal/search"
	"github.com/fatih/color"
)

// Printer formats match and replace records. It never re-scans a line: the
// byte offsets carried by each result are enough to highlight the match.
type Printer struct {
	output      io.Writer
	count       int64
	useColors   bool
	jsonOutput  bool
	jsonStarted bool

	pathColor  *color.Color
	lineColor  *color.Color
	matchColor *color.Color
}

// New creates a Printer writing to stdout with colors enabled.
func New() *Printer {
	return &Printer{
		output:     os.Stdout,
		useColors:  true,
		pathColor:  color.New(color.FgCyan, color.Bold),
		lineColor:  color.New(color.FgGreen),
		matchColor: color.New(color.FgYellow, color.Bold),
	}
}

// WithOutput sets the output destination.
func (p *Printer) WithOutput(w io.Writer) *Printer {
	p.output = w
	return p
}

// WithColors enables or disables colored output.
func (p *Printer) WithColors(enabled bool) *Printer {
	p.useColors = enabled
	return p
}

// WithJSON enables JSON output mode.
func (p *Printer) WithJSON(enabled bool) *Printer {
	p.jsonOutput = enabled
	return p
}

// PrintResult renders one match.
func (p *Printer) PrintResult(res search.Result) {
	p.count++

	if p.jsonOutput {
		p.printJSON(res)
		return
	}

	prefix := res.Path
	if res.LineNumber > 0 {
		prefix = fmt.Sprintf("%s:%d", res.Path, res.LineNumber)
	}

	if !p.useColors {
		fmt.Fprintf(p.output, "%s:%s\n", prefix, res.Line)
		return
	}

	// Highlight only the matched span within the line.
	fmt.Fprintf(p.output, "%s:%s%s%s\n",
		p.pathColor.Sprint(prefix),
		res.Line[:res.Start],
		p.matchColor.Sprint(res.Line[res.Start:res.End]),
		res.Line[res.End:],
	)
}

// PrintReplace renders one file rewrite.
func (p *Printer) PrintReplace(out search.ReplaceOutcome) {
	p.count++

	if p.jsonOutput {
		p.printJSON(out)
		return
	}

	if p.useColors {
		fmt.Fprintf(p.output, "%s: %s\n",
			p.pathColor.Sprint(out.Path),
			p.lineColor.Sprintf("%d replacement(s) on %d line(s)", out.Replacements, out.Lines))
		return
	}
	fmt.Fprintf(p.output, "%s: %d replacement(s) on %d line(s)\n", out.Path, out.Replacements, out.Lines)
}

// printJSON streams entries as a lazily opened JSON array; Finalize closes
// it.
func (p *Printer) printJSON(v interface{}) {
	if !p.jsonStarted {
		fmt.Fprint(p.output, "[\n")
		p.jsonStarted = true
	} else {
		fmt.Fprint(p.output, ",\n")
	}
	data, err := json.MarshalIndent(v, "  ", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Fprintf(p.output, "  %s", data)
}

// Finalize completes any pending output (closing the JSON array).
func (p *Printer) Finalize() {
	if p.jsonOutput && p.jsonStarted {
		fmt.Fprint(p.output, "\n]\n")
	}
	if p.jsonOutput && !p.jsonStarted {
		fmt.Fprint(p.output, "[]\n")
	}
}

// GetCount returns the number of records printed.
func (p *Printer) GetCount() int64 {
	return p.count
}
