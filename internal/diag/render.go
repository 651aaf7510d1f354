package diag

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/aledsdavies/betlang/internal/source"
)

// ANSI color codes for the line-oriented renderer. Kept minimal —
// bold-red/yellow/cyan for error/warning/note — rather than pulling in a
// terminal-styling dependency for three constants.
const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[1;31m"
	colorYellow = "\x1b[1;33m"
	colorCyan   = "\x1b[1;36m"
	colorBold   = "\x1b[1m"
)

func (s Severity) color() string {
	switch s {
	case Error:
		return colorRed
	case Warning:
		return colorYellow
	default:
		return colorCyan
	}
}

// WriteLine renders a single diagnostic in the Rust/Clang-style
// line-oriented format used by the CLI and REPL by default, caret
// pointing at the offending column, grounded on the teacher parser's
// createCodeSnippet.
func WriteLine(w io.Writer, d Diagnostic, m *source.Map, color bool) {
	sev := d.Severity.String()
	kind := string(d.Kind)
	if color {
		fmt.Fprintf(w, "%s%s%s[%s]: %s\n", d.Severity.color(), sev, colorReset, kind, d.Message)
	} else {
		fmt.Fprintf(w, "%s[%s]: %s\n", sev, kind, d.Message)
	}
	fmt.Fprintf(w, "  --> %s\n", d.Primary)

	if m != nil {
		line := m.Line(d.Primary.Start.Line)
		fmt.Fprintf(w, "   |\n%3d | %s\n", d.Primary.Start.Line, line)
		fmt.Fprint(w, "   | ")
		if d.Primary.Start.Column > 0 && d.Primary.Start.Column <= len(line)+1 {
			fmt.Fprint(w, strings.Repeat(" ", d.Primary.Start.Column-1))
		}
		caretWidth := d.Primary.End.Column - d.Primary.Start.Column
		if caretWidth < 1 {
			caretWidth = 1
		}
		fmt.Fprintln(w, strings.Repeat("^", caretWidth))
	}

	if d.Remediation != "" {
		fmt.Fprintf(w, "   = help: %s\n", d.Remediation)
	}
}

// WriteAll renders every diagnostic on the bus in source order.
func WriteAll(w io.Writer, diags []Diagnostic, m *source.Map, color bool) {
	sorted := append([]Diagnostic(nil), diags...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Primary.Start.Offset < sorted[j].Primary.Start.Offset
	})
	for _, d := range sorted {
		WriteLine(w, d, m, color)
	}
}

// jsonDiagnostic is the wire shape for --format=json, one object per
// line (JSON-lines), matching the embedded-use boundary in spec §6.
type jsonDiagnostic struct {
	ID            string `json:"id"`
	Severity      string `json:"severity"`
	Kind          string `json:"kind"`
	Message       string `json:"message"`
	Primary       string `json:"primary"`
	Secondary     []string `json:"secondary,omitempty"`
	Remediation   string `json:"remediation,omitempty"`
	RemainingSecs float64  `json:"remaining_seconds,omitempty"`
}

// WriteJSONLines renders every diagnostic as one JSON object per line.
func WriteJSONLines(w io.Writer, diags []Diagnostic) error {
	enc := json.NewEncoder(w)
	for _, d := range diags {
		jd := jsonDiagnostic{
			ID:            d.ID,
			Severity:      d.Severity.String(),
			Kind:          string(d.Kind),
			Message:       d.Message,
			Primary:       d.Primary.String(),
			Remediation:   d.Remediation,
			RemainingSecs: d.RemainingSecs,
		}
		for _, s := range d.Secondary {
			jd.Secondary = append(jd.Secondary, s.String())
		}
		if err := enc.Encode(jd); err != nil {
			return err
		}
	}
	return nil
}
