// Package report renders solve results for terminals and pipes: the
// iteration log as a table with method-specific columns followed by a
// summary, or the whole result as JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/copyleftdev/rootfinder/internal/rootfind"
)

// Format selects the output encoding.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat accepts "table" and "json", case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table or json)", s)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Number formats a value for a table cell.
func Number(v float64) string {
	return strconv.FormatFloat(v, 'g', 10, 64)
}

// Table renders log as a bordered table. The first column is the iteration
// index, the others come from Step.Fields. An empty log renders as "".
func Table(log rootfind.Log) string {
	if len(log) == 0 {
		return ""
	}

	headers := append([]string{"i"}, log.Columns()...)
	rows := make([][]string, 0, len(log))
	for _, s := range log {
		row := make([]string, 0, len(headers))
		row = append(row, strconv.Itoa(s.Iteration()))
		for _, f := range s.Fields() {
			row = append(row, Number(f.Value))
		}
		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}

// Summary is the closing block printed after the log.
func Summary(res *rootfind.Result) string {
	var b strings.Builder
	status := okStyle.Render("converged")
	if !res.Converged {
		status = warnStyle.Render(fmt.Sprintf("stopped after %d iterations without converging", res.MaxIterations))
	}
	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render(res.Method.Title()+":"), status)
	fmt.Fprintf(&b, "Estimated root = %s\n", Number(res.Root))
	fmt.Fprintf(&b, "Final error estimate = %s\n", Number(res.Error))
	fmt.Fprintf(&b, "Iterations = %d\n", res.Iterations)
	return b.String()
}

// Write renders res to w in the given format.
func Write(w io.Writer, res *rootfind.Result, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, res)
	}
	if t := Table(res.Log); t != "" {
		if _, err := fmt.Fprintf(w, "%s\n\n", t); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, Summary(res))
	return err
}

// failure is the JSON shape of a failed solve.
type failure struct {
	Error     string       `json:"error"`
	Method    string       `json:"method,omitempty"`
	Iteration int          `json:"iteration,omitempty"`
	Log       rootfind.Log `json:"log,omitempty"`
}

// WriteError renders a failed solve, including the iterations completed
// before the failure when err carries them.
func WriteError(w io.Writer, err error, format Format) error {
	f := failure{Error: err.Error()}
	if solveErr, ok := rootfind.AsError(err); ok {
		f.Method = string(solveErr.Method)
		f.Iteration = solveErr.Iteration
		f.Log = solveErr.Log
	}

	if format == FormatJSON {
		return writeJSON(w, f)
	}
	if t := Table(f.Log); t != "" {
		if _, werr := fmt.Fprintf(w, "%s\n\n", t); werr != nil {
			return werr
		}
	}
	_, werr := fmt.Fprintf(w, "%s %s\n", errStyle.Render("Error during method:"), f.Error)
	return werr
}

// MethodInfo describes a method for catalogues.
type MethodInfo struct {
	Name       rootfind.Method `json:"name"`
	Title      string          `json:"title"`
	Bracketing bool            `json:"bracketing"`
	Seeds      []string        `json:"seeds"`
}

// Catalogue lists every method in menu order.
func Catalogue() []MethodInfo {
	methods := rootfind.Methods()
	out := make([]MethodInfo, len(methods))
	for i, m := range methods {
		out[i] = MethodInfo{Name: m, Title: m.Title(), Bracketing: m.Bracketing(), Seeds: m.Seeds()}
	}
	return out
}

// WriteMethods renders the method catalogue.
func WriteMethods(w io.Writer, format Format) error {
	infos := Catalogue()
	if format == FormatJSON {
		return writeJSON(w, infos)
	}

	rows := make([][]string, len(infos))
	for i, m := range infos {
		kind := "open"
		if m.Bracketing {
			kind = "bracketing"
		}
		rows[i] = []string{strconv.Itoa(i + 1), string(m.Name), m.Title, kind, strings.Join(m.Seeds, ", ")}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers("#", "method", "title", "kind", "seeds").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
