// package formatter renders API resources as terminal tables, plain text, CSV, Markdown, JSON or YAML
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ListBackup-ai/listbackup-ai-sub002/internal/shared"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	FormatTable    = "table"
	FormatText     = "text"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

// Formats lists every output format in help-text order.
var Formats = []string{FormatTable, FormatText, FormatCSV, FormatMarkdown, FormatJSON, FormatYAML}

// ParseFormat normalizes a user supplied format name. Empty selects [FormatTable].
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "":
		return FormatTable, nil
	case "md":
		return FormatMarkdown, nil
	case "yml":
		return FormatYAML, nil
	case "txt":
		return FormatText, nil
	case FormatTable, FormatText, FormatCSV, FormatMarkdown, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown output format %q (want one of %s)",
			shared.ErrInvalidArgument, s, strings.Join(Formats, ", "))
	}
}

// Table is the tabular projection of a resource list.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	titleStyle  = lipgloss.NewStyle().Bold(true).MarginBottom(1)
)

// ToTable renders t as a bordered terminal table.
func ToTable(t *Table) []byte {
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(t.Headers...).
		Rows(t.Rows...)

	var buf bytes.Buffer
	if t.Title != "" {
		buf.WriteString(titleStyle.Render(t.Title))
		buf.WriteString("\n")
	}
	buf.WriteString(tbl.Render())
	buf.WriteString("\n")
	return buf.Bytes()
}

// ToText renders t as tab-aligned columns without decoration, suitable for piping to grep/awk.
func ToText(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, strings.Join(upper(t.Headers), "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write text table: %w", err)
	}
	return buf.Bytes(), nil
}

// ToCSV renders t as CSV with a header record.
func ToCSV(t *Table) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(t.Headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range t.Rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ToMarkdown renders t as a GitHub-flavored Markdown table, preceded by a heading when t has a title.
func ToMarkdown(t *Table) []byte {
	var buf bytes.Buffer

	if t.Title != "" {
		fmt.Fprintf(&buf, "## %s\n\n", t.Title)
	}
	if len(t.Rows) == 0 {
		buf.WriteString("_No results._\n")
		return buf.Bytes()
	}

	buf.WriteString("| " + strings.Join(escapeCells(t.Headers), " | ") + " |\n")
	sep := make([]string, len(t.Headers))
	for i := range sep {
		sep[i] = "---"
	}
	buf.WriteString("| " + strings.Join(sep, " | ") + " |\n")
	for _, row := range t.Rows {
		buf.WriteString("| " + strings.Join(escapeCells(row), " | ") + " |\n")
	}
	return buf.Bytes()
}

// ToJSON renders v as indented JSON.
func ToJSON(v any) ([]byte, error) {
	data, err := shared.MarshalJSON(v, true)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ToYAML renders v as YAML using the same keys as its JSON encoding.
//
// The value is encoded to JSON first and re-read as a YAML node tree, which keeps json tag names and
// field order.
func ToYAML(v any) ([]byte, error) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		return nil, fmt.Errorf("failed to encode JSON: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to convert to YAML: %w", err)
	}
	blockStyle(&doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode YAML: %w", err)
	}
	return buf.Bytes(), nil
}

// blockStyle clears the flow/quoted styles the JSON parse leaves on every node.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// Write renders to w in the given format. Tabular formats use t; JSON and YAML encode v, the raw resource.
func Write(w io.Writer, format string, t *Table, v any) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatTable, "":
		data = ToTable(t)
	case FormatText:
		data, err = ToText(t)
	case FormatCSV:
		data, err = ToCSV(t)
	case FormatMarkdown:
		data = ToMarkdown(t)
	case FormatJSON:
		data, err = ToJSON(v)
	case FormatYAML:
		data, err = ToYAML(v)
	default:
		return fmt.Errorf("%w: unknown output format %q", shared.ErrInvalidArgument, format)
	}
	if err != nil {
		return err
	}

	_, err = w.Write(data)
	return err
}

func upper(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = strings.ToUpper(s)
	}
	return out
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, "|", `\|`)
		out[i] = strings.ReplaceAll(c, "\n", " ")
	}
	return out
}
