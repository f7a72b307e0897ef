package finder

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Format selects how a Result is rendered.
type Format string

const (
	FormatPlain      Format = "plain"
	FormatText       Format = "text"
	FormatJSON       Format = "json"
	FormatJSONPretty Format = "json-pretty"
	FormatCSV        Format = "csv"
	FormatHTML       Format = "html"
)

// ErrInvalidFormat is returned for output formats outside Formats().
var ErrInvalidFormat = errors.New("finder: invalid output format")

// Formats lists the supported output formats.
func Formats() []Format {
	return []Format{FormatPlain, FormatText, FormatJSON, FormatJSONPretty, FormatCSV, FormatHTML}
}

// ParseFormat validates a format name from user input.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q (valid formats: plain, text, json, json-pretty, csv, html)", ErrInvalidFormat, s)
}

// FormatOutput renders a Result in the requested format. Unsupported
// formats fail with ErrInvalidFormat and produce no output. An empty result
// renders a well-formed document in every format.
func FormatOutput(r *Result, format Format) (string, error) {
	switch format {
	case FormatPlain:
		return formatPlain(r), nil
	case FormatText:
		return formatText(r), nil
	case FormatJSON:
		return formatJSON(r)
	case FormatJSONPretty:
		out, err := formatJSON(r)
		if err != nil {
			return "", err
		}
		return colorizeJSON(out), nil
	case FormatCSV:
		return formatCSV(r)
	case FormatHTML:
		return formatHTML(r), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}
}

func formatPlain(r *Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "total_files=%d returned_files=%d excluded_files=%d access_denied_files=%d errors_found=%d max_depth=%d actual_depth=%d\n",
		r.TotalFiles, r.ReturnedFiles, r.ExcludedFiles, r.AccessDeniedFiles, r.ErrorsFound, r.MaxDepth, r.ActualDepth)
	for _, f := range r.Files {
		b.WriteString(f.Path)
		b.WriteByte('\n')
	}
	return b.String()
}

func formatText(r *Result) string {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	summary := tablewriter.NewWriter(&b)
	configureTable(summary)
	summary.Append([]string{"Total files", p.Sprintf("%d", r.TotalFiles)})
	summary.Append([]string{"Returned files", p.Sprintf("%d", r.ReturnedFiles)})
	summary.Append([]string{"Excluded files", p.Sprintf("%d", r.ExcludedFiles)})
	summary.Append([]string{"Access denied", p.Sprintf("%d", r.AccessDeniedFiles)})
	summary.Append([]string{"Errors found", p.Sprintf("%d", r.ErrorsFound)})
	summary.Append([]string{"Max depth", p.Sprintf("%d", r.MaxDepth)})
	summary.Append([]string{"Actual depth", p.Sprintf("%d", r.ActualDepth)})
	summary.Render()

	if len(r.Files) > 0 {
		b.WriteByte('\n')
		files := tablewriter.NewWriter(&b)
		configureTable(files)
		files.SetHeader([]string{"Name", "Size", "Modified", "Owner", "Group", "Perms", "Access", "Path"})
		for _, f := range r.Files {
			files.Append([]string{
				f.Name,
				p.Sprintf("%d", f.Size),
				f.Modified.Format(time.RFC3339),
				strconv.FormatUint(uint64(f.Owner), 10),
				strconv.FormatUint(uint64(f.Group), 10),
				f.Permissions,
				f.Access,
				f.Path,
			})
		}
		files.Render()
	}
	return b.String()
}

func configureTable(t *tablewriter.Table) {
	t.SetAutoWrapText(false)
	t.SetAutoFormatHeaders(true)
	t.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	t.SetCenterSeparator("")
	t.SetColumnSeparator("")
	t.SetRowSeparator("")
	t.SetHeaderLine(false)
	t.SetBorder(false)
	t.SetTablePadding("  ")
	t.SetNoWhiteSpace(true)
}

func formatJSON(r *Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("finder: encode result: %w", err)
	}
	return string(data), nil
}

func formatCSV(r *Result) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	header := []string{
		"file_path", "file_real_path", "file_name", "file_extension", "file_size",
		"file_access", "file_modified", "file_created", "file_owner", "file_group",
		"file_permissions",
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("finder: write csv: %w", err)
	}
	for _, f := range r.Files {
		row := []string{
			f.Path,
			f.RealPath,
			f.Name,
			f.Extension,
			strconv.FormatInt(f.Size, 10),
			f.Access,
			f.Modified.Format(time.RFC3339),
			f.Created.Format(time.RFC3339),
			strconv.FormatUint(uint64(f.Owner), 10),
			strconv.FormatUint(uint64(f.Group), 10),
			f.Permissions,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("finder: write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("finder: write csv: %w", err)
	}
	return b.String(), nil
}

func formatHTML(r *Result) string {
	var b strings.Builder
	b.WriteString("<ul>\n")
	counters := []struct {
		key   string
		value int
	}{
		{"total_files", r.TotalFiles},
		{"returned_files", r.ReturnedFiles},
		{"excluded_files", r.ExcludedFiles},
		{"access_denied_files", r.AccessDeniedFiles},
		{"errors_found", r.ErrorsFound},
		{"max_depth", r.MaxDepth},
		{"actual_depth", r.ActualDepth},
	}
	for _, c := range counters {
		fmt.Fprintf(&b, "  <li><strong>%s:</strong> %d</li>\n", c.key, c.value)
	}
	b.WriteString("</ul>\n")

	if len(r.Files) == 0 {
		b.WriteString("<p>List is empty</p>\n")
		return b.String()
	}

	b.WriteString("<table border='1'>\n<tr>")
	for _, h := range []string{"name", "path", "real_path", "extension", "size", "access", "modified", "created", "owner", "group", "permissions"} {
		fmt.Fprintf(&b, "<th>%s</th>", h)
	}
	b.WriteString("</tr>\n")
	for _, f := range r.Files {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%d</td><td>%d</td><td>%s</td></tr>\n",
			html.EscapeString(f.Name),
			html.EscapeString(f.Path),
			html.EscapeString(f.RealPath),
			html.EscapeString(f.Extension),
			f.Size,
			f.Access,
			f.Modified.Format(time.RFC3339),
			f.Created.Format(time.RFC3339),
			f.Owner,
			f.Group,
			f.Permissions,
		)
	}
	b.WriteString("</table>\n")
	return b.String()
}

var (
	jsonKeyLine = regexp.MustCompile(`^(\s*)("(?:[^"\\]|\\.)*")(: )(.*?)(,?)$`)
	jsonBare    = regexp.MustCompile(`^(\s*)(.*?)(,?)$`)

	jsonKeyColor     = color.New(color.FgCyan)
	jsonStringColor  = color.New(color.FgGreen)
	jsonNumberColor  = color.New(color.FgBlue)
	jsonLiteralColor = color.New(color.FgMagenta)
)

// colorizeJSON decorates indented JSON with ANSI colors, line by line. Color
// output is suppressed automatically when stdout is not a terminal.
func colorizeJSON(src string) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		if m := jsonKeyLine.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + jsonKeyColor.Sprint(m[2]) + m[3] + colorizeJSONValue(m[4]) + m[5]
			continue
		}
		if m := jsonBare.FindStringSubmatch(line); m != nil {
			lines[i] = m[1] + colorizeJSONValue(m[2]) + m[3]
		}
	}
	return strings.Join(lines, "\n")
}

func colorizeJSONValue(v string) string {
	switch {
	case v == "" || v == "{" || v == "}" || v == "[" || v == "]" || v == "{}" || v == "[]":
		return v
	case strings.HasPrefix(v, `"`):
		return jsonStringColor.Sprint(v)
	case v == "true" || v == "false" || v == "null":
		return jsonLiteralColor.Sprint(v)
	default:
		if c := v[0]; c == '-' || (c >= '0' && c <= '9') {
			return jsonNumberColor.Sprint(v)
		}
		return v
	}
}
