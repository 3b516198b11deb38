package output

import (
	"bytes"
	"fmt"
	"strings"
)

// MarkdownFormatter renders the result as GitHub-flavoured markdown tables
type MarkdownFormatter struct{}

func (m MarkdownFormatter) Name() string { return "markdown" }

func (m MarkdownFormatter) Format(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	out := report.Result

	fmt.Fprintf(&buf, "# Novated Lease Report: %s\n\n", escapeMarkdown(report.ScenarioName))
	if out == nil || !out.OK {
		buf.WriteString("**Result:** invalid scenario\n\n")
	} else {
		buf.WriteString("**Result:** ok\n\n")
	}

	for _, s := range sections(report) {
		fmt.Fprintf(&buf, "## %s\n\n", s.Title)
		buf.WriteString("| Item | Value |\n")
		buf.WriteString("| --- | ---: |\n")
		for _, r := range s.Rows {
			fmt.Fprintf(&buf, "| %s | %s |\n", escapeMarkdown(r.Label), escapeMarkdown(r.display()))
		}
		buf.WriteString("\n")
	}

	if out == nil {
		return buf.Bytes(), nil
	}

	if len(out.ValidationIssues) > 0 {
		buf.WriteString("## Validation\n\n")
		for _, issue := range out.ValidationIssues {
			fmt.Fprintf(&buf, "- **%s** `%s`: %s\n", issue.Severity, issue.Code, escapeMarkdown(issue.Message))
		}
		buf.WriteString("\n")
	}

	if len(out.Assumptions) > 0 {
		buf.WriteString("## Assumptions\n\n")
		buf.WriteString("| Assumption | Value | Source |\n")
		buf.WriteString("| --- | --- | --- |\n")
		for _, a := range out.Assumptions {
			fmt.Fprintf(&buf, "| %s | %s | %s |\n",
				escapeMarkdown(a.Label), escapeMarkdown(formatValue(a.Value)), escapeMarkdown(a.Source))
		}
		buf.WriteString("\n")
	}

	if len(out.InferredParameters) > 0 {
		buf.WriteString("## Inferred Parameters\n\n")
		for _, p := range out.InferredParameters {
			fmt.Fprintf(&buf, "- `%s` = %s (%s, %s confidence)\n", p.Key, escapeMarkdown(formatValue(p.DerivedValue)), p.Method, p.Confidence)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// escapeMarkdown keeps table cells intact
func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
