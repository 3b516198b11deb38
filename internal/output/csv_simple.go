package output

import (
	"bytes"
	"encoding/csv"

	"github.com/laofangxose/au-finance-calculators/internal/domain"
)

// CSVSummarizer flattens the result into section,item,value rows.
// Money values are unformatted so spreadsheets can sum them.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"section", "item", "value"}); err != nil {
		return nil, err
	}

	ok := report.Result != nil && report.Result.OK
	if err := w.Write([]string{"result", "ok", yesNo(ok)}); err != nil {
		return nil, err
	}

	for _, s := range sections(report) {
		for _, r := range s.Rows {
			if err := w.Write([]string{s.Title, r.Label, r.raw()}); err != nil {
				return nil, err
			}
		}
	}

	var issues []domain.ValidationIssue
	if report.Result != nil {
		issues = report.Result.ValidationIssues
	}
	for _, issue := range issues {
		if err := w.Write([]string{string(issue.Severity), issue.Code, issue.Message}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
