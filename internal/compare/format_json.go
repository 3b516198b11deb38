package compare

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// JSONFormatter renders a comparison set for machine consumers. Descriptions
// hold transform specs and recommendation text, so HTML escaping is off.
type JSONFormatter struct {
	Pretty bool // indent two spaces and end with a newline
}

func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if jf.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(compSet); err != nil {
		return "", err
	}
	if !jf.Pretty {
		return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
	}
	return buf.String(), nil
}
