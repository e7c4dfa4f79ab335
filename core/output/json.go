package output

import (
	"encoding/json"
	"io"

	"cloudcart/internal/errors"
)

// JSONFormatter writes the result as a single JSON document
type JSONFormatter struct {
	Indent string
}

// Format implements Formatter
func (f *JSONFormatter) Format() Format { return FormatJSON }

// Render implements Formatter
func (f *JSONFormatter) Render(w io.Writer, result *Result) error {
	if err := validate(result); err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", f.Indent)
	if err := enc.Encode(result); err != nil {
		return errors.Wrap(errors.TypeInternal, "failed to encode report", err)
	}
	return nil
}
