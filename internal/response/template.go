package response

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/secretwall/secretwall/internal/handler"
)

// Template creates an HTML response using html/template with 200 OK status.
// The template output is buffered before writing, so a failing template
// produces an error response instead of partial output.
func Template(tmpl *template.Template, data any) handler.Response {
	return TemplateWithStatus(tmpl, data, http.StatusOK)
}

// TemplateWithStatus creates a buffered HTML template response with a custom
// status code.
func TemplateWithStatus(tmpl *template.Template, data any, status int) handler.Response {
	if tmpl == nil {
		return nil
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return err
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, err := w.Write(buf.Bytes())
		return err
	}
}
