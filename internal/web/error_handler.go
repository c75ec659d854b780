package web

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/secretwall/secretwall/internal/handler"
	"github.com/secretwall/secretwall/internal/logger"
	"github.com/secretwall/secretwall/internal/response"
	"github.com/secretwall/secretwall/internal/router"
)

// errorPageData feeds the error template.
type errorPageData struct {
	Status  int
	Message string
}

// ErrorHandler renders failures as HTML error pages. Status codes come
// from the error when it carries one (router sentinels, response.HTTPError);
// everything else is a 500 with a generic message so internals never reach
// the client.
func ErrorHandler(log *slog.Logger, tmpl *template.Template) handler.ErrorHandler[*Context] {
	if log == nil {
		log = logger.Noop()
	}
	errTmpl := tmpl.Lookup("error.html")

	return func(ctx *Context, err error) {
		w := ctx.ResponseWriter()
		if ww, ok := w.(interface{ Written() bool }); ok && ww.Written() {
			log.ErrorContext(ctx, "error after response written", logger.Error(err))
			return
		}

		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, router.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, router.ErrMethodNotAllowed):
			status = http.StatusMethodNotAllowed
		default:
			var sc interface{ StatusCode() int }
			if errors.As(err, &sc) {
				status = sc.StatusCode()
			}
		}

		var pe router.PanicError
		if errors.As(err, &pe) {
			log.ErrorContext(ctx, "handler panic",
				slog.Any("value", pe.Value()),
				logger.Path(ctx.Request().URL.Path),
				slog.String("stack", string(pe.Stack())),
			)
		} else if status >= 500 {
			log.ErrorContext(ctx, "request error",
				logger.Error(err),
				logger.Method(ctx.Request().Method),
				logger.Path(ctx.Request().URL.Path),
				logger.Status(status),
			)
		}

		data := errorPageData{Status: status, Message: publicMessage(err, status)}
		if errTmpl != nil {
			if renderErr := response.TemplateWithStatus(errTmpl, data, status)(w, ctx.Request()); renderErr == nil {
				return
			}
		}
		http.Error(w, data.Message, status)
	}
}

// publicMessage picks a message safe to show the client.
func publicMessage(err error, status int) string {
	if status >= 500 {
		return http.StatusText(status)
	}
	if err != nil && err.Error() != "" {
		return err.Error()
	}
	return http.StatusText(status)
}
