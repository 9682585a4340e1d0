package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/colabri-doc/internal/model"
)

// ErrorHandler replaces echo's default so that routing errors (404, 405) and
// anything a handler returns share the ErrorResponse shape.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	} else {
		slog.Error("Unhandled handler error", "method", c.Request().Method, "path", c.Path(), "error", err)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(code)
	} else {
		writeErr = c.JSON(code, model.NewError(code, msg))
	}
	if writeErr != nil {
		slog.Error("Failed to write error response", "error", writeErr)
	}
}
