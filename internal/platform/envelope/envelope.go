// Package envelope writes the {success, message, data, count} response shape
// shared by every endpoint.
package envelope

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medcore/medcore/internal/platform/apperr"
)

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Code    string      `json:"code,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Token   string      `json:"token,omitempty"`
}

func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func Created(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// Updated returns 200 with a message and the post-update row.
func Updated(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func Message(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

// List writes items with their count. A nil slice is written as [].
func List[T any](c echo.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return c.JSON(http.StatusOK, Response{Success: true, Count: &n, Data: items})
}

// Token writes a login response carrying the issued token in the body.
func Token(c echo.Context, message, token string, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data, Token: token})
}

// ErrorHandler returns an echo.HTTPErrorHandler that renders apperr kinds and
// echo HTTP errors as failure envelopes. Internal error details are hidden
// when production is true.
func ErrorHandler(logger zerolog.Logger, production bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := render(err, production)
		if status >= http.StatusInternalServerError {
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).
				Str("request_id", rid).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(status)
		} else {
			writeErr = c.JSON(status, body)
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("write error response")
		}
	}
}

func render(err error, production bool) (int, Response) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		}
		if he.Code >= http.StatusInternalServerError && production {
			msg = http.StatusText(he.Code)
		}
		return he.Code, Response{Success: false, Message: msg}
	}

	var ae *apperr.Error
	if errors.As(err, &ae) {
		status := ae.Kind.Status()
		msg := ae.Message
		if ae.Kind == apperr.KindInternal {
			if production || msg == "" {
				msg = "Internal server error"
			} else if ae.Err != nil {
				msg = ae.Error()
			}
		}
		return status, Response{Success: false, Message: msg, Code: ae.Code}
	}

	msg := "Internal server error"
	if !production {
		msg = err.Error()
	}
	return http.StatusInternalServerError, Response{Success: false, Message: msg}
}
