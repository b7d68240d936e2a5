package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"storefront/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrorHandler は全エラーを {error, details?} で返す。details は開発環境だけ
func ErrorHandler(lg *zap.Logger, development bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		body := ErrorResponse{Error: "internal server error"}
		var cause error

		var ee *echo.HTTPError
		if he, ok := usecase.AsHTTPError(err); ok {
			status = he.Status
			body.Error = he.Message
			cause = he.Cause()
		} else if errors.As(err, &ee) {
			status = ee.Code
			body.Error = fmt.Sprint(ee.Message)
			cause = ee.Internal
		} else {
			cause = err
		}

		if status >= http.StatusInternalServerError {
			lg.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.Error(err),
			)
		}
		if development && cause != nil {
			body.Details = cause.Error()
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			lg.Warn("write error response", zap.Error(err))
		}
	}
}

// writeError は共通のエラーハンドラに渡す
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	c.Echo().HTTPErrorHandler(err, c)
	return nil
}

// bindStrict は未知のキーを拒否して JSON を読む
func bindStrict(c echo.Context, dst any) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return usecase.Validation("invalid request body")
	}
	if dec.More() {
		return usecase.Validation("invalid request body")
	}
	return nil
}
