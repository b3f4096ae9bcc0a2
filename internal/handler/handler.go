package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"toiletadvisor/internal/auth"
	"toiletadvisor/internal/errors"
)

// SuccessResponse acknowledges a mutation.
type SuccessResponse struct {
	Success bool `json:"success"`
}

var success = SuccessResponse{Success: true}

// bind decodes and validates procedure input. Queries carry it as a JSON
// encoded "input" query parameter, mutations as the JSON request body.
func bind(c echo.Context, dst interface{}) error {
	req := c.Request()
	if req.Method == http.MethodGet {
		if raw := []byte(c.QueryParam("input")); len(raw) > 0 {
			if err := json.Unmarshal(raw, dst); err != nil {
				return decodeFailed(raw, dst, "invalid input")
			}
		}
	} else {
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			return badRequest("invalid request body")
		}
		req.Body = io.NopCloser(bytes.NewReader(raw))
		if err := c.Bind(dst); err != nil {
			return decodeFailed(raw, dst, "invalid request body")
		}
	}

	if err := c.Validate(dst); err != nil {
		var verr *errors.ValidationError
		if errors.As(errors.NewValidationError(err), &verr) {
			return invalid(verr)
		}
		return badRequest(err.Error())
	}
	return nil
}

// decodeFailed reports which fields had the wrong JSON type, falling back to
// msg for input that is not a JSON object at all.
func decodeFailed(raw []byte, dst interface{}, msg string) error {
	if verr := errors.NewDecodeError(raw, dst); verr != nil {
		return invalid(verr)
	}
	return badRequest(msg)
}

func invalid(verr *errors.ValidationError) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error:  verr.Error(),
		Code:   errors.CodeBadRequest,
		Fields: verr.Fields,
	})
}

func badRequest(msg string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: msg,
		Code:  errors.CodeBadRequest,
	})
}

// fail turns a service error into an HTTP error. Unexpected errors are logged
// and their details are not returned to the caller.
func fail(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode == http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// session returns the caller's session. Routes using it sit behind auth.RequireSession.
func session(c echo.Context) auth.Session {
	s, _ := auth.SessionFromContext(c.Request().Context())
	return s
}
