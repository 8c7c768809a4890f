package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// okResponse and errResponse are the JSON envelope every API endpoint
// speaks: {status:"ok", data} on success, {status, msg} on failure.
// The anime endpoints predate the convention and use status "error"
// instead of "err"; the site's client code depends on both spellings.
type okResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type errResponse struct {
	Status string `json:"status"`
	Msg    string `json:"msg"`
}

func okJSON(c echo.Context, code int, data any) error {
	return c.JSON(code, okResponse{Status: "ok", Data: data})
}

func errJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, errResponse{Status: "err", Msg: msg})
}

func catalogErrJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, errResponse{Status: "error", Msg: msg})
}

// problemJSON is the RFC 7807 payload used for unexpected catalog
// query failures.
func problemJSON(c echo.Context, detail string) error {
	return c.JSON(http.StatusInternalServerError, map[string]any{
		"type":   "https://tools.ietf.org/html/rfc9110#section-15.6.1",
		"title":  "An error occurred while processing your request.",
		"status": http.StatusInternalServerError,
		"detail": detail,
	})
}
