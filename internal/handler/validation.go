package handler

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/labstack/echo/v4"
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

type usernameReq struct {
	Username string `json:"username"`
}

// ValidateUsername answers the signup form's live username check.
func (h *AuthHandler) ValidateUsername(c echo.Context) error {
	var req usernameReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "Only letters or numbers")
	}
	if req.Username == "" || !usernameRe.MatchString(req.Username) {
		return errJSON(c, http.StatusBadRequest, "Only letters or numbers")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	taken, err := h.Users.UsernameExists(ctx, req.Username)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while checking the username")
	}
	if taken {
		return errJSON(c, http.StatusBadRequest, "Username is unavailable")
	}
	return okJSON(c, http.StatusOK, nil)
}
