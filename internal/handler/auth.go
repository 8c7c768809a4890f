package handler

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/anime-dimension/api/internal/model"
	"github.com/anime-dimension/api/internal/queue"
	"github.com/anime-dimension/api/internal/utils"
)

// MailPublisher enqueues outbound mail. Failures must never fail the
// request that triggered them.
type MailPublisher interface {
	PublishMailRequested(ctx context.Context, event queue.MailRequestedEvent) error
}

// AuthHandler serves signup-token issuance and account creation.
type AuthHandler struct {
	Users             UserStore
	Mail              MailPublisher // nil disables mail dispatch
	SignupTokenSecret string
}

func NewAuthHandler(u UserStore, mail MailPublisher, signupTokenSecret string) *AuthHandler {
	return &AuthHandler{Users: u, Mail: mail, SignupTokenSecret: signupTokenSecret}
}

// ----- DTOs -----

type signupTokenReq struct {
	RecaptchaResponse string `json:"recaptcha_response"`
	Email             string `json:"email"`
	Username          string `json:"username"`
}

type signupTokenData struct {
	Token    string `json:"token"`
	Duration int64  `json:"duration"`
}

type signupReq struct {
	Apf        string `json:"apf"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Request    string `json:"request"`
	TosPpAgree bool   `json:"tos_pp_agree"`
	Username   string `json:"username"`
}

// SignupToken issues a short-lived token gating the signup form.
// Recaptcha verification is left to the edge; the token itself is what
// the signup page needs. When the client already knows the address, a
// welcome mail is enqueued.
func (h *AuthHandler) SignupToken(c echo.Context) error {
	var req signupTokenReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "Invalid request body")
	}

	tok, err := utils.NewSignupToken(h.SignupTokenSecret, time.Hour)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "Could not issue signup token")
	}

	if h.Mail != nil && req.Email != "" {
		name := req.Username
		if name == "" {
			name = req.Email
		}
		event := queue.MailRequestedEvent{
			ToName:  name,
			ToEmail: req.Email,
			Subject: "Welcome to Anime Dimension",
			Body:    "Thanks for signing up. Your account is almost ready.",
		}
		if err := h.Mail.PublishMailRequested(c.Request().Context(), event); err != nil {
			log.Printf("signup-token: mail publish failed: %v", err)
		}
	}

	return okJSON(c, http.StatusOK, []signupTokenData{{Token: tok.Token, Duration: int64(tok.Duration)}})
}

// Signup creates a new account.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "Invalid request body")
	}
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if username == "" || email == "" || req.Password == "" {
		return errJSON(c, http.StatusBadRequest, "Username, email, and password are required")
	}
	if !req.TosPpAgree {
		return errJSON(c, http.StatusBadRequest, "You must agree to the terms of service and privacy policy")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	taken, err := h.Users.UsernameOrEmailExists(ctx, username, email)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while creating the account")
	}
	if taken {
		return errJSON(c, http.StatusBadRequest, "Username or email already exists")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while creating the account")
	}

	userID, err := h.newUserID(ctx)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while creating the account")
	}

	user := model.User{UserID: userID, Username: username, Email: email, PasswordHash: hash}
	if err := h.Users.Create(ctx, user); err != nil {
		return errJSON(c, http.StatusInternalServerError, "An error occurred while creating the account")
	}

	log.Printf("signup: created user %s (%s)", userID, username)
	return okJSON(c, http.StatusOK, nil)
}

// newUserID draws random public ids until a free one is found. Ids are
// numeric strings, 6 to 10 digits, padded to the minimum length.
func (h *AuthHandler) newUserID(ctx context.Context) (string, error) {
	for {
		id := strconv.FormatInt(rand.Int63n(1_000_000_000), 10)
		if len(id) < 6 {
			id = strings.Repeat("0", 6-len(id)) + id
		}
		taken, err := h.Users.UserIDExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !taken {
			return id, nil
		}
	}
}
