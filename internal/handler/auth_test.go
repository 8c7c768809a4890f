package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anime-dimension/api/internal/model"
	"github.com/anime-dimension/api/internal/queue"
	"github.com/anime-dimension/api/internal/utils"
)

type recordingPublisher struct {
	events []queue.MailRequestedEvent
	err    error
}

func (p *recordingPublisher) PublishMailRequested(_ context.Context, e queue.MailRequestedEvent) error {
	p.events = append(p.events, e)
	return p.err
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestSignupTokenIssuesVerifiableToken(t *testing.T) {
	t.Parallel()
	h := NewAuthHandler(&fakeUserStore{}, nil, "test-secret")
	e := echo.New()

	rec := httptest.NewRecorder()
	require.NoError(t, h.SignupToken(e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup-token", `{}`), rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody(t, rec)
	list := resp["data"].([]any)
	require.Len(t, list, 1)
	entry := list[0].(map[string]any)
	assert.Equal(t, float64(3600), entry["duration"])
	assert.True(t, utils.ParseSignupToken("test-secret", entry["token"].(string)))
	assert.False(t, utils.ParseSignupToken("other-secret", entry["token"].(string)))
}

func TestSignupTokenPublishesWelcomeMail(t *testing.T) {
	t.Parallel()
	pub := &recordingPublisher{}
	h := NewAuthHandler(&fakeUserStore{}, pub, "test-secret")
	e := echo.New()

	rec := httptest.NewRecorder()
	body := `{"email":"new@example.com","username":"newbie"}`
	require.NoError(t, h.SignupToken(e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup-token", body), rec)))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, pub.events, 1)
	assert.Equal(t, "newbie", pub.events[0].ToName)
	assert.Equal(t, "new@example.com", pub.events[0].ToEmail)
	assert.Equal(t, "Welcome to Anime Dimension", pub.events[0].Subject)
}

func TestSignupTokenWithoutEmailSkipsMail(t *testing.T) {
	t.Parallel()
	pub := &recordingPublisher{}
	h := NewAuthHandler(&fakeUserStore{}, pub, "test-secret")
	e := echo.New()

	rec := httptest.NewRecorder()
	require.NoError(t, h.SignupToken(e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup-token", `{"username":"x"}`), rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, pub.events)
}

func TestSignup(t *testing.T) {
	t.Parallel()

	t.Run("missing fields", func(t *testing.T) {
		h := NewAuthHandler(&fakeUserStore{}, nil, "s")
		e := echo.New()
		rec := httptest.NewRecorder()
		body := `{"username":"alice","password":"pw"}`
		require.NoError(t, h.Signup(e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup", body), rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Username, email, and password are required", decodeBody(t, rec)["msg"])
	})

	t.Run("tos not agreed", func(t *testing.T) {
		h := NewAuthHandler(&fakeUserStore{}, nil, "s")
		e := echo.New()
		rec := httptest.NewRecorder()
		body := `{"username":"alice","email":"a@example.com","password":"pw"}`
		require.NoError(t, h.Signup(e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup", body), rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "You must agree to the terms of service and privacy policy", decodeBody(t, rec)["msg"])
	})

	t.Run("duplicate", func(t *testing.T) {
		users := &fakeUserStore{users: []model.User{{Username: "alice", Email: "a@example.com"}}}
		h := NewAuthHandler(users, nil, "s")
		e := echo.New()
		rec := httptest.NewRecorder()
		body := `{"username":"alice","email":"other@example.com","password":"pw","tos_pp_agree":true}`
		require.NoError(t, h.Signup(e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup", body), rec)))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Username or email already exists", decodeBody(t, rec)["msg"])
	})

	t.Run("success normalizes fields", func(t *testing.T) {
		users := &fakeUserStore{}
		h := NewAuthHandler(users, nil, "s")
		e := echo.New()
		rec := httptest.NewRecorder()
		body := `{"username":"  Bob  ","email":" Bob@Example.COM ","password":"hunter2","tos_pp_agree":true}`
		require.NoError(t, h.Signup(e.NewContext(jsonRequest(http.MethodPost, "/api/auth/signup", body), rec)))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ok", decodeBody(t, rec)["status"])

		require.Len(t, users.users, 1)
		u := users.users[0]
		assert.Equal(t, "Bob", u.Username)
		assert.Equal(t, "bob@example.com", u.Email)
		assert.True(t, utils.VerifyPassword("hunter2", u.PasswordHash))
		assert.GreaterOrEqual(t, len(u.UserID), 6)
		assert.LessOrEqual(t, len(u.UserID), 10)
		for _, r := range u.UserID {
			assert.Contains(t, "0123456789", string(r))
		}
	})
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	users := &fakeUserStore{users: []model.User{{Username: "taken"}}}
	h := NewAuthHandler(users, nil, "s")
	e := echo.New()

	cases := []struct {
		name     string
		username string
		code     int
		msg      string
	}{
		{"empty", "", http.StatusBadRequest, "Only letters or numbers"},
		{"symbols", "no way!", http.StatusBadRequest, "Only letters or numbers"},
		{"underscore", "snake_case", http.StatusBadRequest, "Only letters or numbers"},
		{"taken", "taken", http.StatusBadRequest, "Username is unavailable"},
		{"free", "fresh42", http.StatusOK, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			body := `{"username":"` + tc.username + `"}`
			require.NoError(t, h.ValidateUsername(e.NewContext(jsonRequest(http.MethodPost, "/api/validation/username", body), rec)))
			assert.Equal(t, tc.code, rec.Code)
			resp := decodeBody(t, rec)
			if tc.msg != "" {
				assert.Equal(t, "err", resp["status"])
				assert.Equal(t, tc.msg, resp["msg"])
			} else {
				assert.Equal(t, "ok", resp["status"])
			}
		})
	}
}
