package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"task-ai-api/internal/domain/entity"
	"task-ai-api/internal/interfaces/http/middleware"
	"task-ai-api/pkg/utils"
)

type memUserRepo struct {
	byID map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{byID: map[string]*entity.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	email = entity.NormalizeEmail(email)
	for _, u := range r.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) UpdateLastLogin(_ context.Context, id string) error {
	if u, ok := r.byID[id]; ok {
		now := time.Now()
		u.LastLoginAt = &now
	}
	return nil
}

func (r *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, err := r.GetByEmail(ctx, email)
	return u != nil, err
}

type memTokenStore struct {
	revoked map[string]time.Duration
}

func (s *memTokenStore) Revoke(_ context.Context, jti string, ttl time.Duration) (bool, error) {
	if jti == "" || ttl <= 0 {
		return true, nil
	}
	if _, ok := s.revoked[jti]; ok {
		return false, nil
	}
	s.revoked[jti] = ttl
	return true, nil
}

// racingTokenStore 模拟另一个请求在 IsRevoked 与 Revoke 之间抢先注销了同一 jti
type racingTokenStore struct {
	memTokenStore
}

func (s *racingTokenStore) IsRevoked(context.Context, string) (bool, error) {
	return false, nil
}

func (s *racingTokenStore) Revoke(_ context.Context, jti string, _ time.Duration) (bool, error) {
	s.revoked[jti] = time.Hour
	return false, nil
}

func (s *memTokenStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := s.revoked[jti]
	return ok, nil
}

var testAuthConfig = middleware.AuthConfig{
	Secret:     "test-secret",
	Issuer:     "task-ai-test",
	AccessTTL:  15 * time.Minute,
	RefreshTTL: time.Hour,
}

type authEnvelope struct {
	Message string `json:"message"`
	Data    struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		User        struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	} `json:"data"`
}

func newAuthRouter() (*gin.Engine, *memUserRepo, *memTokenStore) {
	users := newMemUserRepo()
	tokens := &memTokenStore{revoked: map[string]time.Duration{}}
	h := NewAuthHandler(testAuthConfig, users, tokens)
	userHandler := NewUserHandler(users)

	r := gin.New()
	auth := r.Group("/v1/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/refresh", h.RefreshToken)
	auth.POST("/logout", h.Logout)
	r.GET("/v1/users/me", middleware.Auth(testAuthConfig), userHandler.GetMe)
	return r, users, tokens
}

func refreshCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == refreshCookieName {
			return c
		}
	}
	t.Fatalf("refresh cookie not set")
	return nil
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	r, users, _ := newAuthRouter()

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"short password", `{"email":"a@example.com","password":"12345","confirm_password":"12345"}`, http.StatusBadRequest},
		{"mismatch", `{"email":"a@example.com","password":"123456","confirm_password":"654321"}`, http.StatusBadRequest},
		{"bad email", `{"email":"not-an-email","password":"123456","confirm_password":"123456"}`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performRequest(r, http.MethodPost, "/v1/auth/register", tc.body)
			if w.Code != tc.status {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
		})
	}
	if len(users.byID) != 0 {
		t.Fatalf("no user should be created")
	}
}

func TestAuthHandler_RegisterLoginAndMe(t *testing.T) {
	r, users, _ := newAuthRouter()

	w := performRequest(r, http.MethodPost, "/v1/auth/register", `{"email":"Alice@Example.com","password":"secret1","confirm_password":"secret1","name":"Alice"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", w.Code, w.Body.String())
	}
	var reg authEnvelope
	decodeBody(t, w, &reg)
	if reg.Data.User.Email != "alice@example.com" || reg.Data.AccessToken == "" {
		t.Fatalf("unexpected register response: %+v", reg.Data)
	}
	if reg.Data.ExpiresIn != 900 {
		t.Fatalf("expires_in = %d", reg.Data.ExpiresIn)
	}
	cookie := refreshCookie(t, w.Result())
	if !cookie.HttpOnly || cookie.Path != refreshCookiePath {
		t.Fatalf("unexpected cookie attributes: %+v", cookie)
	}

	w = performRequest(r, http.MethodPost, "/v1/auth/register", `{"email":"alice@example.com","password":"secret1","confirm_password":"secret1"}`)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate register status = %d", w.Code)
	}

	w = performRequest(r, http.MethodPost, "/v1/auth/login", `{"email":"alice@example.com","password":"wrong-pass"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password status = %d", w.Code)
	}

	w = performRequest(r, http.MethodPost, "/v1/auth/login", `{"email":"ALICE@example.com","password":"secret1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", w.Code, w.Body.String())
	}
	var login authEnvelope
	decodeBody(t, w, &login)
	if users.byID[login.Data.User.ID].LastLoginAt == nil {
		t.Fatalf("last login not recorded")
	}

	req := performAuthorized(r, "/v1/users/me", login.Data.AccessToken)
	if req.Code != http.StatusOK {
		t.Fatalf("me status = %d, body = %s", req.Code, req.Body.String())
	}
	var me struct {
		Data struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"data"`
	}
	decodeBody(t, req, &me)
	if me.Data.ID != login.Data.User.ID {
		t.Fatalf("me returned %q, want %q", me.Data.ID, login.Data.User.ID)
	}
}

func TestAuthHandler_RefreshRotatesAndLogoutRevokes(t *testing.T) {
	r, _, tokens := newAuthRouter()

	w := performRequest(r, http.MethodPost, "/v1/auth/register", `{"email":"bob@example.com","password":"secret1","confirm_password":"secret1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d", w.Code)
	}
	first := refreshCookie(t, w.Result())

	w = performRequest(r, http.MethodPost, "/v1/auth/refresh", "", first)
	if w.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, body = %s", w.Code, w.Body.String())
	}
	second := refreshCookie(t, w.Result())
	if len(tokens.revoked) != 1 {
		t.Fatalf("old refresh token should be revoked, got %d entries", len(tokens.revoked))
	}

	w = performRequest(r, http.MethodPost, "/v1/auth/refresh", "", first)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("reusing a rotated refresh token should fail, got %d", w.Code)
	}

	w = performRequest(r, http.MethodPost, "/v1/auth/logout", "", second)
	if w.Code != http.StatusOK {
		t.Fatalf("logout status = %d", w.Code)
	}
	if cleared := refreshCookie(t, w.Result()); cleared.MaxAge >= 0 {
		t.Fatalf("logout should expire the cookie, got MaxAge %d", cleared.MaxAge)
	}

	w = performRequest(r, http.MethodPost, "/v1/auth/refresh", "", second)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh after logout should fail, got %d", w.Code)
	}
}

func TestAuthHandler_RefreshRejectsAccessTokenAndMissingCookie(t *testing.T) {
	r, _, _ := newAuthRouter()

	if w := performRequest(r, http.MethodPost, "/v1/auth/refresh", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("missing cookie status = %d", w.Code)
	}

	jwt := utils.NewJWTManager(testAuthConfig.Secret, testAuthConfig.Issuer)
	access, _, err := jwt.GenerateToken("user-1", "u@example.com", utils.TokenTypeAccess, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	w := performRequest(r, http.MethodPost, "/v1/auth/refresh", "", &http.Cookie{Name: refreshCookieName, Value: access})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("access token used as refresh token should fail, got %d", w.Code)
	}
}

func performAuthorized(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_RefreshLosingRevokeRaceIsRejected(t *testing.T) {
	users := newMemUserRepo()
	tokens := &racingTokenStore{memTokenStore{revoked: map[string]time.Duration{}}}
	h := NewAuthHandler(testAuthConfig, users, tokens)

	r := gin.New()
	r.POST("/v1/auth/register", h.Register)
	r.POST("/v1/auth/refresh", h.RefreshToken)

	w := performRequest(r, http.MethodPost, "/v1/auth/register", `{"email":"carol@example.com","password":"secret1","confirm_password":"secret1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d", w.Code)
	}
	cookie := refreshCookie(t, w.Result())

	w = performRequest(r, http.MethodPost, "/v1/auth/refresh", "", cookie)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("refresh that lost the revoke race should fail, got %d (%s)", w.Code, w.Body.String())
	}
	var body errorEnvelope
	decodeBody(t, w, &body)
	if body.Error == nil || body.Error.ErrorCode != "2004" {
		t.Fatalf("expected token revoked error code, got %s", w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == refreshCookieName {
			t.Fatalf("no new refresh cookie may be issued")
		}
	}
}

func TestAuthHandler_ErrorCodes(t *testing.T) {
	r, _, _ := newAuthRouter()

	w := performRequest(r, http.MethodPost, "/v1/auth/register", `{"email":"dave@example.com","password":"secret1","confirm_password":"secret1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register status = %d", w.Code)
	}

	cases := []struct {
		name    string
		path    string
		body    string
		status  int
		code    string
		message string
	}{
		{"short password", "/v1/auth/register", `{"email":"e@example.com","password":"12345","confirm_password":"12345"}`, http.StatusBadRequest, "4002", "password must be at least 6 characters"},
		{"mismatch", "/v1/auth/register", `{"email":"e@example.com","password":"123456","confirm_password":"654321"}`, http.StatusBadRequest, "4002", "passwords do not match"},
		{"malformed body", "/v1/auth/register", `{`, http.StatusBadRequest, "1001", "invalid request body"},
		{"duplicate email", "/v1/auth/register", `{"email":"dave@example.com","password":"secret1","confirm_password":"secret1"}`, http.StatusConflict, "1005", "email already registered"},
		{"wrong password", "/v1/auth/login", `{"email":"dave@example.com","password":"nope-nope"}`, http.StatusUnauthorized, "1002", "invalid email or password"},
		{"missing cookie", "/v1/auth/refresh", "", http.StatusUnauthorized, "2003", "token missing"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performRequest(r, http.MethodPost, tc.path, tc.body)
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.status, w.Body.String())
			}
			var body errorEnvelope
			decodeBody(t, w, &body)
			if body.Message != tc.message || body.Error == nil || body.Error.ErrorCode != tc.code {
				t.Fatalf("unexpected error body: %s", w.Body.String())
			}
		})
	}
}
