package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/winside-retail/backoffice/internal/auth"
	"github.com/winside-retail/backoffice/internal/shared"
	"github.com/winside-retail/backoffice/internal/users"
	_ "github.com/winside-retail/backoffice/testing"
)

type stubSource struct {
	user *users.User
}

func (s *stubSource) FindByEmail(_ context.Context, brand, email string) (*users.User, error) {
	if s.user == nil || s.user.Brand != brand || s.user.Email != email {
		return nil, users.ErrNotFound
	}
	return s.user, nil
}

func approvedUser(t *testing.T, password string) *users.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &users.User{
		ID:           1,
		Email:        "user@winside.example",
		Name:         "User",
		Brand:        "insole",
		Role:         users.RoleUser,
		Status:       users.StatusApproved,
		PasswordHash: string(hashed),
	}
}

func newAuthHandler(t *testing.T, source auth.UserSource) (*auth.Handler, *shared.SessionManager) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = redisClient.Close() })
	sessionManager := shared.NewSessionManager(redisClient, "test_session", "secret", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrfsecret")
	handler := auth.NewHandler(nil, auth.NewService(source), sessionManager, csrfManager)
	return handler, sessionManager
}

func doLogin(t *testing.T, handler *auth.Handler, sessionManager *shared.SessionManager, body string) (*httptest.ResponseRecorder, *shared.Session) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	sess, err := sessionManager.Load(context.Background(), req)
	require.NoError(t, err)
	ctx := shared.ContextWithSession(req.Context(), sess)
	req = req.WithContext(ctx)

	res := httptest.NewRecorder()
	handler.Login(res, req)
	require.NoError(t, sessionManager.Commit(ctx, res, req, sess))
	return res, sess
}

func TestLoginSuccess(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, &stubSource{user: approvedUser(t, "correctpass")})

	res, sess := doLogin(t, handler, sessionManager,
		`{"brand":"insole","email":"user@winside.example","password":"correctpass"}`)

	require.Equal(t, http.StatusOK, res.Code)
	require.Equal(t, "1", sess.User())
	require.Equal(t, "user", sess.Role())
	require.Equal(t, "insole", sess.Brand())

	var payload struct {
		CSRFToken string `json:"csrf_token"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.CSRFToken)
	require.Equal(t, payload.CSRFToken, sess.Get(shared.CSRFSessionKey))
}

func TestLoginWrongPassword(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, &stubSource{user: approvedUser(t, "correctpass")})

	res, sess := doLogin(t, handler, sessionManager,
		`{"brand":"insole","email":"user@winside.example","password":"wrongpass!"}`)

	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.Empty(t, sess.User())
}

func TestLoginPendingUserRejected(t *testing.T) {
	user := approvedUser(t, "correctpass")
	user.Status = users.StatusPending
	handler, sessionManager := newAuthHandler(t, &stubSource{user: user})

	res, _ := doLogin(t, handler, sessionManager,
		`{"brand":"insole","email":"user@winside.example","password":"correctpass"}`)

	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLoginBrandScoped(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, &stubSource{user: approvedUser(t, "correctpass")})

	res, _ := doLogin(t, handler, sessionManager,
		`{"brand":"harican","email":"user@winside.example","password":"correctpass"}`)

	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLoginRotatesSessionID(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, &stubSource{user: approvedUser(t, "correctpass")})

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"brand":"insole","email":"user@winside.example","password":"correctpass"}`))
	req.Header.Set("Content-Type", "application/json")
	sess, err := sessionManager.Load(context.Background(), req)
	require.NoError(t, err)
	before := sess.ID

	ctx := shared.ContextWithSession(req.Context(), sess)
	res := httptest.NewRecorder()
	handler.Login(res, req.WithContext(ctx))

	require.Equal(t, http.StatusOK, res.Code)
	require.NotEqual(t, before, sess.ID)
}

func TestLogoutDestroysSession(t *testing.T) {
	handler, sessionManager := newAuthHandler(t, &stubSource{user: approvedUser(t, "correctpass")})

	_, sess := doLogin(t, handler, sessionManager,
		`{"brand":"insole","email":"user@winside.example","password":"correctpass"}`)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionManager.CookieName(), Value: sess.ID})
	loaded, err := sessionManager.Load(context.Background(), req)
	require.NoError(t, err)
	ctx := shared.ContextWithSession(req.Context(), loaded)

	res := httptest.NewRecorder()
	handler.Logout(res, req.WithContext(ctx))
	require.NoError(t, sessionManager.Commit(ctx, res, req, loaded))
	require.Equal(t, http.StatusOK, res.Code)

	// The redis entry is gone, so a reload yields an anonymous session.
	fresh, err := sessionManager.Load(context.Background(), req)
	require.NoError(t, err)
	require.Empty(t, fresh.User())
}
