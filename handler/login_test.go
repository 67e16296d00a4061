package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func register(t *testing.T, s *testServer, username, password string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/register", RegisterRequest{Username: username, Password: password}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func login(t *testing.T, s *testServer, username, password string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/login", LoginRequest{Username: username, Password: password}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[LoginResponse](t, w).Token
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t, sampleGraph(t))
	register(t, s, "alice", "secret123")

	w := s.do(t, http.MethodPost, "/api/register", RegisterRequest{Username: "alice", Password: "another1"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodPost, "/api/register", RegisterRequest{Username: "bob", Password: "123"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/login", LoginRequest{Username: "alice", Password: "wrong-pass"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/login", LoginRequest{Username: "nobody", Password: "secret123"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := login(t, s, "alice", "secret123")
	require.NotEmpty(t, token)

	w = s.do(t, http.MethodGet, "/api/me", nil, map[string]string{"Authorization": "Bearer " + token})
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[map[string]interface{}](t, w)
	assert.Equal(t, "alice", me["username"])
}

func TestMeRequiresToken(t *testing.T) {
	s := newTestServer(t, sampleGraph(t))
	w := s.do(t, http.MethodGet, "/api/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/api/me", nil, map[string]string{"Authorization": "Bearer garbage"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExpiredToken(t *testing.T) {
	s := newTestServer(t, sampleGraph(t))
	register(t, s, "carol", "secret123")

	s.auth.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	token := login(t, s, "carol", "secret123")
	s.auth.now = time.Now

	w := s.do(t, http.MethodGet, "/api/me", nil, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// optional auth on the map endpoints still rejects a bad token
	w = s.do(t, http.MethodGet, "/api/nodes", nil, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTokenWithOtherAlgorithmRejected(t *testing.T) {
	s := newTestServer(t, sampleGraph(t))
	claims := &Claims{Username: "mallory", RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	w := s.do(t, http.MethodGet, "/api/me", nil, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouteSessionFollowsUser(t *testing.T) {
	s := newTestServer(t, sampleGraph(t))
	register(t, s, "dave", "secret123")
	token := login(t, s, "dave", "secret123")

	// the same user on two devices shares one current route
	first := map[string]string{"Authorization": "Bearer " + token, SessionHeader: "phone"}
	second := map[string]string{"Authorization": "Bearer " + token, SessionHeader: "laptop"}

	w := s.do(t, http.MethodPost, "/api/path/find", PathRequest{StartID: "Location A", EndID: "Location E"}, first)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/route/current", nil, second)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Location E", decode[Route](t, w).End)

	_, ok := s.sessions.Get("user:dave")
	assert.True(t, ok)
}
