package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/jobscout/jobscout/backend/go-services/internal/sessions"
)

// fakeToken implements Token
type fakeToken struct {
	data map[string]interface{}
}

func (t *fakeToken) Claims(v interface{}) error {
	if mm, ok := v.(*map[string]interface{}); ok {
		*mm = t.data
		return nil
	}
	return fmt.Errorf("unsupported claims type")
}

// fakeVerifier accepts any token starting with "good".
type fakeVerifier struct{}

func (f *fakeVerifier) Verify(ctx context.Context, raw string) (Token, error) {
	if len(raw) >= 4 && raw[:4] == "good" {
		return &fakeToken{data: map[string]interface{}{"sub": "user1", "email": "test@example.com"}}, nil
	}
	return nil, fmt.Errorf("invalid token")
}

type brokenChecker struct{}

func (brokenChecker) IsRevoked(context.Context, string) (bool, error) {
	return false, fmt.Errorf("redis down")
}

func serve(t *testing.T, mw gin.HandlerFunc, header string) *httptest.ResponseRecorder {
	t.Helper()
	g := gin.New()
	g.GET("/", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"sub": Subject(c)})
	})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	return rw
}

func TestAuthMiddleware_NoHeader(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, serve(t, AuthMiddleware(&fakeVerifier{}), "").Code)
}

func TestAuthMiddleware_InvalidHeader(t *testing.T) {
	require.Equal(t, http.StatusUnauthorized, serve(t, AuthMiddleware(&fakeVerifier{}), "BadHeader").Code)
	require.Equal(t, http.StatusUnauthorized, serve(t, AuthMiddleware(&fakeVerifier{}), "Bearer ").Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	rw := serve(t, AuthMiddleware(&fakeVerifier{}), "Bearer goodtoken")
	require.Equal(t, http.StatusOK, rw.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rw.Body.Bytes(), &got))
	require.Equal(t, "user1", got["sub"])
}

func TestAuthMiddleware_RejectsBlacklistedToken(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	bl := sessions.NewBlacklist(redis.NewClient(&redis.Options{Addr: m.Addr()}))

	token := "good-but-revoked"
	require.NoError(t, bl.Revoke(context.Background(), token, 5*time.Second))

	require.Equal(t, http.StatusUnauthorized, serve(t, AuthMiddleware(&fakeVerifier{}, bl), "Bearer "+token).Code)
	require.Equal(t, http.StatusOK, serve(t, AuthMiddleware(&fakeVerifier{}, bl), "Bearer goodtoken").Code)
}

func TestAuthMiddleware_CheckerErrorIsSkipped(t *testing.T) {
	require.Equal(t, http.StatusOK, serve(t, AuthMiddleware(&fakeVerifier{}, brokenChecker{}, nil), "Bearer goodtoken").Code)
}

func TestOptionalAuth(t *testing.T) {
	rw := serve(t, OptionalAuth(&fakeVerifier{}), "")
	require.Equal(t, http.StatusOK, rw.Code)
	require.JSONEq(t, `{"sub":""}`, rw.Body.String())

	rw = serve(t, OptionalAuth(&fakeVerifier{}), "Bearer goodtoken")
	require.Equal(t, http.StatusOK, rw.Code)
	require.JSONEq(t, `{"sub":"user1"}`, rw.Body.String())

	require.Equal(t, http.StatusUnauthorized, serve(t, OptionalAuth(&fakeVerifier{}), "Bearer nope").Code)
}
