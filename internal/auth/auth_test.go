package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"crm-backend/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() *Manager {
	return NewManager(config.AuthConfig{
		AdminUser:       "pietro",
		AdminPassword:   "secret",
		SecretKey:       "test-key",
		TokenTTLMinutes: 60,
	})
}

func TestLogin(t *testing.T) {
	m := newManager()

	token, err := m.Login("pietro", "secret")
	require.NoError(t, err)

	user, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "pietro", user)

	_, err = m.Login("pietro", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))

	_, err = m.Login("other", "secret")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestParseToken_Expired(t *testing.T) {
	m := newManager()
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }

	token, err := m.IssueToken("pietro")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestParseToken_WrongKeyOrMethod(t *testing.T) {
	m := newManager()

	other := NewManager(config.AuthConfig{AdminUser: "pietro", AdminPassword: "secret", SecretKey: "other-key"})
	token, err := other.IssueToken("pietro")
	require.NoError(t, err)
	_, err = m.ParseToken(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "pietro",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.ParseToken(unsigned)
	assert.True(t, errors.Is(err, ErrInvalidToken))

	_, err = m.ParseToken("garbage")
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newManager()

	r := gin.New()
	r.GET("/me", m.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": c.GetString(UserKey)})
	})

	token, err := m.IssueToken("pietro")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.JSONEq(t, `{"user":"pietro"}`, w.Body.String())
			} else {
				assert.JSONEq(t, `{"error":"No autorizado"}`, w.Body.String())
			}
		})
	}
}
