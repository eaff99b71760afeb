package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nastya870/smetalab-sub001/internal/auth"
	"github.com/Nastya870/smetalab-sub001/internal/model"
)

const testSecret = "test-secret"

func signToken(t *testing.T, tenantID, userID uuid.UUID, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"tenant_id": tenantID.String(),
		"sub":       userID.String(),
		"role":      "manager",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func authTestRouter(captured *model.Principal) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Auth(auth.NewParser(testSecret)))
	router.GET("/probe", func(c *gin.Context) {
		principal, ok := MustPrincipal(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		*captured = principal
		c.Status(http.StatusOK)
	})
	return router
}

func TestAuthAcceptsValidToken(t *testing.T) {
	tenantID := uuid.New()
	userID := uuid.New()
	var captured model.Principal
	router := authTestRouter(&captured)

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, tenantID, userID, testSecret))
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, tenantID, captured.TenantID)
	assert.Equal(t, userID, captured.UserID)
	assert.Equal(t, "manager", captured.Role)
}

func TestAuthRejectsBadTokens(t *testing.T) {
	var captured model.Principal
	router := authTestRouter(&captured)

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"wrong secret":   "Bearer " + signToken(t, uuid.New(), uuid.New(), "other-secret"),
		"garbage":        "Bearer not.a.token",
	}
	for name, header := range cases {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(recorder, req)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code, name)
	}
}
