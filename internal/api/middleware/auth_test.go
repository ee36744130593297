package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Biniljacobpro/nexcharge-sub001/internal/auth"
	"github.com/Biniljacobpro/nexcharge-sub001/internal/models"

	"github.com/gin-gonic/gin"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth.JwtSecret = []byte("test-secret")

	engine := gin.New()

	protected := engine.Group("/protected")
	protected.Use(Authenticate())
	protected.GET("/any", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": c.MustGet(CtxUserRole)})
	})

	adminOnly := engine.Group("/admin")
	adminOnly.Use(Authenticate())
	adminOnly.Use(Authorize(models.RoleAdmin))
	adminOnly.GET("/secret", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return engine
}

func TestAuthenticate(t *testing.T) {
	engine := setupTestRouter()

	validToken, err := auth.GenerateJWT("507f1f77bcf86cd799439011", "user@example.com", models.RoleEndUser, "")
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		expected   int
	}{
		{
			name:       "Missing header",
			authHeader: "",
			expected:   http.StatusUnauthorized,
		},
		{
			name:       "No bearer prefix",
			authHeader: validToken,
			expected:   http.StatusUnauthorized,
		},
		{
			name:       "Malformed token",
			authHeader: "Bearer not.a.token",
			expected:   http.StatusUnauthorized,
		},
		{
			name:       "Valid token",
			authHeader: "Bearer " + validToken,
			expected:   http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "/protected/any", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			if w.Code != tt.expected {
				t.Errorf("status = %d, expected %d", w.Code, tt.expected)
			}
		})
	}
}

func TestAuthorize(t *testing.T) {
	engine := setupTestRouter()

	tests := []struct {
		name     string
		role     string
		expected int
	}{
		{
			name:     "Admin allowed",
			role:     models.RoleAdmin,
			expected: http.StatusOK,
		},
		{
			name:     "End user forbidden",
			role:     models.RoleEndUser,
			expected: http.StatusForbidden,
		},
		{
			name:     "Franchise owner forbidden",
			role:     models.RoleFranchiseOwner,
			expected: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := auth.GenerateJWT("507f1f77bcf86cd799439011", "user@example.com", tt.role, "")
			if err != nil {
				t.Fatalf("failed to generate token: %v", err)
			}

			req, _ := http.NewRequest("GET", "/admin/secret", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			if w.Code != tt.expected {
				t.Errorf("status = %d, expected %d", w.Code, tt.expected)
			}
		})
	}
}
