package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"domainwatch/internal/config"
)

func tokenRouter(tokens []config.APIToken) *gin.Engine {
	router := gin.New()
	router.Use(APIToken(tokens))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(APITokenContextKey))
	})
	return router
}

func TestAPIToken(t *testing.T) {
	tokens := []config.APIToken{{Name: "ci", Token: "secret-token"}}

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"valid token", "Bearer secret-token", http.StatusOK},
		{"case-insensitive scheme", "bearer secret-token", http.StatusOK},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
		{"malformed header", "secret-token", http.StatusUnauthorized},
		{"wrong scheme", "Basic secret-token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("GET", "/test", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			tokenRouter(tokens).ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && w.Body.String() != "ci" {
				t.Errorf("token name in context = %q, want ci", w.Body.String())
			}
		})
	}
}

func TestAPIToken_NoTokensConfigured(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/test", nil)

	tokenRouter(nil).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("open API should allow unauthenticated requests, got %d", w.Code)
	}
}

func TestCronOrToken(t *testing.T) {
	tokens := []config.APIToken{{Name: "ci", Token: "secret-token"}}

	router := gin.New()
	router.Use(CronOrToken("cron-secret", tokens))
	router.POST("/check", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(APITokenContextKey))
	})

	tests := []struct {
		name       string
		cronHeader string
		authHeader string
		wantStatus int
		wantCaller string
	}{
		{"cron secret", "cron-secret", "", http.StatusOK, "cron"},
		{"wrong cron secret falls through to token auth", "wrong", "", http.StatusUnauthorized, ""},
		{"bearer token still works", "", "Bearer secret-token", http.StatusOK, "ci"},
		{"nothing", "", "", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest("POST", "/check", nil)
			if tt.cronHeader != "" {
				req.Header.Set("X-Cron-Secret", tt.cronHeader)
			}
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && w.Body.String() != tt.wantCaller {
				t.Errorf("caller = %q, want %q", w.Body.String(), tt.wantCaller)
			}
		})
	}
}

func TestCronOrToken_EmptySecretDisablesBypass(t *testing.T) {
	tokens := []config.APIToken{{Name: "ci", Token: "secret-token"}}

	router := gin.New()
	router.Use(CronOrToken("", tokens))
	router.POST("/check", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/check", nil)
	req.Header.Set("X-Cron-Secret", "")

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("empty configured secret must not allow bypass, got %d", w.Code)
	}
}
