package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"projectdesk/internal/core/config"
	resp "projectdesk/internal/transport/http/response"
)

func recaptchaEngine(cfg config.Recaptcha) *gin.Engine {
	gin.SetMode(gin.TestMode)
	e := gin.New()
	e.POST("/guarded", Recaptcha(cfg, zap.NewNop()), func(c *gin.Context) {
		resp.OK(c, nil)
	})
	return e
}

func postGuarded(e *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
	if token != "" {
		req.Header.Set("X-Recaptcha-Token", token)
	}
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestRecaptchaDisabledPassesThrough(t *testing.T) {
	e := recaptchaEngine(config.Recaptcha{})
	w := postGuarded(e, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecaptchaTokenRequired(t *testing.T) {
	e := recaptchaEngine(config.Recaptcha{SecretKey: "secret"})
	w := postGuarded(e, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "recaptcha token is required")
}

func TestRecaptchaTokenTooShort(t *testing.T) {
	e := recaptchaEngine(config.Recaptcha{SecretKey: "secret"})
	w := postGuarded(e, "short")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid recaptcha token format")
}

func TestRecaptchaVerifyOutcomes(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"success", `{"success":true,"score":0.9}`, http.StatusOK},
		{"failed", `{"success":false,"error-codes":["invalid-input-response"]}`, http.StatusBadRequest},
		{"low score", `{"success":true,"score":0.1}`, http.StatusForbidden},
		{"no score v2", `{"success":true}`, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verify := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tc.body))
			}))
			defer verify.Close()

			e := recaptchaEngine(config.Recaptcha{
				SecretKey: "secret",
				VerifyURL: verify.URL,
				MinScore:  0.3,
			})
			w := postGuarded(e, "a-token-long-enough-to-pass-shape-check")
			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}
