package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"tedp_backend/internal/config"
	"tedp_backend/internal/model"
	"tedp_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func issueToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	user := &model.User{Email: "t@ecole.fr", Role: model.Teacher}
	user.ID = 1
	jwtCfg := cfg.CurrentJWT()
	token, err := util.GenerateJWT(user, jwtCfg.Secret, jwtCfg.ExpireTime)
	require.NoError(t, err)
	return token
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret-test-secret", ExpireTime: time.Hour}}
	router := authTestRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// The config watcher swaps the JWT section on a goroutine while requests
// authenticate; reads and writes must go through the guarded accessors.
func TestAuthMiddlewareDuringJWTReload(t *testing.T) {
	jwtCfg := config.JWTConfig{Secret: "test-secret-test-secret", ExpireTime: time.Hour}
	cfg := &config.Config{JWT: jwtCfg}
	router := authTestRouter(cfg)
	token := issueToken(t, cfg)

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				cfg.SetJWT(jwtCfg)
			}
		}
	}()

	for i := 0; i < 200; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	close(done)
	wg.Wait()
}
