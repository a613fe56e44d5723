package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"foboh/internal/infra"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func healthRouter(deps HealthDeps) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", Health(deps))
	return r
}

func TestHealth_MemoryOnly(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	healthRouter(HealthDeps{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"db":"disabled","redis":"disabled","mail":"disabled"}`, w.Body.String())
}

func TestHealth_RedisAndBreaker(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	cb := infra.NewBreaker("smtp", infra.DefaultMailBreakerConfig())
	r := healthRouter(HealthDeps{Redis: rdb, MailBreaker: cb})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"db":"disabled","redis":"connected","mail":"closed"}`, w.Body.String())

	mr.Close()
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"redis":"error"`)
}
