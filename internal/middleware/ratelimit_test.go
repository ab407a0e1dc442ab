package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRateLimitedRouter(perMinute int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/claim", RateLimitByIP(perMinute, nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRateLimitByIP(t *testing.T) {
	t.Run("超过额度返回429", func(t *testing.T) {
		router := newRateLimitedRouter(2)

		for i := 0; i < 2; i++ {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/claim", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/claim", nil))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("非正数额度按每分钟1次处理", func(t *testing.T) {
		var router *gin.Engine
		require.NotPanics(t, func() {
			router = newRateLimitedRouter(0)
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/claim", nil))
		assert.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/claim", nil))
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})
}
