package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"

	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/base/database/redisclient"
	"github.com/namebid/goapi/base/metrics"
	"github.com/namebid/goapi/service/redis"
)

type cacheMiddlewareSuite struct {
	suite.Suite

	redis redis.Service
}

func TestCacheMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(cacheMiddlewareSuite))
}

func (s *cacheMiddlewareSuite) SetupSuite() {
	name := "cache_middleware_test"
	pool := redisclient.MustConnectRedis("localhost:6379", "", redisclient.RedisParam{PoolMultiplier: 20, Retry: false})
	s.redis = redis.New(name, metrics.New(name), &redis.Pools{Src: pool})
	SetupCache(s.redis)
}

func (s *cacheMiddlewareSuite) TestCacheHit() {
	e := echo.New()

	callCnt := 0
	handler := func(c echo.Context) error {
		callCnt++
		return c.String(http.StatusOK, "quote")
	}

	mw := CacheHttp(30 * time.Second)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/listings/cached-listing/price?b=2&a=1", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("ctx", ctx.Background())

		s.NoError(mw(handler)(c))
		s.Equal("quote", rec.Body.String())
	}

	s.Equal(1, callCnt)
}

func (s *cacheMiddlewareSuite) TestErrorNotCached() {
	e := echo.New()

	callCnt := 0
	handler := func(c echo.Context) error {
		callCnt++
		return c.String(http.StatusInternalServerError, "boom")
	}

	mw := CacheHttp(30 * time.Second)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/listings/broken-listing/price", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.Set("ctx", ctx.Background())

		s.NoError(mw(handler)(c))
	}

	s.Equal(2, callCnt)
}
