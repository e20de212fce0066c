package cache

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/domain/keys"
	"github.com/namebid/goapi/service/cache/provider"
	"github.com/namebid/goapi/service/cache/provider/primitive"
)

var (
	mockCtx = ctx.Background()
)

type quote struct {
	ListingId string `json:"listingId"`
	Amount    string `json:"amount"`
}

type testsuite struct {
	suite.Suite
	im    *impl
	cache provider.Provider
}

func (ts *testsuite) SetupTest() {
	ts.cache = primitive.NewPrimitive("test", 64)
	ts.im = New(ServiceConfig{
		Ttl:   time.Second,
		Pfx:   "quote",
		Cache: ts.cache,
	}).(*impl)
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestGet() {
	var (
		k = "listing-1"
		v = quote{ListingId: "listing-1", Amount: "1500"}
		c = &quote{}
	)

	ts.Equal(ErrNotFound, ts.im.Get(mockCtx, k, c))

	sv, err := json.Marshal(v)
	ts.NoError(err)
	ts.cache.Set(mockCtx, keys.RedisKey(ts.im.pfx, k), sv, time.Second)
	ts.NoError(ts.im.Get(mockCtx, k, c))
	ts.Equal(v, *c)

	time.Sleep(time.Second)

	_, _, err = ts.cache.Get(mockCtx, keys.RedisKey(ts.im.pfx, k))
	ts.Equal(provider.ErrNotFound, err)
}

func (ts *testsuite) TestSet() {
	var (
		k = "listing-1"
		v = quote{ListingId: "listing-1", Amount: "1500"}
		c = &quote{}
	)

	ts.NoError(ts.im.Set(mockCtx, k, v))

	sv, _, err := ts.cache.Get(mockCtx, keys.RedisKey(ts.im.pfx, k))
	ts.NoError(err)

	ts.NoError(json.Unmarshal(sv, c))
	ts.Equal(v, *c)

	time.Sleep(time.Second)

	_, _, err = ts.cache.Get(mockCtx, keys.RedisKey(ts.im.pfx, k))
	ts.Equal(provider.ErrNotFound, err)
}

func (ts *testsuite) TestGetByFunc() {
	var (
		k = "listing-1"
		v = quote{ListingId: "listing-1", Amount: "1500"}
		c = &quote{}
	)

	ts.NoError(ts.im.GetByFunc(mockCtx, k, c, func() (interface{}, error) {
		return &v, nil
	}))

	ts.Equal(v, *c)

	// second read must come from the cache, not the getter
	called := false
	ts.NoError(ts.im.GetByFunc(mockCtx, k, c, func() (interface{}, error) {
		called = true
		return &quote{}, nil
	}))
	ts.False(called)
	ts.Equal(v, *c)
}

func (ts *testsuite) TestGetByFuncGetterError() {
	errBoom := errors.New("boom")
	c := &quote{}
	err := ts.im.GetByFunc(mockCtx, "listing-1", c, func() (interface{}, error) {
		return nil, errBoom
	})
	ts.Equal(errBoom, err)
}
