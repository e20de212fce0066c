package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/viper"

	"github.com/go-playground/validator/v10"
	"github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/base/database/mongoclient"
	"github.com/namebid/goapi/base/database/redisclient"
	"github.com/namebid/goapi/base/log"
	"github.com/namebid/goapi/base/metrics"
	bValidator "github.com/namebid/goapi/base/validator"
	mmiddleware "github.com/namebid/goapi/middleware"
	"github.com/namebid/goapi/service/query"
	"github.com/namebid/goapi/service/redis"
	"github.com/namebid/goapi/service/settlement"
	account_delivery "github.com/namebid/goapi/stores/account/delivery/http"
	account_repository "github.com/namebid/goapi/stores/account/repository"
	account_usecase "github.com/namebid/goapi/stores/account/usecase"
	auth_delivery "github.com/namebid/goapi/stores/auth/delivery/http"
	auth_middleware "github.com/namebid/goapi/stores/auth/delivery/http/middleware"
	auth_usecase "github.com/namebid/goapi/stores/auth/usecase"
	hc_delivery "github.com/namebid/goapi/stores/healthcheck/delivery/http"
	hc_repo "github.com/namebid/goapi/stores/healthcheck/repository"
	hc_usecase "github.com/namebid/goapi/stores/healthcheck/usecase"
	listing_delivery "github.com/namebid/goapi/stores/listing/delivery/http"
	listing_repository "github.com/namebid/goapi/stores/listing/repository"
	listing_usecase "github.com/namebid/goapi/stores/listing/usecase"
	offer_delivery "github.com/namebid/goapi/stores/offer/delivery/http"
	offer_repository "github.com/namebid/goapi/stores/offer/repository"
	offer_usecase "github.com/namebid/goapi/stores/offer/usecase"
	reconcile_delivery "github.com/namebid/goapi/stores/reconcile/delivery/http"
	reconcile_usecase "github.com/namebid/goapi/stores/reconcile/usecase"
)

func init() {
	viper.SetConfigType("yaml")
	viper.SetConfigFile(`infra/configs/config.yaml`)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}

	if viper.GetBool(`debug`) {
		log.Log().Info("Service RUN on DEBUG mode")
	}
}

func main() {
	// init echo
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{}))
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())
	e.Use(middleware.CORS())
	e.Validator = bValidator.NewCustomValidator(validator.New())

	context := ctx.Background()

	// init mongo client
	context.Info("init mongo")
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	q := query.New(mongoClient, checkIndex)

	// init Redis service
	context.Info("init redis cache")
	redisCacheName := viper.GetString("redis_cache.name")
	redisCacheURI := viper.GetString("redis_cache.uri")
	redisCachePwd := viper.GetString("redis_cache.password")
	redisCachePoolMultiplier := viper.GetFloat64("redis_cache.poolMultiplier")
	redisCachePool := redisclient.MustConnectRedis(redisCacheURI, redisCachePwd, redisclient.RedisParam{
		PoolMultiplier: redisCachePoolMultiplier,
		Retry:          true,
	})
	redisCache := redis.New(redisCacheName, metrics.New(redisCacheName), &redis.Pools{
		Src: redisCachePool,
	})

	mmiddleware.SetupCache(redisCache)

	settlementClient := settlement.NewClient(&settlement.ClientCfg{
		HttpClient: http.Client{},
		Endpoint:   viper.GetString("settlement.endpoint"),
		Timeout:    viper.GetDuration("settlement.timeout"),
		Apikey:     viper.GetString("settlement.apikey"),
	})

	// construct repository, usecase and delivery
	hcRepo := hc_repo.New(mongoClient, redisCache)
	accountRepo := account_repository.New(q, redisCache)
	listingRepo := listing_repository.New(q)
	offerRepo := offer_repository.New(q)

	hc := hc_usecase.New(hcRepo)
	account := account_usecase.New(&account_usecase.AccountUseCaseCfg{
		Repo:         accountRepo,
		SignatureMsg: viper.GetString("auth.signatureMsg"),
	})
	auth := auth_usecase.New(viper.GetString("auth.jwtSecret"), account)
	listing := listing_usecase.New(&listing_usecase.ListingUseCaseCfg{
		ListingRepo: listingRepo,
		OfferRepo:   offerRepo,
	})
	offer := offer_usecase.New(&offer_usecase.OfferUseCaseCfg{
		OfferRepo:   offerRepo,
		ListingRepo: listingRepo,
		Settlement:  settlementClient,
	})
	reconcile := reconcile_usecase.New(&reconcile_usecase.ReconcileUseCaseCfg{
		ListingRepo: listingRepo,
		OfferRepo:   offerRepo,
	})

	adminAddresses := viper.GetStringSlice("admin.addresses")
	authMiddleware := auth_middleware.New(auth, adminAddresses)

	priceQuoteCacheTTL := viper.GetDuration("cache.priceQuoteTTL")
	leaderboardCacheTTL := viper.GetDuration("cache.leaderboardTTL")

	hc_delivery.New(e, hc)
	auth_delivery.New(e, auth, account, viper.GetString("auth.signatureMsg"))
	account_delivery.New(e, account)
	listing_delivery.New(e, listing, authMiddleware, mmiddleware.CacheHttp(priceQuoteCacheTTL))
	offer_delivery.New(e, offer, authMiddleware, mmiddleware.CacheHttp(leaderboardCacheTTL))
	reconcile_delivery.New(e, reconcile, authMiddleware)

	go func() {
		if err := e.Start(viper.GetString("server.address")); err != nil && err != http.ErrServerClosed {
			log.Log().WithField("err", err).Error("shutting down the server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 10 seconds.
	// Use a buffered channel to avoid missing signals as recommended for signal.Notify
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	sig := <-quit
	log.Log().WithField("signal", sig).Info("received signal")
	ctx, cancel := ctx.WithTimeout(context, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Log().WithField("err", err).Error("shutting down the server")
	} else {
		log.Log().Info("shutdown server successfully")
	}
}
