package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	bCtx "github.com/namebid/goapi/base/ctx"
	"github.com/namebid/goapi/base/database/mongoclient"
	"github.com/namebid/goapi/base/log"
	"github.com/namebid/goapi/base/metrics"
	mmiddleware "github.com/namebid/goapi/middleware"
	"github.com/namebid/goapi/service/query"
	listing_repository "github.com/namebid/goapi/stores/listing/repository"
	offer_repository "github.com/namebid/goapi/stores/offer/repository"
	reconcile_usecase "github.com/namebid/goapi/stores/reconcile/usecase"
)

var (
	configFile = pflag.String("config", "infra/configs/sweeper/config.yaml", "config file path")
	interval   = pflag.Duration("interval", 0, "sweep interval, overrides the config when set")
	once       = pflag.Bool("once", false, "run a single sweep and exit")
	dryRun     = pflag.Bool("dry-run", false, "report what would be expired without writing")
)

func init() {
	pflag.Parse()

	viper.SetConfigType("yaml")
	viper.SetConfigFile(*configFile)
	err := viper.ReadInConfig()
	if err != nil {
		panic(err)
	}
}

func main() {
	ctx, cancel := bCtx.WithCancel(bCtx.Background())
	defer cancel()

	// health endpoint for the orchestrator
	startEchoServer()

	q := initMongo()
	listingRepo := listing_repository.New(q)
	offerRepo := offer_repository.New(q)
	reconcile := reconcile_usecase.New(&reconcile_usecase.ReconcileUseCaseCfg{
		ListingRepo: listingRepo,
		OfferRepo:   offerRepo,
	})

	sweepInterval := viper.GetDuration("sweeper.interval")
	if *interval > 0 {
		sweepInterval = *interval
	}
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}

	met := metrics.New("sweeper")

	sweep := func() {
		defer met.BumpTime("sweep.time").End()

		var err error
		if *dryRun {
			_, err = reconcile.Preview(ctx, time.Now())
		} else {
			_, err = reconcile.Run(ctx, time.Now())
		}
		if err != nil {
			ctx.WithField("err", err).Error("sweep failed")
			met.BumpSum("sweep.err", 1)
		}
	}

	sweep()
	if *once {
		return
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	ctx.WithField("interval", sweepInterval).Info("sweeper started")
	for {
		select {
		case <-ticker.C:
			sweep()
		case sig := <-quit:
			log.Log().WithField("signal", sig).Info("received signal")
			return
		}
	}
}

func startEchoServer() {
	context := bCtx.Background()

	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	middL := mmiddleware.InitMiddleware()
	e.Use(middL.ResponseLogger())
	e.Use(middL.AddContext())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"healthy": "ok"})
	})

	address := viper.GetString("server.address")
	context.WithField("address", address).Info("starting server")
	go func() {
		if err := e.Start(address); err != nil && err != http.ErrServerClosed {
			context.Error("shutting down the server")
		}
	}()
}

func initMongo() query.Mongo {
	uri := viper.GetString("mongo.uri")
	authDBName := viper.GetString("mongo.authDBName")
	dbName := viper.GetString("mongo.dbName")
	enableSSL := viper.GetBool("mongo.enableSSL")
	checkIndex := viper.GetBool("mongo.checkIndex")
	mongoClient := mongoclient.MustConnectMongoClient(uri, authDBName, dbName, enableSSL, true, 2)
	return query.New(mongoClient, checkIndex)
}
