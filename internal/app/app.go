package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/memstore"
	"github.com/niksmo/storefront/internal/adapter/redis"
	"github.com/niksmo/storefront/internal/core/admin"
	"github.com/niksmo/storefront/internal/core/form"
	"github.com/niksmo/storefront/internal/core/order"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/schema"
)

type serdes struct {
	productCreated    schema.Serde
	blogPostPublished schema.Serde
}

type producers struct {
	productEvents *kafka.ProductEventsProducer
	blogEvents    *kafka.BlogEventsProducer
}

type backends struct {
	store    Store
	sessions port.SessionStore
	redis    *goredis.Client
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	backends   backends
	serdes     serdes
	producers  producers
	service    service.Service
	httpServer *httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initStore()
	app.initSessions()
	if cfg.Broker.Enabled {
		app.initSerdes()
		app.initProducers()
	}
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initStore() {
	const op = "App.initStore"

	s, err := OpenStore(app.ctx, app.cfg)
	if err != nil {
		app.fallDown(op, err)
	}
	app.backends.store = s
	slog.Info("catalog store is ready", "op", op, "driver", app.cfg.Store.Driver)
}

func (app *App) initSessions() {
	const op = "App.initSessions"
	sessionCfg := app.cfg.Session

	switch sessionCfg.Driver {
	case config.SessionRedis:
		rdb, err := redis.NewClient(app.ctx, sessionCfg.RedisURL)
		if err != nil {
			app.fallDown(op, err)
		}
		app.backends.redis = rdb
		app.backends.sessions = redis.NewSessionStore(rdb, sessionCfg.TTL)
	default:
		app.backends.sessions = memstore.NewSessionStore(sessionCfg.TTL, time.Now)
	}
	slog.Info("session store is ready", "op", op, "driver", sessionCfg.Driver)
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"
	ctx := app.ctx
	brokerCfg := app.cfg.Broker

	identifier, err := schema.NewRegistryIdentifier(brokerCfg.SchemaRegistryURLs...)
	if err != nil {
		app.fallDown(op, err)
	}

	productCreatedSerde, err := schema.NewSerdeProductCreatedV1(
		ctx,
		schema.SubjectOpt(schema.ValueSubject(brokerCfg.Topics.ProductsCreated)),
		schema.SchemaIdentifierOpt(identifier),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	blogPostPublishedSerde, err := schema.NewSerdeBlogPostPublishedV1(
		ctx,
		schema.SubjectOpt(schema.ValueSubject(brokerCfg.Topics.BlogPostsPublished)),
		schema.SchemaIdentifierOpt(identifier),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.serdes.productCreated = productCreatedSerde
	app.serdes.blogPostPublished = blogPostPublishedSerde
}

func (app *App) initProducers() {
	const op = "App.initProducers"
	ctx := app.ctx
	brokerCfg := app.cfg.Broker

	tlsCfg, err := adapter.MakeTLSConfig(
		brokerCfg.TLS.CA, brokerCfg.TLS.Cert, brokerCfg.TLS.Key,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	productEvents, err := kafka.NewProductEventsProducer(
		kafka.ProducerClientOpt(
			ctx, brokerCfg.SeedBrokers, brokerCfg.Topics.ProductsCreated, tlsCfg,
		),
		kafka.ProducerEncoderOpt(app.serdes.productCreated),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	blogEvents, err := kafka.NewBlogEventsProducer(
		kafka.ProducerClientOpt(
			ctx, brokerCfg.SeedBrokers, brokerCfg.Topics.BlogPostsPublished, tlsCfg,
		),
		kafka.ProducerEncoderOpt(app.serdes.blogPostPublished),
	)
	if err != nil {
		productEvents.Close()
		app.fallDown(op, err)
	}

	app.producers.productEvents = &productEvents
	app.producers.blogEvents = &blogEvents
}

func (app *App) initCoreService() {
	opts := []service.Opt{
		service.FeaturedLimitOpt(app.cfg.Storefront.FeaturedLimit),
	}
	if app.producers.productEvents != nil {
		opts = append(opts, service.ProductEventsOpt(app.producers.productEvents))
	}
	if app.producers.blogEvents != nil {
		opts = append(opts, service.BlogEventsOpt(app.producers.blogEvents))
	}
	app.service = service.New(app.backends.store, opts...)
}

func (app *App) initInboundAdapters() {
	const op = "App.initInboundAdapters"
	shopCfg := app.cfg.Storefront

	composer := order.NewComposer(
		shopCfg.WhatsAppNumber,
		order.DeliveryChargeOpt(shopCfg.DeliveryCharge),
		order.CurrencyOpt(shopCfg.Currency),
	)
	gate := admin.NewGate(app.cfg.AdminSecret, app.backends.sessions)
	guard := form.NewGuard()

	renderer, err := httphandler.NewRenderer(httphandler.ShopInfo{
		Name:           shopCfg.Name,
		Currency:       shopCfg.Currency,
		WhatsAppNumber: shopCfg.WhatsAppNumber,
		DeliveryCharge: shopCfg.DeliveryCharge,
	})
	if err != nil {
		app.fallDown(op, err)
	}

	mux := http.NewServeMux()
	httphandler.RegisterPages(mux, app.service, composer, renderer)
	httphandler.RegisterAdmin(mux, gate, app.service, guard, renderer)
	httphandler.RegisterAPI(mux, app.service, app.service, gate, guard, composer)

	app.httpServer = httphandler.NewHTTPServer(app.cfg.HTTPServerAddr, mux)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)

	if app.producers.productEvents != nil {
		app.producers.productEvents.Close()
	}
	if app.producers.blogEvents != nil {
		app.producers.blogEvents.Close()
	}
	if app.backends.redis != nil {
		if err := app.backends.redis.Close(); err != nil {
			slog.Error("failed to close redis client", "err", err)
		}
	}
	if app.backends.store != nil {
		app.backends.store.Close(ctx)
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
