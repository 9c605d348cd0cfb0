package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/appetiteclub/pantry/pkg"
	"github.com/appetiteclub/pantry/pkg/event"
	"github.com/aquamarinepk/aqm"
	"github.com/aquamarinepk/aqm/events"
	"github.com/aquamarinepk/aqm/middleware"

	"github.com/appetiteclub/pantry/services/inventory/internal/inventory"
	"github.com/appetiteclub/pantry/services/inventory/internal/mongo"
	"github.com/appetiteclub/pantry/services/inventory/internal/redis"
)

const (
	appNamespace = "INVENTORY"
	appName      = "inventory"
	appVersion   = "0.1.0"
)

func main() {
	config, err := aqm.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := aqm.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	baseRepo := mongo.NewBaseRepo(config, logger)
	if err := baseRepo.Start(ctx); err != nil {
		log.Fatalf("%s(%s) cannot start base repository: %v", appName, appVersion, err)
	}

	db := baseRepo.GetDatabase()
	if db == nil {
		log.Fatalf("%s(%s) cannot initialize repository database: %v", appName, appVersion, errors.New("repository database is nil"))
	}

	var recipeRepo inventory.RecipeRepo = mongo.NewRecipeRepo(db)

	lifecycles := []interface{}{
		aqm.LifecycleHooks{OnStop: baseRepo.Stop},
	}

	redisAddr, _ := config.GetString("cache.redis.addr")
	if redisAddr != "" {
		client, err := redis.NewClient(ctx, redisAddr)
		if err != nil {
			log.Fatalf("%s(%s) cannot connect to recipe cache: %v", appName, appVersion, err)
		}
		ttl := durationOrDef(config, "cache.redis.ttl", redis.DefaultTTL)
		recipeRepo = inventory.NewCachedRecipeRepo(recipeRepo, redis.NewRecipeCache(client, ttl), logger)
		lifecycles = append(lifecycles, aqm.LifecycleHooks{
			OnStop: func(context.Context) error { return client.Close() },
		})
		logger.Info("Recipe cache enabled", "addr", redisAddr, "ttl", ttl.String())
	}

	repos := inventory.Repos{
		InventoryRepo: mongo.NewInventoryRepo(db),
		RecipeRepo:    recipeRepo,
		OrderRepo:     mongo.NewOrderRepo(db),
		Ledger:        mongo.NewPaymentLedger(db),
	}

	units := inventory.DefaultUnitTable()
	if unitsFile, _ := config.GetString("units.file"); unitsFile != "" {
		override, err := inventory.LoadUnitTable(unitsFile)
		if err != nil {
			log.Fatalf("%s(%s) cannot load unit table: %v", appName, appVersion, err)
		}
		units = units.Merge(override)
	}

	natsURL, _ := config.GetString("nats.url")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	var publisher events.Publisher
	var subscriber events.Subscriber

	streamEnabled, _ := config.GetString("nats.stream.enabled")
	if streamEnabled == "true" {
		stream, err := pkg.NewNATSStream(ctx, pkg.NATSStreamConfig{
			URL:           natsURL,
			Name:          appName,
			StreamName:    "INVENTORY_EVENTS",
			Subjects:      []string{event.InventoryTopic, event.PaymentsTopic},
			ConsumerName:  "inventory-payments",
			FilterSubject: event.PaymentsTopic,
			MaxAge:        24 * time.Hour,
			MaxDeliver:    5,
			NakDelay:      2 * time.Second,
		}, logger)
		if err != nil {
			log.Fatalf("%s(%s) cannot create NATS stream: %v", appName, appVersion, err)
		}
		publisher, subscriber = stream, stream
		lifecycles = append(lifecycles, aqm.LifecycleHooks{
			OnStop: func(context.Context) error { return stream.Close() },
		})
		logger.Info("NATS stream initialized for persistent events")
	} else {
		pub, err := pkg.NewNATSPublisher(natsURL, appName)
		if err != nil {
			log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
		}
		sub, err := pkg.NewNATSSubscriber(natsURL, appName, logger)
		if err != nil {
			log.Fatalf("%s(%s) cannot connect to NATS subscriber: %v", appName, appVersion, err)
		}
		publisher, subscriber = pub, sub
		lifecycles = append(lifecycles,
			aqm.LifecycleHooks{OnStop: func(context.Context) error { return pub.Close() }},
			aqm.LifecycleHooks{OnStop: func(context.Context) error { return sub.Close() }},
		)
	}

	maxRetries := inventory.DefaultMaxRetries
	if raw, _ := config.GetString("payment.max.retries"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			log.Fatalf("%s(%s) invalid payment.max.retries %q", appName, appVersion, raw)
		}
		maxRetries = n
	}

	reconciler := inventory.NewReconciler(inventory.ReconcilerDeps{
		Repos:     repos,
		Converter: inventory.NewUnitConverter(units),
		Publisher: publisher,
	}, maxRetries, logger)

	paymentSub := inventory.NewPaymentRequestSubscriber(subscriber, reconciler, logger)
	healthService := inventory.NewHealthService()

	handler := inventory.NewHandler(inventory.HandlerDeps{
		Repos:      repos,
		Reconciler: reconciler,
	}, config, logger)

	lifecycles = append(lifecycles, paymentSub, healthService)

	demoEnabled, _ := config.GetString("seeding.demo")
	if demoEnabled == "true" {
		logger.Info("Demo seeding enabled for inventory service")
		lifecycles = append(lifecycles, aqm.LifecycleHooks{
			OnStart: inventory.DemoSeedingFunc(repos, db, logger),
		})
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true,
	})
	stack = append(stack, middleware.InternalOnly())

	options := []aqm.Option{
		aqm.WithConfig(config),
		aqm.WithLogger(logger),
		aqm.WithHTTPMiddleware(stack...),
		aqm.WithHTTPServerModules("web.port", handler),
		aqm.WithGRPCServerModules("grpc.port", healthService),
		aqm.WithLifecycle(lifecycles...),
		aqm.WithHealthChecks(appName),
	}

	ms := aqm.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	if err := ms.Run(ctx); err != nil {
		_ = baseRepo.Stop(context.Background())
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}

func durationOrDef(config *aqm.Config, key string, def time.Duration) time.Duration {
	raw, _ := config.GetString(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
