package main

import (
	"context"
	"database/sql"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	config "github.com/davicafu/rentacarritos/internal/config"

	catalogApp "github.com/davicafu/rentacarritos/internal/catalog/application"
	catalogEvents "github.com/davicafu/rentacarritos/internal/catalog/infra/inbound/events"
	catalogHttp "github.com/davicafu/rentacarritos/internal/catalog/infra/inbound/http"
	catalogSqlite "github.com/davicafu/rentacarritos/internal/catalog/infra/outbound/db/sqlite"

	rentalApp "github.com/davicafu/rentacarritos/internal/rental/application"
	rentalDomain "github.com/davicafu/rentacarritos/internal/rental/domain"
	rentalEvents "github.com/davicafu/rentacarritos/internal/rental/infra/inbound/events"
	rentalHttp "github.com/davicafu/rentacarritos/internal/rental/infra/inbound/http"
	rentalClickhouse "github.com/davicafu/rentacarritos/internal/rental/infra/outbound/analytics/clickhouse"
	rentalMongo "github.com/davicafu/rentacarritos/internal/rental/infra/outbound/db/mongodb"
	rentalPostgres "github.com/davicafu/rentacarritos/internal/rental/infra/outbound/db/postgre"
	rentalSqlite "github.com/davicafu/rentacarritos/internal/rental/infra/outbound/db/sqlite"

	userApp "github.com/davicafu/rentacarritos/internal/user/application"
	userHttp "github.com/davicafu/rentacarritos/internal/user/infra/inbound/http"
	userSqlite "github.com/davicafu/rentacarritos/internal/user/infra/outbound/db/sqlite"
	"github.com/davicafu/rentacarritos/internal/user/infra/outbound/mockauth"

	storefrontApp "github.com/davicafu/rentacarritos/internal/storefront/application"
	storefrontHttp "github.com/davicafu/rentacarritos/internal/storefront/infra/inbound/http"

	infraCache "github.com/davicafu/rentacarritos/internal/infra/cache"
	infraMongo "github.com/davicafu/rentacarritos/internal/infra/db/mongodb"
	infraPostgres "github.com/davicafu/rentacarritos/internal/infra/db/postgres"
	infraSqlite "github.com/davicafu/rentacarritos/internal/infra/db/sqlite"
	infraEvents "github.com/davicafu/rentacarritos/internal/infra/events"
	infraRelayer "github.com/davicafu/rentacarritos/internal/infra/relayer"

	catalogDomain "github.com/davicafu/rentacarritos/internal/catalog/domain"
	"github.com/davicafu/rentacarritos/pkg/logger"
	sharedDomain "github.com/davicafu/rentacarritos/shared/domain"
	sharedBus "github.com/davicafu/rentacarritos/shared/platform/bus"
	sharedCache "github.com/davicafu/rentacarritos/shared/platform/cache"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	mongoOptions "go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const analyticsDB = "rentacarritos"

// ---------------- Main ----------------
func main() {
	logger.Init()          // inicializa zap
	log := logger.Logger() // obtiene logger estructurado
	defer log.Sync()       // flush buffers al salir

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	// ---------------- DB ----------------
	// SQLite siempre presente: catálogo y usuarios viven aquí.
	db, err := sql.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		log.Fatal("failed to open SQLite", zap.Error(err))
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("failed to ping SQLite", zap.Error(err))
	}
	if err := catalogSqlite.InitSQLite(db); err != nil {
		log.Fatal("failed to initialize catalog schema", zap.Error(err))
	}
	if err := userSqlite.InitSQLite(db); err != nil {
		log.Fatal("failed to initialize user schema", zap.Error(err))
	}

	cartRepo := catalogSqlite.NewCartRepoSQLite(db)
	userRepo := userSqlite.NewUserRepoSQLite(db)

	// El almacén de reservas es intercambiable: sqlite local, postgres o mongo.
	backend := cfg.RentalBackend
	if backend == "" {
		if cfg.LocalDeployment {
			backend = "sqlite"
		} else {
			backend = "postgres"
		}
	}

	var rentalRepo rentalDomain.RentalRepository
	var rentalOutboxRepo sharedDomain.OutboxRepository

	switch backend {
	case "postgres":
		pgDB, err := sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			log.Fatal("failed to open Postgres", zap.Error(err))
		}
		defer pgDB.Close()
		if err := rentalPostgres.InitPostgresRentalSchema(pgDB); err != nil {
			log.Fatal("failed to initialize rental schema", zap.Error(err))
		}
		rentalRepo = rentalPostgres.NewRentalRepoPostgres(pgDB)
		rentalOutboxRepo = infraPostgres.NewOutboxRepoPostgres(pgDB)
		log.Info("🐘 Reservas en Postgres")

	case "mongo":
		client, err := mongo.Connect(ctx, mongoOptions.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		defer client.Disconnect(ctx)
		repo, err := rentalMongo.NewRentalRepoMongoDB(ctx, client, analyticsDB)
		if err != nil {
			log.Fatal("failed to initialize MongoDB repo", zap.Error(err))
		}
		rentalRepo = repo
		rentalOutboxRepo = infraMongo.NewOutboxRepoMongoDB(client, analyticsDB)
		log.Info("🍃 Reservas en MongoDB")

	default:
		if err := rentalSqlite.InitSQLite(db); err != nil {
			log.Fatal("failed to initialize rental schema", zap.Error(err))
		}
		rentalRepo = rentalSqlite.NewRentalRepoSQLite(db)
		rentalOutboxRepo = infraSqlite.NewOutboxRepoSQLite(db)
		log.Info("🪶 Reservas en SQLite")
	}

	catalogOutboxRepo := infraSqlite.NewOutboxRepoSQLite(db)

	// ---------------- Cache ----------------
	var cacheInstance sharedCache.Cache
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("⚠️ Redis no disponible, cache en memoria:", zap.Error(err))
		cacheInstance = infraCache.NewInMemoryCache(cfg.CacheTTL, 3*cfg.CacheTTL)
	} else {
		cacheInstance = infraCache.NewRedisCache(rdb, cfg.CacheTTL)
		log.Info("✅ Redis conectado, cache habilitado")
	}

	// --------------- Servicios --------------
	catalogService := catalogApp.NewCatalogService(cartRepo, cacheInstance, log)
	userService := userApp.NewUserService(userRepo, mockauth.NewAuthenticator(300*time.Millisecond), cacheInstance, log)
	rentalService := rentalApp.NewRentalService(rentalRepo, catalogService, userService, cacheInstance, cfg.AllowPastStart, log)
	storefrontService := storefrontApp.NewStorefrontService(catalogService, rentalService)

	// El índice de disponibilidad se reconstruye desde las reservas abiertas.
	if err := rentalService.RebuildIndex(ctx); err != nil {
		log.Fatal("failed to rebuild availability index", zap.Error(err))
	}

	// ------------- Analítica ---------------
	analyticsRepo, err := rentalClickhouse.NewRentalAnalyticsRepo(cfg.ClickHouseAddr, analyticsDB)
	if err != nil {
		log.Warn("⚠️ ClickHouse no disponible, analítica deshabilitada", zap.Error(err))
		analyticsRepo = nil
	} else if err := analyticsRepo.InitSchema(); err != nil {
		log.Warn("⚠️ No se pudo inicializar el esquema analítico", zap.Error(err))
		analyticsRepo = nil
	}

	// ---------------- Events ---------------
	cartConsumer := catalogEvents.NewCartConsumer(catalogService, log)
	rentalConsumer := rentalEvents.NewRentalConsumer(rentalService, log)

	var catalogPublisher sharedBus.EventPublisher
	var rentalPublisher sharedBus.EventPublisher

	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos")

		catalogWriter := kafka.NewWriter(kafka.WriterConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   catalogDomain.CatalogTopic,
		})
		rentalWriter := kafka.NewWriter(kafka.WriterConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   rentalDomain.RentalTopic,
		})
		defer catalogWriter.Close()
		defer rentalWriter.Close()

		catalogPublisher = infraEvents.NewKafkaPublisher(catalogWriter, log)
		rentalPublisher = infraEvents.NewKafkaPublisher(rentalWriter, log)

		// Cada consumidor del topic de reservas lleva su propio group id.
		newRentalReader := func(groupID string) *kafka.Reader {
			return kafka.NewReader(kafka.ReaderConfig{
				Brokers:  cfg.KafkaBrokers,
				Topic:    rentalDomain.RentalTopic,
				GroupID:  groupID,
				MinBytes: 10e3, // 10KB
				MaxBytes: 10e6, // 10MB
			})
		}

		cartReader := newRentalReader("rentacarritos-catalog")
		defer cartReader.Close()
		infraEvents.NewConsumerAdapter(cartReader, cartConsumer, log).Start(ctx)

		lifecycleReader := newRentalReader("rentacarritos-lifecycle")
		defer lifecycleReader.Close()
		infraEvents.NewConsumerAdapter(lifecycleReader, rentalConsumer, log).Start(ctx)

		if analyticsRepo != nil {
			analyticsReader := newRentalReader("rentacarritos-analytics")
			defer analyticsReader.Close()
			analyticsConsumer := rentalEvents.NewAnalyticsConsumer(analyticsRepo, log)
			infraEvents.NewConsumerAdapter(analyticsReader, analyticsConsumer, log).Start(ctx)
		}

	} else {
		log.Info("⚡️Usando bus de eventos en memoria (canales de Go)")

		rentalBus := infraEvents.NewInMemoryEventBus(rentalDomain.RentalTopic)
		catalogPublisher = infraEvents.NewInMemoryEventBus(catalogDomain.CatalogTopic)
		rentalPublisher = rentalBus

		log.Info("🎧 Iniciando listeners en memoria para eventos de reserva")
		catalogEvents.BackgroundConsumerChan(ctx, rentalBus.Subscribe(10), cartConsumer)
		rentalEvents.BackgroundConsumerChan(ctx, rentalBus.Subscribe(10), rentalConsumer)

		if analyticsRepo != nil {
			analyticsConsumer := rentalEvents.NewAnalyticsConsumer(analyticsRepo, log)
			rentalEvents.BackgroundAnalyticsChan(ctx, rentalBus.Subscribe(10), analyticsConsumer)
		}
	}

	// ------------ Outbox Workers ------------
	// Un relayer por contexto: cada uno publica los eventos de su dominio.
	catalogWorker := infraRelayer.NewOutboxWorker(catalogOutboxRepo, catalogPublisher, catalogDomain.NewEventRegistry(), cfg.OutboxPeriod, cfg.OutboxLimit, log)
	go catalogWorker.Start(ctx)

	rentalWorker := infraRelayer.NewOutboxWorker(rentalOutboxRepo, rentalPublisher, rentalDomain.NewEventRegistry(), cfg.OutboxPeriod, cfg.OutboxLimit, log)
	go rentalWorker.Start(ctx)

	// ---------------- HTTP ----------------
	router := gin.Default()
	catalogHttp.RegisterCartRoutes(router, catalogHttp.NewCartHandler(catalogService))
	rentalHttp.RegisterRentalRoutes(router, rentalHttp.NewRentalHandler(rentalService))
	userHttp.RegisterUserRoutes(router, userHttp.NewUserHandler(userService))
	storefrontHttp.RegisterStorefrontRoutes(router, storefrontHttp.NewStorefrontHandler(storefrontService))

	if analyticsRepo != nil {
		rentalHttp.RegisterAnalyticsRoutes(router, rentalHttp.NewAnalyticsHandler(analyticsRepo))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		log.Info("🚀 Server running",
			zap.String("url", "http://localhost:"+cfg.HTTPPort),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("🛑 Señal de apagado recibida, cerrando servidor")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("forced shutdown", zap.Error(err))
	}
}
