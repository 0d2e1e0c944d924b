package main

import (
	"context"
	"database/sql"
	"os/signal"
	"syscall"

	config "github.com/davicafu/newslab/internal/config"
	"github.com/davicafu/newslab/internal/headline/application"
	headlineDomain "github.com/davicafu/newslab/internal/headline/domain"
	headlineEvents "github.com/davicafu/newslab/internal/headline/infra/inbound/events"
	headlineHttp "github.com/davicafu/newslab/internal/headline/infra/inbound/http"
	chRepo "github.com/davicafu/newslab/internal/headline/infra/outbound/analytics/clickhouse"
	mongoRepo "github.com/davicafu/newslab/internal/headline/infra/outbound/db/mongodb"
	pgRepo "github.com/davicafu/newslab/internal/headline/infra/outbound/db/postgre"
	redisRepo "github.com/davicafu/newslab/internal/headline/infra/outbound/db/redisstore"
	sqliteRepo "github.com/davicafu/newslab/internal/headline/infra/outbound/db/sqlite"
	headlineRelayer "github.com/davicafu/newslab/internal/headline/infra/relayer"
	infraEvents "github.com/davicafu/newslab/internal/shared/infra/events"
	sharedBus "github.com/davicafu/newslab/internal/shared/platform/bus"

	"github.com/davicafu/newslab/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	// _ "github.com/mattn/go-sqlite3" // requires gcc
	_ "modernc.org/sqlite"
)

// ---------------- Main ----------------
func main() {
	logger.Init()          // inicializa zap
	log := logger.Logger() // obtiene logger estructurado
	defer log.Sync()       // flush buffers al salir

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()

	// ---------------- Data source ----------------
	var source headlineDomain.HeadlineDataSource

	switch cfg.DataBackend {
	case "postgres":
		db, err := sql.Open("pgx", cfg.PostgresDSN)
		if err != nil {
			log.Fatal("failed to open Postgres", zap.Error(err))
		}
		defer db.Close()
		if err := pgRepo.InitPostgres(db); err != nil {
			log.Fatal("failed to initialize Postgres", zap.Error(err))
		}
		source = pgRepo.NewHeadlineRepoPostgres(db)
		log.Info("✅ Usando Postgres como data source")

	case "mongodb":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatal("failed to connect to MongoDB", zap.Error(err))
		}
		defer client.Disconnect(ctx)
		repo, err := mongoRepo.NewHeadlineRepoMongoDB(ctx, client, "newslab")
		if err != nil {
			log.Fatal("failed to initialize MongoDB", zap.Error(err))
		}
		source = repo
		log.Info("✅ Usando MongoDB como data source")

	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("failed to ping Redis", zap.Error(err))
		}
		source = redisRepo.NewHeadlineRepoRedis(rdb)
		log.Info("✅ Usando Redis como data source")

	default:
		db, err := sql.Open("sqlite", cfg.SQLitePath)
		if err != nil {
			log.Fatal("failed to open SQLite", zap.Error(err))
		}
		defer db.Close()
		if err := sqliteRepo.InitSQLite(db); err != nil {
			log.Fatal("failed to initialize SQLite", zap.Error(err))
		}
		if err := db.PingContext(ctx); err != nil {
			log.Fatal("failed to ping SQLite", zap.Error(err))
		}
		source = sqliteRepo.NewHeadlineRepoSQLite(db)
		log.Info("✅ Usando SQLite como data source")
	}

	// --------------- Servicio --------------
	headlineService := application.NewHeadlineService(source, log)

	// ---------------- Events ---------------
	var publisher sharedBus.EventBus

	topic := cfg.KafkaTopic
	if topic == "" {
		topic = headlineDomain.HeadlineTopic
	}

	if cfg.UseKafka {
		log.Info("🚀 Usando Kafka como bus de eventos")

		writer := kafka.NewWriter(kafka.WriterConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   topic,
		})
		defer writer.Close()

		publisher = infraEvents.NewKafkaPublisher(writer, log)

		if cfg.AnalyticsEnable {
			analytics, err := chRepo.NewHeadlineAnalyticsRepo(cfg.ClickHouseAddr, cfg.ClickHouseDB)
			if err != nil {
				log.Fatal("failed to initialize ClickHouse", zap.Error(err))
			}
			consumer := headlineEvents.NewPageUpdateConsumer(analytics, log)

			reader := kafka.NewReader(kafka.ReaderConfig{
				Brokers:  cfg.KafkaBrokers,
				Topic:    topic,
				GroupID:  "newslab-analytics",
				MinBytes: 10e3, // 10KB
				MaxBytes: 10e6, // 10MB
			})
			defer reader.Close()

			adapter := infraEvents.NewConsumerAdapter(reader, consumer, log)
			adapter.Start(ctx)
		}
	} else {
		log.Info("⚡️Usando bus de eventos en memoria (canales de Go)")

		inMemoryBus := infraEvents.NewInMemoryEventBus(topic)
		publisher = inMemoryBus

		if cfg.AnalyticsEnable {
			analytics, err := chRepo.NewHeadlineAnalyticsRepo(cfg.ClickHouseAddr, cfg.ClickHouseDB)
			if err != nil {
				log.Fatal("failed to initialize ClickHouse", zap.Error(err))
			}
			consumer := headlineEvents.NewPageUpdateConsumer(analytics, log)
			ch := inMemoryBus.Subscribe(10)

			log.Info("🎧 Iniciando listener en memoria para páginas emitidas")
			headlineEvents.BackgroundConsumerChan(ctx, ch, consumer)
		}
	}

	// ------------ Polling stream ------------
	stream := application.NewPageStream(headlineService, headlineDomain.PageRequest{
		Limit: cfg.PollPageLimit,
	}, cfg.PollInterval, log)

	streamRelayer := headlineRelayer.NewStreamRelayer(stream, publisher, log)
	go func() {
		if err := streamRelayer.Run(ctx); err != nil {
			log.Error("Relayer detenido con fallo", zap.Error(err))
		}
	}()

	// ---------------- HTTP ----------------
	headlineHandler := headlineHttp.NewHeadlineHandler(headlineService)
	router := gin.Default()
	headlineHttp.RegisterHeadlineRoutes(router, headlineHandler)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	log.Info("🚀 Server running",
		zap.String("url", "http://localhost:"+cfg.HTTPPort),
	)
	if err := router.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
