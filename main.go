package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"sentitube/domain/repository"
	"sentitube/infrastructure/cache"
	sentimentclient "sentitube/infrastructure/clients/sentiment"
	youtubeclient "sentitube/infrastructure/clients/youtube"
	"sentitube/infrastructure/configuration"
	"sentitube/infrastructure/logger"
	"sentitube/infrastructure/persistence"
	"sentitube/infrastructure/pubsub"
	"sentitube/infrastructure/servicebus"
	httpHandler "sentitube/interfaces/http"
	"sentitube/server"
	"sentitube/usecase"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence).
	configuration.LoadEnvFromFile("config.env", ".env")

	db, store, err := InitiateDatabase()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()
	logger.GetLogger().WithField("vendor", configuration.C.Database.Vendor).Info("Database connected.")

	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - continuing without metadata cache")
		redisClient = nil
	}
	videoCache := cache.NewVideoCache(redisClient)

	youtubeCfg := configuration.C.YouTube
	requestTimeout := time.Duration(configuration.C.Analyzer.RequestTimeoutSeconds) * time.Second
	youtubeClient, err := youtubeclient.NewYouTubeClient(ctx, &youtubeclient.Config{
		APIKey:         youtubeCfg.APIKey,
		ClientID:       youtubeCfg.ClientID,
		ClientSecret:   youtubeCfg.ClientSecret,
		RedirectURL:    youtubeCfg.RedirectURI,
		AccessToken:    youtubeCfg.AccessToken,
		RefreshToken:   youtubeCfg.RefreshToken,
		RequestTimeout: requestTimeout,
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while initializing YouTube client")
		os.Exit(1)
	}

	classifier := sentimentclient.NewClient(
		configuration.C.Sentiment.Host,
		time.Duration(configuration.C.Sentiment.TimeoutSeconds)*time.Second,
	)

	notifiers := initiateNotifiers(ctx)

	fetcher := usecase.NewCommentFetcher(
		youtubeClient,
		configuration.C.Analyzer.MaxPages,
		configuration.C.Analyzer.MaxComments,
		configuration.C.Analyzer.MaxRetries,
	)
	analyzerUsecase := usecase.NewAnalyzerUsecase(youtubeClient, classifier, store, videoCache, fetcher, notifiers...)
	analysisUsecase := usecase.NewAnalysisUsecase(store)

	analysisHandler := httpHandler.NewAnalysisHandler(analyzerUsecase, analysisUsecase)
	router := server.InitiateRouter(analysisHandler)

	port := configuration.C.App.Port
	logger.GetLogger().WithField("port", port).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateDatabase opens the configured vendor and ensures the schema. The
// analysis store variant matches the vendor.
func InitiateDatabase() (*sql.DB, repository.IAnalysisStore, error) {
	if configuration.C.Database.Vendor == "mssql" {
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			return nil, nil, err
		}
		if err := persistence.EnsureAnalysisSchemaMSSQL(db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return db, persistence.NewAnalysisRepositoryMSSQL(db), nil
	}

	db, err := persistence.NewPostgreSQLDB()
	if err != nil {
		return nil, nil, err
	}
	if err := persistence.EnsureAnalysisSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return db, persistence.NewAnalysisRepository(db), nil
}

// initiateNotifiers wires the optional event brokers. Missing credentials
// degrade to no-op notifiers rather than startup failures.
func initiateNotifiers(ctx context.Context) []repository.IAnalysisNotifier {
	var notifiers []repository.IAnalysisNotifier

	pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Pub/Sub not available - continuing without it")
		pubSubClient = nil
	}
	notifiers = append(notifiers, pubsub.NewAnalysisPublisher(pubSubClient, configuration.C.Pubsub.Topic))

	azServiceBusClient, err := servicebus.NewServiceBus(configuration.C.ServiceBus.Namespace)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without it")
		azServiceBusClient = nil
	}
	notifiers = append(notifiers, servicebus.NewAnalysisSender(azServiceBusClient, configuration.C.ServiceBus.Queue))

	return notifiers
}
