package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/moviesuggest/movie_system/internal/config"
	"github.com/moviesuggest/movie_system/internal/es"
	"github.com/moviesuggest/movie_system/internal/httpserver"
	"github.com/moviesuggest/movie_system/internal/logging"
	authmw "github.com/moviesuggest/movie_system/internal/middleware/auth"
	loggingmw "github.com/moviesuggest/movie_system/internal/middleware/logging"
	"github.com/moviesuggest/movie_system/internal/moviedata"
	"github.com/moviesuggest/movie_system/internal/mykafka"
	"github.com/moviesuggest/movie_system/internal/repo"
	"github.com/moviesuggest/movie_system/internal/search"
	"github.com/moviesuggest/movie_system/internal/service"
	"github.com/moviesuggest/movie_system/internal/tokens"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.New(os.Getenv("LOG_LEVEL"))

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var producer *mykafka.Producer
	if cfg.KafkaAddress != "" {
		producer = mykafka.NewProducer([]string{cfg.KafkaAddress})
	} else {
		logger.Warn("KAFKA_ADDRESS not set, event publishing disabled")
	}

	var index *search.Index
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		index = search.NewIndex(esClient, "watchlist")
	} else {
		logger.Warn("ES_URL not set, watchlist search disabled")
	}

	tokenSvc := tokens.New(cfg.JWTSecret, cfg.TokenTTL)
	gormRepo := repo.GormRepo{DB: db}

	deps := httpserver.Deps{
		Auth: &httpserver.AuthHTTP{
			Svc: &service.AuthService{
				Repo:   gormRepo,
				Tokens: tokenSvc,
				Rules:  service.DefaultValidation(),
			},
			Producer: producer,
		},
		Watchlist: &httpserver.WatchlistHTTP{
			Svc:      &service.WatchlistService{Repo: gormRepo, Index: index},
			Producer: producer,
		},
		Movies: &httpserver.MovieHTTP{
			Client: moviedata.NewClient(cfg.MovieAPIURL, cfg.MovieAPIKey),
		},
		Guard: authmw.NewGuard(tokenSvc),
	}

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	} else {
		log.Printf("db() error: %v", err)
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	log.Println("shutdown complete")
}
