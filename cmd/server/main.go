package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"discussionForum/internal/auth"
	"discussionForum/internal/config"
	"discussionForum/internal/db"
	"discussionForum/internal/forum"
	"discussionForum/internal/httpapi"
	"discussionForum/internal/logging"
	"discussionForum/repository"
)

func main() {
	rollback := flag.Bool("rollback", false, "roll back the most recent migration and exit")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New("forum", cfg.Log.Level)
	if err != nil {
		log.Fatalf("create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Infow("configuration loaded", "config", cfg.String())

	dialect, err := db.ParseDialect(cfg.Database.Driver)
	if err != nil {
		logger.Fatalw("invalid database driver", "error", err)
	}

	// Open DB and bootstrap the schema
	d, err := db.Open(context.Background(), dialect, cfg.Database.DSN, logger)
	if err != nil {
		logger.Fatalw("failed to open database", "error", err)
	}
	logger.Infow("database ready", "dialect", d.Dialect())
	defer func() {
		if err := d.Close(); err != nil {
			logger.Errorw("close db", "error", err)
		}
	}()

	if *rollback {
		if err := db.RollbackLast(d); err != nil {
			logger.Errorw("rollback failed", "error", err)
			os.Exit(1)
		}
		return
	}

	users := repository.NewUserRepository(d)
	posts := repository.NewPostRepository(d)
	comments := repository.NewCommentRepository(d)
	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	svc := forum.New(logger, users, posts, comments, tokens)

	gin.SetMode(gin.ReleaseMode)
	router := httpapi.SetupRoutes(logger, svc, tokens)

	// Start HTTP
	addr, shutdown, err := httpapi.StartHTTP(cfg, logger, router)
	if err != nil {
		logger.Fatalw("failed to start http server", "error", err)
	}
	logger.Infow("http server listening", "address", addr.String())

	// Wait for signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		logger.Errorw("shutdown error", "error", err)
	}
}
