package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sshamanello/reelflow/domain/repository"
	"github.com/sshamanello/reelflow/infrastructure/cache"
	tiktokclient "github.com/sshamanello/reelflow/infrastructure/clients/tiktok"
	youtubeclient "github.com/sshamanello/reelflow/infrastructure/clients/youtube"
	"github.com/sshamanello/reelflow/infrastructure/configuration"
	"github.com/sshamanello/reelflow/infrastructure/logger"
	httpHandler "github.com/sshamanello/reelflow/interfaces/http"
	"github.com/sshamanello/reelflow/server"
	"github.com/sshamanello/reelflow/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	sessionStore := InitiateSessionStore(ctx)

	tiktokClient := tiktokclient.NewClient(&tiktokclient.Config{
		ClientKey:    configuration.C.TikTok.ClientKey,
		ClientSecret: configuration.C.TikTok.ClientSecret,
	})
	youtubeClient := youtubeclient.NewClient(&youtubeclient.Config{
		ClientID:     configuration.C.Google.ClientID,
		ClientSecret: configuration.C.Google.ClientSecret,
	})

	oauthUsecase := usecase.NewOAuthUsecase(sessionStore, tiktokClient, youtubeClient)
	publishUsecase := usecase.NewPublishUsecase(sessionStore, tiktokClient, youtubeClient)
	libraryUsecase := usecase.NewLibraryUsecase(sessionStore)

	oauthHandler := httpHandler.NewOAuthHandler(oauthUsecase, configuration.C.Session.CookieName, configuration.C.Session.TTLDays)
	tiktokHandler := httpHandler.NewTikTokHandler(publishUsecase)
	youtubeHandler := httpHandler.NewYouTubeHandler(publishUsecase)
	libraryHandler := httpHandler.NewLibraryHandler(libraryUsecase)

	router := server.InitiateRouter(oauthHandler, tiktokHandler, youtubeHandler, libraryHandler, &configuration.C)

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			}
			logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
			if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
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

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateSessionStore connects to Redis and falls back to an in-process
// store when Redis is unreachable. The fallback keeps local development
// working but does not survive restarts.
func InitiateSessionStore(ctx context.Context) repository.ISessionStore {
	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - falling back to in-memory session store")
		return cache.NewMemoryStore()
	}
	logger.GetLogger().Info("Redis client initialized successfully.")
	return cache.NewSessionStore(redisClient)
}
