// README: Entry point; loads config, wires services, starts HTTP server and the offer feed consumer.
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

	"courier/internal/config"
	"courier/internal/feed"
	httptransport "courier/internal/http"
	"courier/internal/infra"
	"courier/internal/logging"
	"courier/internal/maps"
	"courier/internal/modules/chat"
	"courier/internal/modules/delivery"
	"courier/internal/modules/presence"
	"courier/internal/modules/profile"
	"courier/internal/push"
	"courier/internal/session"
	"courier/internal/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.NewLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Firebase.ProjectID == "" {
		log.Fatal("COURIER_FIREBASE_PROJECT_ID is required")
	}
	verifier, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Fatalf("firebase init: %v", err)
	}

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal(err)
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)

	var routes *maps.RouteService
	if cfg.Maps.GoogleKey != "" {
		routes, err = maps.NewRouteService(cfg.Maps.GoogleKey)
		if err != nil {
			log.Fatalf("maps init: %v", err)
		}
	}
	preview := maps.NewPreview(cfg.Maps.LocationIQKey)

	fallback := types.Point{Lat: cfg.Fallback.Lat, Lng: cfg.Fallback.Lng}
	presenceStore := presence.NewStore(dbPool, redisClient)
	presenceSvc := presence.NewService(presenceStore, nil, fallback, logger)

	deliveryStore := delivery.NewStore(dbPool)
	deliverySvc := delivery.NewService(deliveryStore, logger)

	chatSvc := chat.NewService(chat.NewStore(redisClient))
	profileSvc := profile.NewService(profile.NewStore(dbPool))

	pushRegistry := push.NewRegistry(logger)
	sessions := session.NewManager(cfg.Offer, deliverySvc, pushRegistry, logger)

	if len(cfg.Kafka.Brokers) > 0 {
		consumer := feed.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.GroupID, sessions, routes, logger)
		go consumer.Run(ctx)
	}

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Sessions:   sessions,
		Presence:   presenceSvc,
		Deliveries: deliverySvc,
		Chat:       chatSvc,
		Profile:    profileSvc,
		Preview:    preview,
		Push:       pushRegistry,
		Verifier:   verifier,
		Log:        logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", "err", err)
		}
	}()

	logger.Info("listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
