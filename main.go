package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"travelbuddy/auth"
	"travelbuddy/comments"
	"travelbuddy/config"
	"travelbuddy/db"
	"travelbuddy/globals"
	"travelbuddy/itinerary"
	"travelbuddy/logging"
	"travelbuddy/memstore"
	"travelbuddy/profile"
	"travelbuddy/ratelim"
	"travelbuddy/rdx"
	"travelbuddy/routes"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// bodyLimit caps request bodies at n bytes
func bodyLimit(n int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware tags each request with an id and logs its outcome.
func loggingMiddleware(logger *logrus.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		r = r.WithContext(context.WithValue(r.Context(), globals.RequestIDKey, reqID))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.WithFields(logrus.Fields{
			"request_id": reqID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     rec.status,
			"remote":     r.RemoteAddr,
			"duration":   time.Since(start).String(),
		}).Info("request")
	})
}

type userStore interface {
	auth.UserStore
	profile.UserStore
}

type itineraryStore interface {
	itinerary.Store
	comments.Counter
}

type stores struct {
	users       userStore
	itineraries itineraryStore
	comments    comments.Store
	close       func(context.Context) error
}

func openStores(ctx context.Context, cfg config.Config, logger *logrus.Logger) (*stores, error) {
	if cfg.StoreDriver == "memory" {
		logger.Warn("using in-memory store; data is lost on restart")
		mem := memstore.New()
		return &stores{
			users:       mem.Users,
			itineraries: mem.Itineraries,
			comments:    mem.Comments,
			close:       func(context.Context) error { return nil },
		}, nil
	}

	if err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB); err != nil {
		return nil, err
	}
	if err := db.EnsureIndexes(ctx); err != nil {
		return nil, err
	}
	logger.WithField("database", cfg.MongoDB).Info("MongoDB connected")
	return &stores{
		users:       db.NewUserStore(db.UserCollection),
		itineraries: db.NewItineraryStore(db.ItineraryCollection),
		comments:    db.NewCommentStore(db.CommentsCollection),
		close:       db.Disconnect,
	}, nil
}

func openCache(ctx context.Context, cfg config.Config, logger *logrus.Logger) rdx.Cache {
	if cfg.RedisAddr == "" {
		return rdx.Noop{}
	}
	conn := rdx.Connect(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdx.Ping(ctx, conn); err != nil {
		logger.WithError(err).Warn("redis unavailable at startup; cache will retry through the breaker")
	}
	return rdx.NewRedisCache(conn, cfg.CacheTTL, logger)
}

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFile)
	globals.JwtSecret = []byte(cfg.JWTSecret)

	ctx := context.Background()
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("open stores")
	}
	cache := openCache(ctx, cfg, logger)

	itins, err := itinerary.NewHandler(st.itineraries, cache, logger, cfg.DefaultOwnerID, cfg.FrontendBaseURL)
	if err != nil {
		logger.WithError(err).Fatal("itinerary handler")
	}
	comms, err := comments.NewHandler(st.comments, st.itineraries, cache, logger, cfg.DefaultOwnerID)
	if err != nil {
		logger.WithError(err).Fatal("comments handler")
	}

	rateLimiter := ratelim.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	stop := make(chan struct{})
	go rateLimiter.Run(stop)

	router := routes.NewRouter(routes.Handlers{
		Itineraries: itins,
		Comments:    comms,
		Auth:        auth.NewHandler(st.users, logger),
		Profiles:    profile.NewHandler(st.users, logger),
	}, rateLimiter, logger)

	// apply middleware: logging → security headers → CORS → body limit → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	}).Handler(bodyLimit(cfg.MaxBodyBytes, router))
	handler := loggingMiddleware(logger, securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		close(stop)
	})

	go func() {
		logger.WithField("addr", server.Addr).Info("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("ListenAndServe")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutdown signal received; shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	if err := st.close(shutdownCtx); err != nil {
		logger.WithError(err).Error("close store")
	}
	logger.Info("server stopped cleanly")
}
