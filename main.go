package main

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"BERTool/internal/auth"
	"BERTool/internal/calc/ber"
	"BERTool/internal/calc/geometry"
	"BERTool/internal/calc/premium/autodesign"
	"BERTool/internal/calc/premium/batch"
	"BERTool/internal/calc/premium/importer"
	"BERTool/internal/calc/premium/recommend"
	"BERTool/internal/calc/report"
	"BERTool/internal/config"
	"BERTool/internal/history"
	"BERTool/internal/httpx"
	"BERTool/internal/logger"
	"BERTool/internal/repo"
	"BERTool/internal/ws"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

var wg sync.WaitGroup

// Deps are the long-lived services the routes are built from.
type Deps struct {
	Config *config.Config
	Log    *slog.Logger
	Engine *ber.Calculator
	Repo   repo.Repository
}

func CORS(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
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

func (s *statusRecorder) Unwrap() http.ResponseWriter { return s.ResponseWriter }

// Hijack keeps the websocket upgrade working behind the recorder.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijacking not supported")
	}
	s.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func requestLogger(log *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Debug("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

func HandleList(router *mux.Router, d Deps) {
	cfg := d.Config
	authEnv := auth.New([]byte(cfg.Auth.TokenKey), d.Repo, cfg.Auth.TokenTTL, cfg.Auth.SecureCookie, d.Log)
	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimit.RequestsPerSecond), cfg.HTTP.RateLimit.Burst)

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	router.Handle("/ws/live", ws.NewHandler(d.Engine, d.Log, cfg.HTTP.AllowedOrigin))

	api := router.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")
	api.HandleFunc("/logout", authEnv.LogoutHandler).Methods("POST")

	geometryH := &geometry.Handler{Log: d.Log}
	berH := &ber.Handler{Engine: d.Engine, Log: d.Log}
	reportH := &report.Handler{Engine: d.Engine, Log: d.Log}
	batchH := &batch.Handler{Engine: d.Engine, Log: d.Log, Concurrency: cfg.Batch.Concurrency}
	importH := &importer.Handler{Engine: d.Engine, Log: d.Log}
	recommendH := &recommend.Handler{Engine: d.Engine, Log: d.Log}
	autoH := &autodesign.Handler{Engine: d.Engine, Log: d.Log}

	api.HandleFunc("/tools/geometry/calc", geometryH.Calc).Methods("POST")
	api.HandleFunc("/tools/ber/calc", berH.BER).Methods("POST")
	api.HandleFunc("/tools/hwb/calc", berH.HWB).Methods("POST")
	api.HandleFunc("/tools/report/pdf", reportH.Generate).Methods("POST")
	api.HandleFunc("/tools/batch/calc", batchH.Calc).Methods("POST")
	api.HandleFunc("/tools/import/xlsx", importH.XLSX).Methods("POST")
	api.HandleFunc("/tools/recommend", recommendH.Calc).Methods("POST")
	api.HandleFunc("/tools/autodesign", autoH.Calc).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	historyH := &history.Handler{Repo: d.Repo, Engine: d.Engine, Log: d.Log}
	secureApi.HandleFunc("/assessments", historyH.Save).Methods("POST")
	secureApi.HandleFunc("/assessments", historyH.List).Methods("GET")
	secureApi.HandleFunc("/assessments/{id}", historyH.Get).Methods("GET")
}

// NewHandler builds the complete HTTP handler.
func NewHandler(d Deps) http.Handler {
	router := mux.NewRouter()
	router.Use(requestLogger(d.Log))
	HandleList(router, d)
	return CORS(d.Config.HTTP.AllowedOrigin, router)
}

func openRepo(ctx context.Context, cfg *config.Config, log *slog.Logger) (repo.Repository, func(), error) {
	if cfg.Database.URL == "" {
		log.Warn("DATABASE_URL not set, keeping users and assessments in memory")
		return repo.NewMemory(), func() {}, nil
	}
	db, err := auth.InitDB(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, err
	}
	pg := repo.NewPostgres(db)
	if err := pg.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return pg, func() { db.Close() }, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts, err := cfg.EngineOptions()
	if err != nil {
		log.Error("engine options", slog.String("error", err.Error()))
		os.Exit(1)
	}
	store, closeRepo, err := openRepo(ctx, cfg, log)
	if err != nil {
		log.Error("open repository", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepo()

	server := &http.Server{
		Addr:         cfg.HTTP.Address,
		Handler:      NewHandler(Deps{Config: cfg, Log: log, Engine: ber.New(opts), Repo: store}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("starting server", slog.String("addr", cfg.HTTP.Address), slog.Bool("tls", cfg.HTTP.TLSCert != ""))
		var err error
		if cfg.HTTP.TLSCert != "" {
			err = server.ListenAndServeTLS(cfg.HTTP.TLSCert, cfg.HTTP.TLSKey)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, closing active connections")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", slog.String("error", err.Error()))
	}
	wg.Wait()
	log.Info("server stopped")
}
