// Package web serves the companion interface: a small status page, a JSON
// API mirroring the panel state, and a websocket stream for live values.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"paneld/internal/config"
	"paneld/internal/netinfo"
	"paneld/internal/sensors"
	"paneld/internal/store"
)

var errServer = errors.New("web server error")

// Status is the aggregate the API and the websocket stream serve.
type Status struct {
	Version   string         `json:"version"`
	Screen    string         `json:"screen"`
	Sample    sensors.Sample `json:"sample"`
	Network   netinfo.Info   `json:"network"`
	ThemeName string         `json:"theme_name"`
}

// Deps wires the server to the device loop without the loop importing us.
// Restart and Update run on the caller's goroutine and may take a while.
type Deps struct {
	Version  string
	Settings *config.Store
	Readings *store.Readings

	// Status snapshots the current panel state.
	Status func() Status
	// Applied tells the loop that settings changed out from under it.
	Applied func()
	// Restart asks the process supervisor for a clean restart.
	Restart func()
	// Update triggers a self-update check and apply.
	Update func(ctx context.Context) (string, error)
}

// Server owns the gin engine and the listener lifecycle.
type Server struct {
	deps Deps
	http *http.Server
}

func New(listenAddr string, deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	server := &Server{deps: deps}
	server.routes(router)
	server.http = &http.Server{
		Addr:              listenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return server
}

func (s *Server) routes(router *gin.Engine) {
	router.GET("/", s.handleIndex)
	router.GET("/ws", s.handleWebSocket)

	api := router.Group("/api")
	{
		api.GET("/status", s.handleStatus)
		api.GET("/settings", s.handleSettingsGet)
		api.POST("/settings", s.handleSettingsPost)
		api.GET("/readings", s.handleReadings)
		api.POST("/restart", s.handleRestart)
		api.POST("/update", s.handleUpdate)
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Serve blocks until the context ends or the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	errs := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- errors.Join(err, errServer)
		}
		close(errs)
	}()

	slog.Info("Web interface listening", slog.String("addr", s.http.Addr))

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleIndex(ctx *gin.Context) {
	ctx.Data(http.StatusOK, "text/html; charset=utf-8", indexPage)
}

func (s *Server) handleStatus(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, s.deps.Status())
}

func (s *Server) handleSettingsGet(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, s.deps.Settings.Settings())
}

func (s *Server) handleSettingsPost(ctx *gin.Context) {
	// Start from the current record so a partial body only changes the
	// fields it names.
	settings := s.deps.Settings.Settings()
	if err := ctx.ShouldBindJSON(&settings); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	s.deps.Settings.Replace(settings)
	if err := s.deps.Settings.Save(); err != nil {
		slog.Error("Failed to save settings from web", slog.String("error", err.Error()))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "save failed"})

		return
	}

	if s.deps.Applied != nil {
		s.deps.Applied()
	}

	ctx.JSON(http.StatusOK, s.deps.Settings.Settings())
}

func (s *Server) handleReadings(ctx *gin.Context) {
	limit := 100
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 10000 {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})

			return
		}
		limit = parsed
	}

	samples, err := s.deps.Readings.Recent(ctx.Request.Context(), limit)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})

		return
	}
	if samples == nil {
		samples = []sensors.Sample{}
	}

	ctx.JSON(http.StatusOK, samples)
}

func (s *Server) handleRestart(ctx *gin.Context) {
	if s.deps.Restart == nil {
		ctx.JSON(http.StatusNotImplemented, gin.H{"error": "restart unavailable"})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "restarting"})
	go s.deps.Restart()
}

func (s *Server) handleUpdate(ctx *gin.Context) {
	if s.deps.Update == nil {
		ctx.JSON(http.StatusNotImplemented, gin.H{"error": "updates unavailable"})

		return
	}

	version, err := s.deps.Update(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "updated", "version": version})
}
