// Package httpapi exposes the scheduling facade (C10) over HTTP using
// gorilla/mux, the teacher's own router. It owns JSON encoding/decoding,
// status-code translation of *scheduler.Error, CORS, and graceful
// shutdown — none of which the core concerns itself with (SPEC_FULL §6).
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fog-compute/internal/logging"
	"fog-compute/internal/model"
	"fog-compute/internal/scheduler"
	"fog-compute/internal/store"
)

// Server wraps the HTTP surface around the scheduling facade. It keeps
// an in-memory fleet registry so a caller can register fog nodes and
// devices once and omit them from subsequent schedule requests.
type Server struct {
	logger     logging.Logger
	srv        *http.Server
	fleet      *store.Memory
	solverOpts scheduler.SolverOptions
}

// New builds a Server listening on addr (e.g. ":8080"). solverOpts
// carries the --parallel/--workers setting (SPEC_FULL §5) applied to
// every schedule call this server handles.
func New(addr string, logger logging.Logger, solverOpts scheduler.SolverOptions) *Server {
	if logger == nil {
		logger = logging.Nop()
	}
	router := mux.NewRouter()
	router.Use(corsMiddleware)

	s := &Server{logger: logger, fleet: store.NewMemory(), solverOpts: solverOpts}
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/fleet/fog-nodes", s.handleRegisterFogNode).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/fleet/devices", s.handleRegisterDevice).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/schedule", s.handleSchedule).Methods(http.MethodPost)

	s.srv = &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // experiment sweeps can run long
	}
	return s
}

// Run serves until ctx is cancelled or an OS interrupt/TERM signal is
// received, then shuts the server down gracefully (ported from the
// teacher's main.go signal-handling loop).
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		select {
		case <-sigint:
		case <-ctx.Done():
			return
		}
		s.logger.Info("shutting down http server", nil)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", map[string]any{"error": err.Error()})
		}
	}()

	s.logger.Info("http server listening", map[string]any{"addr": s.srv.Addr})
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleRegisterFogNode(w http.ResponseWriter, r *http.Request) {
	var node model.FogNode
	if err := json.NewDecoder(r.Body).Decode(&node); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.fleet.RegisterFogNode(node); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": node.ID})
}

func (s *Server) handleRegisterDevice(w http.ResponseWriter, r *http.Request) {
	var device model.TerminalDevice
	if err := json.NewDecoder(r.Body).Decode(&device); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.fleet.RegisterDevice(device); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": device.ID})
}

// handleSchedule decodes a request and, when it omits fog nodes or
// devices, resolves them against the fleet registered through
// /api/v1/fleet/* rather than rejecting it for missing inline state.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduler.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if len(req.FogNodes) == 0 {
		req.FogNodes = s.fleet.AllFogNodes()
	}
	if len(req.Devices) == 0 {
		req.Devices = s.fleet.AllDevices()
	}

	result, err := scheduler.Handle(r.Context(), req, s.logger, s.solverOpts)
	if err != nil {
		s.writeSchedulerError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeSchedulerError(w http.ResponseWriter, err error) {
	se, ok := err.(*scheduler.Error)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	status := http.StatusInternalServerError
	switch se.Kind {
	case scheduler.KindValidation:
		status = http.StatusBadRequest
	case scheduler.KindNoResources:
		status = http.StatusServiceUnavailable
	case scheduler.KindScheduling:
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, map[string]string{"kind": string(se.Kind), "message": se.Message, "field": se.FieldPath})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
