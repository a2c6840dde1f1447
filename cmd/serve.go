package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/enrich"
	"github.com/sells-group/enrich-cli/internal/model"
	"github.com/sells-group/enrich-cli/internal/provider"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP enrichment API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireValidConfig("serve"); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reg := buildRegistry(cfg)
		orch, err := buildOrchestrator(cfg, reg)
		if err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(reg, orch),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// newRouter builds the HTTP API. Split out from the command so tests can
// exercise the handlers without binding a port.
func newRouter(reg *provider.Registry, orch *enrich.Orchestrator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/v1/providers", func(w http.ResponseWriter, _ *http.Request) {
		type providerStatus struct {
			Name         string                `json:"name"`
			Configured   bool                  `json:"configured"`
			Capabilities []provider.Capability `json:"capabilities"`
		}
		adapters := reg.List()
		out := make([]providerStatus, 0, len(adapters))
		for _, a := range adapters {
			out = append(out, providerStatus{
				Name:         a.Name(),
				Configured:   a.Configured(),
				Capabilities: a.Capabilities(),
			})
		}
		writeJSON(w, http.StatusOK, out)
	})

	r.Post("/v1/enrich/person", func(w http.ResponseWriter, req *http.Request) {
		var ref model.PersonRef
		if err := json.NewDecoder(req.Body).Decode(&ref); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		result := orch.EnrichPerson(req.Context(), ref)
		writeJSON(w, resultStatus(result), result)
	})

	r.Post("/v1/enrich/company", func(w http.ResponseWriter, req *http.Request) {
		var ref model.CompanyRef
		if err := json.NewDecoder(req.Body).Decode(&ref); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		result := orch.EnrichCompany(req.Context(), ref)
		writeJSON(w, resultStatus(result), result)
	})

	return r
}

// resultStatus maps an orchestrator result to an HTTP status. An invalid
// request (no identifier) is the caller's error; everything else is 200,
// including partial and total provider failure, since the result body
// carries the per-provider outcome.
func resultStatus(result *enrich.Result) int {
	if result.ProviderErrors[enrich.RequestErrorKey] == provider.ErrInvalidRequest {
		return http.StatusBadRequest
	}
	return http.StatusOK
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("write response", zap.Error(err))
	}
}
