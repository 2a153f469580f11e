package main

import (
	"context"
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

	"github.com/sells-group/qualify-cli/internal/model"
	"github.com/sells-group/qualify-cli/internal/pipeline"
	"github.com/sells-group/qualify-cli/internal/registry"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP entry points for the qualification pipeline",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
		r.Post("/qualify", handleQualify(env))
		r.Post("/registry/lookup", handleRegistryLookup(env))
		r.Post("/product-fit", handleProductFit(env))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				zap.L().Error("server shutdown", zap.Error(err))
			}
		}()

		zap.L().Info("server listening", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "serve")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port to listen on (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// qualifyRequest accepts any of the source shapes; Shape selects which
// payload the normalizer reads.
type qualifyRequest struct {
	Source     model.SourceRecord `json:"source"`
	Enrich     bool               `json:"enrich"`
	ProductFit bool               `json:"product_fit"`
	Catalog    []model.Product    `json:"catalog,omitempty"`
}

func handleQualify(env *pipelineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body qualifyRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		out, err := env.Runner.Qualify(req.Context(), body.Source, pipeline.Options{
			Enrich:     body.Enrich,
			ProductFit: body.ProductFit,
			Catalog:    body.Catalog,
		})
		if err != nil {
			status := http.StatusInternalServerError
			if eris.Is(err, model.ErrInvalidIdentifier) {
				status = http.StatusUnprocessableEntity
			}
			writeError(w, status, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func handleRegistryLookup(env *pipelineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			TaxID string `json:"tax_id"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.TaxID == "" {
			writeError(w, http.StatusBadRequest, "tax_id is required")
			return
		}

		rec, err := env.Registry.Lookup(req.Context(), body.TaxID)
		if err != nil {
			switch {
			case eris.Is(err, model.ErrInvalidIdentifier):
				writeError(w, http.StatusUnprocessableEntity, err.Error())
			case eris.Is(err, model.ErrNoRegistryData):
				writeError(w, http.StatusNotFound, err.Error())
			default:
				writeError(w, http.StatusBadGateway, err.Error())
			}
			return
		}

		quality, points := registry.QualityScore(rec)
		writeJSON(w, http.StatusOK, map[string]any{
			"data_quality":   string(quality),
			"quality_points": points,
			"record":         rec,
		})
	}
}

func handleProductFit(env *pipelineEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Company *model.NormalizedCompany `json:"company"`
			Catalog []model.Product          `json:"catalog"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		result, err := env.Scorer.ScoreFit(req.Context(), body.Company, body.Catalog)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
