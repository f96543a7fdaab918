// Package server exposes the analytics components over HTTP. Request parsing
// and response shaping only; authentication and role checks live upstream.
package server

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/anomaly"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/events"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/forecast"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/insight"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/ledger"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/recommend"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/runlog"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/statement"
	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/store"
)

type Server struct {
	aggregator  *ledger.Aggregator
	composer    *statement.Composer
	detector    *anomaly.Detector
	insights    *insight.Generator
	forecaster  *forecast.Forecaster
	recommender *recommend.Engine
	router      chi.Router
	addr        string
}

func New(st store.LedgerStore, pub events.Publisher, rl *runlog.Logger, addr string) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	s := &Server{
		aggregator:  ledger.NewAggregator(st),
		composer:    statement.NewComposer(st),
		detector:    anomaly.NewDetector(st, pub, rl),
		insights:    insight.NewGenerator(st, pub, rl),
		forecaster:  forecast.NewForecaster(st, pub, rl),
		recommender: recommend.NewEngine(st, pub, rl),
		router:      r,
		addr:        addr,
	}

	r.Get("/health", s.health)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/reports/balances", s.balances)
		r.Get("/reports/statement", s.statement)
		r.Get("/reports/health", s.healthReport)

		r.Post("/analytics/anomalies", s.scanAnomalies)
		r.Post("/analytics/insights", s.generateInsights)
		r.Post("/analytics/predictions", s.predict)
		r.Post("/analytics/recommendations", s.recommend)
	})

	return s
}

func (s *Server) ListenAndServe() error {
	log.Printf("analytics server listening on %s", s.addr)
	return http.ListenAndServe(s.addr, s.router)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
