package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nzayisengaemmy939/urutiq-backend-enhanced-sub005/internal/forecast"
)

// scope pulls the tenant/company identifiers off the query string. The
// components validate them again; this just keeps obviously bad requests off
// the store.
func scope(r *http.Request) (tenantID, companyID string) {
	return r.URL.Query().Get("tenant_id"), r.URL.Query().Get("company_id")
}

// asOf parses an optional as_of query parameter, defaulting to now. An
// explicit value that parses as neither RFC 3339 nor a plain date is an
// error; callers turn it into a 400.
func asOf(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("as_of")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid as_of value %q", raw)
}

func (s *Server) balances(w http.ResponseWriter, r *http.Request) {
	tenantID, companyID := scope(r)
	at, err := asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	balances, err := s.aggregator.Balances(r.Context(), tenantID, companyID, at)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balances)
}

func (s *Server) statement(w http.ResponseWriter, r *http.Request) {
	tenantID, companyID := scope(r)
	at, err := asOf(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	st, err := s.composer.Compose(r.Context(), tenantID, companyID, at)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) healthReport(w http.ResponseWriter, r *http.Request) {
	tenantID, companyID := scope(r)
	report, err := s.composer.Health(r.Context(), tenantID, companyID, time.Now().UTC())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) scanAnomalies(w http.ResponseWriter, r *http.Request) {
	tenantID, companyID := scope(r)
	anomalies, err := s.detector.Scan(r.Context(), tenantID, companyID)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, anomalies)
}

func (s *Server) generateInsights(w http.ResponseWriter, r *http.Request) {
	tenantID, companyID := scope(r)
	insights, err := s.insights.Generate(r.Context(), tenantID, companyID)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

func (s *Server) predict(w http.ResponseWriter, r *http.Request) {
	tenantID, companyID := scope(r)
	predictionType := r.URL.Query().Get("type")
	if predictionType == "" {
		predictionType = forecast.TypeRevenue
	}
	predictions, err := s.forecaster.Predict(r.Context(), tenantID, companyID, predictionType)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, predictions)
}

func (s *Server) recommend(w http.ResponseWriter, r *http.Request) {
	tenantID, companyID := scope(r)
	recommendations, err := s.recommender.Recommend(r.Context(), tenantID, companyID)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recommendations)
}
