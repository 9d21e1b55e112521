package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/equitydesk/equitydesk/internal/backend/ledger"
	"github.com/equitydesk/equitydesk/internal/backend/store"
	"github.com/equitydesk/equitydesk/internal/domain"
	"github.com/equitydesk/equitydesk/internal/metrics"
	"github.com/equitydesk/equitydesk/pkg/logger"
)

type positionsResponse struct {
	Positions []domain.Position `json:"positions"`
}

type ordersResponse struct {
	Orders []store.JournalEntry `json:"orders"`
}

func (s *Server) handlePositionsDetails(w http.ResponseWriter, r *http.Request) {
	positions, err := s.ledger.Positions(r.Context())
	if err != nil {
		logger.Errorf("positions: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load positions")
		return
	}
	metrics.PositionsServed.Add(1)
	writeJSON(w, http.StatusOK, positionsResponse{Positions: positions})
}

func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var in ledger.Instruction
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	res, err := s.ledger.Apply(r.Context(), in)
	if err != nil {
		logger.Errorf("execute: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to execute order")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleOrders(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	entries, err := s.ledger.Journal(r.Context(), limit)
	if err != nil {
		logger.Errorf("orders: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load orders")
		return
	}
	if entries == nil {
		entries = []store.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, ordersResponse{Orders: entries})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warnf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
