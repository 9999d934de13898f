package http

import (
	"context"
	"errors"
	"net/http"

	"ledgerboard/internal/core"
	"ledgerboard/internal/ledgers"
	applog "ledgerboard/internal/log"
	"ledgerboard/internal/report"
)

// handleDashboard returns the report for one user's ledger.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	req := parseDashboardRequest(r)
	if !ledgers.ValidUserID(req.UserID) {
		writeError(w, r, http.StatusNotFound, "ledger not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	ledger, err := s.reader.ReadLedger(ctx, req.UserID)
	if err != nil {
		s.writeReadError(w, r, req.UserID, err)
		return
	}

	rep := s.engine.Build(ledger, report.Request{
		SelectedYear: req.Year,
		Now:          s.now(),
	})

	applog.NewStructuredLogger(applog.FromContext(ctx)).
		LogReportBuilt(ctx, req.UserID, rep.SelectedYear, len(rep.Charts.IncomeVsExpense), len(rep.RecentTransactions))

	writeJSON(w, r, http.StatusOK, rep)
}

func (s *Server) writeReadError(w http.ResponseWriter, r *http.Request, userID string, err error) {
	ctx := r.Context()
	sl := applog.NewStructuredLogger(applog.FromContext(ctx))
	fields := applog.NewFields().WithUserID(userID)

	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "ledger not found")
	case core.IsDataShape(err):
		sl.LogError(ctx, "Stored ledger is malformed", err, applog.ComponentReport, applog.OpBuild, fields)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	case errors.Is(err, context.DeadlineExceeded):
		sl.LogError(ctx, "Ledger read timed out", err, applog.ComponentHTTP, applog.OpRead, fields)
		writeError(w, r, http.StatusGatewayTimeout, "ledger read timed out")
	default:
		sl.LogError(ctx, "Ledger read failed", err, applog.ComponentHTTP, applog.OpRead, fields)
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		applog.FieldClientIP, s.detector.ExtractClientIP(r),
		applog.FieldPath, r.URL.Path)
	writeError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady pings the ledger reader when it supports it.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if p, ok := s.reader.(ledgers.Pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			s.logger.WarnContext(ctx, "Readiness check failed", applog.FieldError, err.Error())
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
