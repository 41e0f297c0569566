package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/yongchuan/taxgo/internal/advisor"
	"github.com/yongchuan/taxgo/internal/calculation"
	"github.com/yongchuan/taxgo/internal/compare"
	"github.com/yongchuan/taxgo/internal/domain"
	"github.com/yongchuan/taxgo/internal/facts"
	"github.com/yongchuan/taxgo/internal/quota"
)

// Server is the HTTP boundary over the estimation engine. The engine itself
// stays transport-free; everything request-shaped lives here.
type Server struct {
	calc       *calculation.Engine
	comparator *compare.Comparator
	summarizer *facts.Summarizer
	quota      quota.Service
	relay      advisor.Relay
	logger     *zap.Logger
}

// New wires a server. relay may be nil when no chat provider is configured;
// /api/chat then answers 503.
func New(calc *calculation.Engine, comparator *compare.Comparator, summarizer *facts.Summarizer, q quota.Service, relay advisor.Relay, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		calc:       calc,
		comparator: comparator,
		summarizer: summarizer,
		quota:      q,
		relay:      relay,
		logger:     logger,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("POST /api/tax/estate", s.handleEstate)
	mux.HandleFunc("POST /api/tax/gift", s.handleGift)
	mux.HandleFunc("POST /api/tax/compare", s.handleCompare)
	mux.HandleFunc("POST /api/tax/facts", s.handleFacts)
	mux.HandleFunc("POST /api/chat", s.handleChat)

	return mux
}

// Serve listens on the port until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

type estateRequest struct {
	GrossEstate         float64 `json:"gross_estate"`
	Debts               float64 `json:"debts"`
	FuneralExpense      float64 `json:"funeral_expense"`
	LifeInsurancePayout float64 `json:"life_insurance_payout"`
	SpouseCount         int     `json:"spouse_count"`
	LinealDescendants   int     `json:"lineal_descendants"`
	LinealAscendants    int     `json:"lineal_ascendants"`
	DisabledCount       int     `json:"disabled_count"`
	OtherDependents     int     `json:"other_dependents"`
	AsOf                string  `json:"as_of,omitempty"`
}

func (s *Server) handleEstate(w http.ResponseWriter, r *http.Request) {
	var req estateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	asOf, err := parseAsOf(req.AsOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
		return
	}

	result, err := s.calc.Estate.Estimate(domain.EstateInput{
		GrossEstate:         decimal.NewFromFloat(req.GrossEstate),
		Debts:               decimal.NewFromFloat(req.Debts),
		FuneralExpense:      decimal.NewFromFloat(req.FuneralExpense),
		LifeInsurancePayout: decimal.NewFromFloat(req.LifeInsurancePayout),
		SpouseCount:         req.SpouseCount,
		LinealDescendants:   req.LinealDescendants,
		LinealAscendants:    req.LinealAscendants,
		DisabledCount:       req.DisabledCount,
		OtherDependents:     req.OtherDependents,
	}, asOf)
	if err != nil {
		s.fail(w, "estate estimation", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type giftRequest struct {
	GiftsAmount   float64 `json:"gifts_amount"`
	SpouseSplit   bool    `json:"spouse_split"`
	MinorChildren int     `json:"minor_children"`
	AsOf          string  `json:"as_of,omitempty"`
}

func (s *Server) handleGift(w http.ResponseWriter, r *http.Request) {
	var req giftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	asOf, err := parseAsOf(req.AsOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
		return
	}

	result, err := s.calc.Gift.Estimate(domain.GiftInput{
		GiftsAmount:   decimal.NewFromFloat(req.GiftsAmount),
		SpouseSplit:   req.SpouseSplit,
		MinorChildren: req.MinorChildren,
	}, asOf)
	if err != nil {
		s.fail(w, "gift estimation", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type compareRequest struct {
	GrossEstate   float64 `json:"gross_estate"`
	NumChildren   int     `json:"num_children"`
	IncludeSpouse bool    `json:"include_spouse"`
	Years         int     `json:"years"`
	Recipients    int     `json:"recipients"`
	AsOf          string  `json:"as_of,omitempty"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	asOf, err := parseAsOf(req.AsOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
		return
	}

	comparison, err := s.comparator.Compare(compare.Options{
		GrossEstate:   decimal.NewFromFloat(req.GrossEstate),
		NumChildren:   req.NumChildren,
		IncludeSpouse: req.IncludeSpouse,
		Years:         req.Years,
		Recipients:    req.Recipients,
		AsOf:          asOf,
	})
	if err != nil {
		s.fail(w, "scenario comparison", err)
		return
	}
	writeJSON(w, http.StatusOK, comparison)
}

type factsRequest struct {
	TaxType string `json:"tax_type"`
	AsOf    string `json:"as_of,omitempty"`
}

func (s *Server) handleFacts(w http.ResponseWriter, r *http.Request) {
	var req factsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	asOf, err := parseAsOf(req.AsOf)
	if err != nil {
		writeError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
		return
	}

	taxType := domain.TaxTypeEstate
	switch req.TaxType {
	case "", string(domain.TaxTypeEstate):
	case string(domain.TaxTypeGift):
		taxType = domain.TaxTypeGift
	default:
		writeError(w, http.StatusBadRequest, "tax_type must be estate or gift")
		return
	}

	sheet, err := s.summarizer.Summarize(taxType, asOf)
	if err != nil {
		s.fail(w, "fact summary", err)
		return
	}
	writeJSON(w, http.StatusOK, sheet)
}

type chatRequest struct {
	Identity string `json:"identity"`
	Question string `json:"question"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Question == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	identity := req.Identity
	if identity == "" {
		identity = quota.NewIdentity()
	}

	decision := s.quota.CheckAndIncrement(identity, time.Now())
	if !decision.Allowed {
		writeJSON(w, http.StatusPaymentRequired, map[string]any{
			"error": "daily quota exhausted",
			"used":  decision.Used,
			"limit": decision.Limit,
		})
		return
	}

	if s.relay == nil {
		writeError(w, http.StatusServiceUnavailable, "chat provider not configured")
		return
	}

	answer, err := s.relay.Reply(r.Context(), req.Question)
	if err != nil {
		s.fail(w, "chat relay", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"identity": identity,
		"answer":   answer,
		"used":     decision.Used,
		"limit":    decision.Limit,
	})
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	s.logger.Error(op+" failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, op+" failed")
}

// parseAsOf treats an empty as_of as "today".
func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	return time.Parse("2006-01-02", s)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
