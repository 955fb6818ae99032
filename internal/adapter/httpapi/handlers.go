package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/avendall/stockfolio/internal/domain"
	"github.com/avendall/stockfolio/internal/usecase/portfolio"
)

type handlers struct {
	service *portfolio.Service
	log     zerolog.Logger
}

func newHandlers(service *portfolio.Service, log zerolog.Logger) *handlers {
	return &handlers{service: service, log: log}
}

type summaryResponse struct {
	CashBalance     string `json:"cash_balance"`
	TotalValue      string `json:"total_value"`
	UnrealisedDelta string `json:"unrealised_delta"`
	RealisedDelta   string `json:"realised_delta"`
}

type holdingResponse struct {
	Ticker          string `json:"ticker"`
	Quantity        string `json:"quantity"`
	AverageCost     string `json:"average_cost"`
	LastPrice       string `json:"last_price"`
	CostBasis       string `json:"cost_basis"`
	CurrentValue    string `json:"current_value"`
	UnrealisedDelta string `json:"unrealised_delta"`
	RealisedDelta   string `json:"realised_delta"`
}

type tradeResponse struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Kind     string `json:"kind"`
	Ticker   string `json:"ticker"`
	Price    string `json:"price"`
	Quantity string `json:"quantity"`
}

type pricePointResponse struct {
	Date   string `json:"date"`
	Close  string `json:"close"`
	Volume int64  `json:"volume"`
}

type cashRequest struct {
	Amount string `json:"amount"`
	Kind   string `json:"kind"` // DEP or WIT
}

type tradeRequest struct {
	Ticker   string `json:"ticker"`
	Quantity string `json:"quantity"`
	Kind     string `json:"kind"`            // BUY or SELL
	Date     string `json:"date,omitempty"`  // optional YYYY-MM-DD
	Price    string `json:"price,omitempty"` // optional manual price
}

func (h *handlers) getSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, summaryResponse{
		CashBalance:     summary.CashBalance.StringFixed(2),
		TotalValue:      summary.TotalValue.StringFixed(2),
		UnrealisedDelta: summary.UnrealisedDelta.StringFixed(2),
		RealisedDelta:   summary.RealisedDelta.StringFixed(2),
	})
}

func (h *handlers) getHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.service.Holdings(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]holdingResponse, 0, len(holdings))
	for _, holding := range holdings {
		out = append(out, holdingResponse{
			Ticker:          holding.Ticker,
			Quantity:        holding.Quantity.String(),
			AverageCost:     holding.AverageCost.StringFixed(2),
			LastPrice:       holding.LastPrice.StringFixed(2),
			CostBasis:       holding.CostBasis.StringFixed(2),
			CurrentValue:    holding.CurrentValue.StringFixed(2),
			UnrealisedDelta: holding.UnrealisedDelta().StringFixed(2),
			RealisedDelta:   holding.RealisedDelta.StringFixed(2),
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *handlers) getTransactions(w http.ResponseWriter, r *http.Request) {
	trades, err := h.service.Transactions(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tradeResponses(trades))
}

func (h *handlers) getStockTransactions(w http.ResponseWriter, r *http.Request) {
	trades, err := h.service.StockTransactions(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, tradeResponses(trades))
}

func (h *handlers) getStockHistory(w http.ResponseWriter, r *http.Request) {
	points, err := h.service.PriceHistory(r.Context(), chi.URLParam(r, "ticker"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]pricePointResponse, 0, len(points))
	for _, point := range points {
		out = append(out, pricePointResponse{
			Date:   point.Date.Format(portfolio.DateLayout),
			Close:  point.Close.StringFixed(2),
			Volume: point.Volume,
		})
	}
	h.writeJSON(w, http.StatusOK, out)
}

func (h *handlers) postCash(w http.ResponseWriter, r *http.Request) {
	var req cashRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.ErrInvalidArgument)
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		h.writeError(w, domain.ErrInvalidArgument)
		return
	}
	if err := h.service.UpdateCash(r.Context(), amount, domain.CashKind(req.Kind)); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (h *handlers) postTrade(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.ErrInvalidArgument)
		return
	}
	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		h.writeError(w, domain.ErrInvalidArgument)
		return
	}

	input := portfolio.TradeInput{
		Ticker:   req.Ticker,
		Quantity: quantity,
		Kind:     domain.TradeKind(req.Kind),
		Date:     req.Date,
	}
	if req.Price != "" {
		price, err := decimal.NewFromString(req.Price)
		if err != nil {
			h.writeError(w, domain.ErrInvalidArgument)
			return
		}
		input.Price = &price
	}

	entry, err := h.service.RecordTrade(r.Context(), input)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, tradeResponse{
		ID:       entry.ID.String(),
		Date:     entry.Date.Format(portfolio.DateLayout),
		Kind:     string(entry.Kind),
		Ticker:   entry.Ticker,
		Price:    entry.Price.StringFixed(2),
		Quantity: entry.Quantity.String(),
	})
}

func tradeResponses(trades []*domain.TradeEntry) []tradeResponse {
	out := make([]tradeResponse, 0, len(trades))
	for _, entry := range trades {
		out = append(out, tradeResponse{
			ID:       entry.ID.String(),
			Date:     entry.Date.Format(portfolio.DateLayout),
			Kind:     string(entry.Kind),
			Ticker:   entry.Ticker,
			Price:    entry.Price.StringFixed(2),
			Quantity: entry.Quantity.String(),
		})
	}
	return out
}

func (h *handlers) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (h *handlers) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownTicker):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds), errors.Is(err, domain.ErrInsufficientShares):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("request failed")
	}
	h.writeJSON(w, status, map[string]string{"error": err.Error()})
}
