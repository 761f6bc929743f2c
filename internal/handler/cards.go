package handler

import (
	"context"
	"net/http"

	"github.com/Dan9191/card-ledger/internal/models"
	"github.com/Dan9191/card-ledger/internal/service"
	"github.com/Dan9191/card-ledger/internal/utils"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type createCardRequest struct {
	UserID   int64  `json:"userId"`
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

type fundsRequest struct {
	CardNumber    string          `json:"cardNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Description   string          `json:"description"`
	OperationType string          `json:"operationType"`
	Date          int64           `json:"date"`
}

type transferRequest struct {
	SourceCardNumber string          `json:"sourceCardNumber"`
	TargetCardNumber string          `json:"targetCardNumber"`
	Amount           decimal.Decimal `json:"amount"`
}

// CreateCard issues a card
func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if !h.decode(w, r, &req) {
		return
	}
	card, err := h.svc.CreateCard(r.Context(), req.UserID, req.Name, models.Currency(req.Currency))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

// GetCardsByUser lists the cards of a user
func (h *Handler) GetCardsByUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	cards, err := h.svc.CardsByUser(r.Context(), id)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// GetCardByNumber returns a card
func (h *Handler) GetCardByNumber(w http.ResponseWriter, r *http.Request) {
	card, err := h.svc.CardByNumber(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// UpdateCard applies a partial update
func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	var patch models.CardPatch
	if !h.decode(w, r, &patch) || !cardNumbers(w, patch.Number) {
		return
	}
	if err := h.svc.UpdateCard(r.Context(), patch); err != nil {
		h.fail(w, err)
		return
	}
	writeStatus(w, http.StatusOK, "updated")
}

// DeleteCard removes a card
func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCard(r.Context(), mux.Vars(r)["number"]); err != nil {
		h.fail(w, err)
		return
	}
	writeStatus(w, http.StatusOK, "deleted")
}

// TopUp credits a card
func (h *Handler) TopUp(w http.ResponseWriter, r *http.Request) {
	h.funds(w, r, h.svc.TopUp)
}

// Withdraw debits a card
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.funds(w, r, h.svc.Withdraw)
}

func (h *Handler) funds(w http.ResponseWriter, r *http.Request, op func(context.Context, service.FundsRequest) error) {
	var req fundsRequest
	if !h.decode(w, r, &req) || !cardNumbers(w, req.CardNumber) {
		return
	}
	currency, err := models.ParseCurrency(req.Currency)
	if err != nil {
		h.fail(w, err)
		return
	}

	err = op(r.Context(), service.FundsRequest{
		CardNumber:  req.CardNumber,
		Amount:      req.Amount,
		Currency:    currency,
		Description: req.Description,
		Type:        req.OperationType,
		Date:        req.Date,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	writeStatus(w, http.StatusOK, "updated")
}

// Transfer moves funds between cards
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if !h.decode(w, r, &req) || !cardNumbers(w, req.SourceCardNumber, req.TargetCardNumber) {
		return
	}
	if err := h.svc.Transfer(r.Context(), req.SourceCardNumber, req.TargetCardNumber, req.Amount); err != nil {
		h.fail(w, err)
		return
	}
	writeStatus(w, http.StatusOK, "updated")
}

// GetOperations returns the history of a card
func (h *Handler) GetOperations(w http.ResponseWriter, r *http.Request) {
	ops, err := h.svc.History(r.Context(), mux.Vars(r)["number"])
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ops)
}

// cardNumbers rejects the request unless every number has the issued format
func cardNumbers(w http.ResponseWriter, numbers ...string) bool {
	for _, n := range numbers {
		if !utils.IsCardNumber(n) {
			writeError(w, http.StatusBadRequest, "invalid card number: "+n)
			return false
		}
	}
	return true
}
