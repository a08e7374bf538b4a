package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hamyonapp/hamyon/internal/common"
	"github.com/hamyonapp/hamyon/internal/model"
	"github.com/hamyonapp/hamyon/internal/service"
)

// syncLimit caps how many ledger rows one sync response carries.
const syncLimit = 200

type errorResponse struct {
	Error string `json:"error"`
}

type syncUser struct {
	TelegramID int64  `json:"telegram_id"`
	Name       string `json:"name,omitempty"`
	Language   string `json:"language"`
	Balance    int64  `json:"balance"`
}

type syncTransaction struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Amount      int64  `json:"amount"`
	Source      string `json:"source"`
	Date        string `json:"date"`
}

type syncResponse struct {
	User         syncUser          `json:"user"`
	Transactions []syncTransaction `json:"transactions"`
}

// handleSync returns the user's profile, balance, and recent ledger rows in
// one payload so a companion app can refresh with a single round trip.
func (s *Server) handleSync(c echo.Context) error {
	telegramID, err := strconv.ParseInt(c.QueryParam("telegram_id"), 10, 64)
	if err != nil || telegramID <= 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "telegram_id must be a positive integer"})
	}

	ctx := c.Request().Context()
	user, err := s.storage.GetUser(ctx, telegramID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
		}
		s.logger.Error("failed to load user", "telegram_id", telegramID, "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}

	txs, err := s.storage.ListTransactions(ctx, telegramID, service.TransactionFilter{Limit: syncLimit})
	if err != nil {
		s.logger.Error("failed to list transactions", "telegram_id", telegramID, "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}

	resp := syncResponse{
		User: syncUser{
			TelegramID: user.TelegramID,
			Name:       user.Name,
			Language:   string(user.Language),
			Balance:    user.Balance,
		},
		Transactions: make([]syncTransaction, 0, len(txs)),
	}
	for _, tx := range txs {
		resp.Transactions = append(resp.Transactions, syncTransaction{
			ID:          tx.ID,
			Type:        string(tx.Type),
			Category:    tx.Category,
			Description: tx.Description,
			Amount:      tx.Amount,
			Source:      string(tx.Source),
			Date:        tx.Date.Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, resp)
}

type createTransactionRequest struct {
	TelegramID  int64  `json:"telegram_id"`
	Type        string `json:"type"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	// DraftID makes a retried submission idempotent. Omitting it generates
	// a fresh id, so the request commits unconditionally.
	DraftID string `json:"draft_id"`
}

type createTransactionResponse struct {
	ID        int64 `json:"id"`
	Balance   int64 `json:"balance"`
	Duplicate bool  `json:"duplicate"`
}

// handleCreateTransaction commits one app-submitted transaction. Amount
// arrives positive; the sign comes from the type.
func (s *Server) handleCreateTransaction(c echo.Context) error {
	var req createTransactionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid json body"})
	}

	if req.TelegramID <= 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "telegram_id must be a positive integer"})
	}
	txType := model.TxType(req.Type)
	if !txType.Valid() {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "type must be expense, income, or debt"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "amount must be positive"})
	}
	if req.Category == "" {
		req.Category = "other"
	}
	if req.DraftID == "" {
		req.DraftID = uuid.NewString()
	}

	receipt, err := s.storage.CommitTransaction(c.Request().Context(), model.Transaction{
		DraftID:     req.DraftID,
		UserID:      req.TelegramID,
		Type:        txType,
		Category:    req.Category,
		Description: req.Description,
		Amount:      model.SignedAmount(txType, req.Amount),
		Source:      model.SourceApp,
	})
	if err != nil {
		s.logger.Error("failed to commit transaction", "telegram_id", req.TelegramID, "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}

	status := http.StatusCreated
	if receipt.Duplicate {
		status = http.StatusOK
	}
	return c.JSON(status, createTransactionResponse{
		ID:        receipt.TransactionID,
		Balance:   receipt.Balance,
		Duplicate: receipt.Duplicate,
	})
}
