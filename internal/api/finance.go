package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hamyonapp/hamyon/internal/common"
	"github.com/hamyonapp/hamyon/internal/model"
)

// Write endpoints for the planning records the bot only reads: category
// limits, savings goals, and debts. Companion apps manage these.

type setLimitRequest struct {
	TelegramID   int64  `json:"telegram_id"`
	Category     string `json:"category"`
	Monthly      int64  `json:"monthly"`
	AlertPercent int64  `json:"alert_percent"`
}

// handleSetLimit inserts or replaces one category limit.
func (s *Server) handleSetLimit(c echo.Context) error {
	var req setLimitRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid json body"})
	}
	if req.TelegramID <= 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "telegram_id must be a positive integer"})
	}
	if req.Category == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "category is required"})
	}
	if req.Monthly <= 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "monthly must be positive"})
	}
	if req.AlertPercent < 0 || req.AlertPercent > 100 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "alert_percent must be 0-100"})
	}

	err := s.storage.SetLimit(c.Request().Context(), model.Limit{
		UserID:       req.TelegramID,
		Category:     req.Category,
		Monthly:      req.Monthly,
		AlertPercent: req.AlertPercent,
	})
	if err != nil {
		s.logger.Error("failed to set limit", "telegram_id", req.TelegramID, "category", req.Category, "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}

type createGoalRequest struct {
	TelegramID int64  `json:"telegram_id"`
	Name       string `json:"name"`
	Target     int64  `json:"target"`
}

// handleCreateGoal records a new savings goal.
func (s *Server) handleCreateGoal(c echo.Context) error {
	var req createGoalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid json body"})
	}
	if req.TelegramID <= 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "telegram_id must be a positive integer"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "name is required"})
	}
	if req.Target <= 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "target must be positive"})
	}

	err := s.storage.AddGoal(c.Request().Context(), model.Goal{
		UserID: req.TelegramID,
		Name:   req.Name,
		Target: req.Target,
	})
	if err != nil {
		s.logger.Error("failed to add goal", "telegram_id", req.TelegramID, "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
	return c.NoContent(http.StatusCreated)
}

type createDebtRequest struct {
	TelegramID int64  `json:"telegram_id"`
	Person     string `json:"person"`
	Direction  string `json:"direction"`
	Amount     int64  `json:"amount"`
}

// handleCreateDebt records a new open borrowed/lent entry. Debts live
// outside the balance until settled.
func (s *Server) handleCreateDebt(c echo.Context) error {
	var req createDebtRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid json body"})
	}
	if req.TelegramID <= 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "telegram_id must be a positive integer"})
	}
	if req.Person == "" {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "person is required"})
	}
	direction := model.DebtDirection(req.Direction)
	if direction != model.DebtBorrowed && direction != model.DebtLent {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "direction must be borrowed or lent"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "amount must be positive"})
	}

	err := s.storage.AddDebt(c.Request().Context(), model.Debt{
		UserID:    req.TelegramID,
		Person:    req.Person,
		Direction: direction,
		Amount:    req.Amount,
	})
	if err != nil {
		s.logger.Error("failed to add debt", "telegram_id", req.TelegramID, "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
	return c.NoContent(http.StatusCreated)
}

type settleDebtRequest struct {
	TelegramID int64 `json:"telegram_id"`
}

// handleSettleDebt closes one open debt. Settling records the closure only;
// the repayment itself is entered as a normal transaction.
func (s *Server) handleSettleDebt(c echo.Context) error {
	debtID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || debtID <= 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "debt id must be a positive integer"})
	}

	var req settleDebtRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid json body"})
	}
	if req.TelegramID <= 0 {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "telegram_id must be a positive integer"})
	}

	err = s.storage.SettleDebt(c.Request().Context(), req.TelegramID, debtID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "open debt not found"})
		}
		s.logger.Error("failed to settle debt", "telegram_id", req.TelegramID, "debt_id", debtID, "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}
