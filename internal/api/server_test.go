package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamyonapp/hamyon/internal/common"
	"github.com/hamyonapp/hamyon/internal/model"
	"github.com/hamyonapp/hamyon/internal/service"
)

// stubStorage implements just the methods the API touches; everything else
// panics through the embedded nil interface.
type stubStorage struct {
	service.Storage

	users    map[int64]*model.User
	txs      []model.Transaction
	commits  []model.Transaction
	pingErr  error
	commitFn func(tx model.Transaction) (service.CommitReceipt, error)
}

func (s *stubStorage) Ping(context.Context) error { return s.pingErr }

func (s *stubStorage) GetUser(_ context.Context, telegramID int64) (*model.User, error) {
	if u, ok := s.users[telegramID]; ok {
		return u, nil
	}
	return nil, fmt.Errorf("user %d: %w", telegramID, common.ErrNotFound)
}

func (s *stubStorage) ListTransactions(_ context.Context, telegramID int64, filter service.TransactionFilter) ([]model.Transaction, error) {
	var out []model.Transaction
	for _, tx := range s.txs {
		if tx.UserID == telegramID {
			out = append(out, tx)
		}
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (s *stubStorage) CommitTransaction(_ context.Context, tx model.Transaction) (service.CommitReceipt, error) {
	s.commits = append(s.commits, tx)
	if s.commitFn != nil {
		return s.commitFn(tx)
	}
	return service.CommitReceipt{TransactionID: 1, Balance: tx.Amount}, nil
}

func newTestServer(storage *stubStorage) *Server {
	return New(Config{Host: "127.0.0.1", Port: 0}, storage)
}

func doRequest(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func TestStatus(t *testing.T) {
	s := newTestServer(&stubStorage{})
	rec := doRequest(t, s, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestStatusDBDown(t *testing.T) {
	s := newTestServer(&stubStorage{pingErr: fmt.Errorf("closed")})
	rec := doRequest(t, s, http.MethodGet, "/status", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestMetrics(t *testing.T) {
	s := newTestServer(&stubStorage{})
	rec := doRequest(t, s, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestSync(t *testing.T) {
	storage := &stubStorage{
		users: map[int64]*model.User{
			42: {TelegramID: 42, Name: "Aziza", Language: model.LangUz, Balance: 150000},
		},
		txs: []model.Transaction{
			{ID: 2, UserID: 42, Type: model.TxExpense, Category: "food", Amount: -25000,
				Source: model.SourceText, Date: time.Date(2024, 6, 2, 12, 0, 0, 0, time.UTC)},
			{ID: 1, UserID: 42, Type: model.TxIncome, Category: "salary", Amount: 175000,
				Source: model.SourceApp, Date: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)},
		},
	}
	s := newTestServer(storage)

	rec := doRequest(t, s, http.MethodGet, "/api/sync?telegram_id=42", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp syncResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.User.TelegramID)
	assert.Equal(t, int64(150000), resp.User.Balance)
	assert.Equal(t, "uz", resp.User.Language)
	require.Len(t, resp.Transactions, 2)
	assert.Equal(t, "food", resp.Transactions[0].Category)
	assert.Equal(t, int64(-25000), resp.Transactions[0].Amount)
}

func TestSyncValidation(t *testing.T) {
	s := newTestServer(&stubStorage{users: map[int64]*model.User{}})

	rec := doRequest(t, s, http.MethodGet, "/api/sync", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/sync?telegram_id=abc", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, s, http.MethodGet, "/api/sync?telegram_id=99", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateTransaction(t *testing.T) {
	storage := &stubStorage{
		commitFn: func(tx model.Transaction) (service.CommitReceipt, error) {
			return service.CommitReceipt{TransactionID: 7, Balance: 125000}, nil
		},
	}
	s := newTestServer(storage)

	body := `{"telegram_id":42,"type":"expense","category":"food","amount":25000}`
	rec := doRequest(t, s, http.MethodPost, "/api/transactions", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp createTransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(7), resp.ID)
	assert.Equal(t, int64(125000), resp.Balance)
	assert.False(t, resp.Duplicate)

	require.Len(t, storage.commits, 1)
	committed := storage.commits[0]
	assert.Equal(t, int64(-25000), committed.Amount, "expense amounts are stored negative")
	assert.Equal(t, model.SourceApp, committed.Source)
	assert.NotEmpty(t, committed.DraftID, "a draft id is generated when the client omits one")
}

func TestCreateTransactionIdempotent(t *testing.T) {
	storage := &stubStorage{
		commitFn: func(tx model.Transaction) (service.CommitReceipt, error) {
			return service.CommitReceipt{TransactionID: 7, Balance: 125000, Duplicate: true}, nil
		},
	}
	s := newTestServer(storage)

	body := `{"telegram_id":42,"type":"income","category":"salary","amount":175000,"draft_id":"app-123"}`
	rec := doRequest(t, s, http.MethodPost, "/api/transactions", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp createTransactionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Duplicate)
	assert.Equal(t, "app-123", storage.commits[0].DraftID)
}

func TestCreateTransactionValidation(t *testing.T) {
	s := newTestServer(&stubStorage{})

	tests := []struct {
		name string
		body string
	}{
		{name: "bad json", body: `{`},
		{name: "missing user", body: `{"type":"expense","amount":100}`},
		{name: "bad type", body: `{"telegram_id":42,"type":"transfer","amount":100}`},
		{name: "zero amount", body: `{"telegram_id":42,"type":"expense","amount":0}`},
		{name: "negative amount", body: `{"telegram_id":42,"type":"expense","amount":-100}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, "/api/transactions", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
