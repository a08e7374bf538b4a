package receipt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "receipt.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"merchant": " Korzinka ", "total": 97500, "raw_text": "KORZINKA.UZ\nJAMI: 97 500"}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{URL: server.URL})
	require.NoError(t, err)

	got, err := client.Extract(context.Background(), strings.NewReader("jpegdata"), "receipt.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Korzinka", got.Merchant)
	assert.Equal(t, int64(97500), got.Total)
	assert.Contains(t, got.RawText, "JAMI")
}

func TestClientExtractErrors(t *testing.T) {
	t.Run("missing URL", func(t *testing.T) {
		_, err := NewClient(Config{})
		assert.Error(t, err)
	})

	t.Run("no total", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"merchant": "Korzinka", "total": 0}`))
		}))
		defer server.Close()

		client, err := NewClient(Config{URL: server.URL})
		require.NoError(t, err)

		_, err = client.Extract(context.Background(), strings.NewReader("x"), "r.jpg")
		assert.ErrorContains(t, err, "no total")
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "bad image", http.StatusUnprocessableEntity)
		}))
		defer server.Close()

		client, err := NewClient(Config{URL: server.URL})
		require.NoError(t, err)

		_, err = client.Extract(context.Background(), strings.NewReader("x"), "r.jpg")
		assert.ErrorContains(t, err, "422")
	})
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Extract(context.Background(), strings.NewReader("x"), "r.jpg")
	assert.ErrorIs(t, err, ErrUnavailable)
}
