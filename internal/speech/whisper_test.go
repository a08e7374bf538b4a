package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientTranscribe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "whisper-1", r.FormValue("model"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "voice.ogg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "  taksi 20 ming  "}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL, APIKey: "test-key"})
	require.NoError(t, err)

	text, err := client.Transcribe(context.Background(), strings.NewReader("oggdata"), "voice.ogg")
	require.NoError(t, err)
	assert.Equal(t, "taksi 20 ming", text)
}

func TestClientTranscribeErrors(t *testing.T) {
	t.Run("missing base URL", func(t *testing.T) {
		_, err := NewClient(Config{})
		assert.Error(t, err)
	})

	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "quota exceeded", http.StatusTooManyRequests)
		}))
		defer server.Close()

		client, err := NewClient(Config{BaseURL: server.URL})
		require.NoError(t, err)

		_, err = client.Transcribe(context.Background(), strings.NewReader("x"), "v.ogg")
		assert.ErrorContains(t, err, "429")
	})

	t.Run("empty text", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"text": ""}`))
		}))
		defer server.Close()

		client, err := NewClient(Config{BaseURL: server.URL})
		require.NoError(t, err)

		_, err = client.Transcribe(context.Background(), strings.NewReader("x"), "v.ogg")
		assert.ErrorContains(t, err, "no text")
	})
}

func TestClientTranscribeRetries(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "upstream hiccup", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"text": "kofe 20000"}`))
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)

	text, err := client.Transcribe(context.Background(), strings.NewReader("x"), "v.ogg")
	require.NoError(t, err)
	assert.Equal(t, "kofe 20000", text)
	assert.Equal(t, 2, calls)
}

func TestClientTranscribeDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		http.Error(w, "bad audio", http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := NewClient(Config{BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Transcribe(context.Background(), strings.NewReader("x"), "v.ogg")
	assert.ErrorContains(t, err, "400")
	assert.Equal(t, 1, calls)
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.Transcribe(context.Background(), strings.NewReader("x"), "v.ogg")
	assert.ErrorIs(t, err, ErrUnavailable)
}
