package relay

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTranscribeSendsMultipartAndTrimsText(t *testing.T) {
	var gotField, gotFilename, gotContentType string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/transcribe", r.URL.Path)

		mr, err := r.MultipartReader()
		require.NoError(t, err)
		part, err := mr.NextPart()
		require.NoError(t, err)

		gotField = part.FormName()
		gotFilename = part.FileName()
		gotContentType = part.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(part)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text": "  order status  "}`))
	}))
	defer srv.Close()

	tr := NewVoiceTranscriber(srv.URL)
	text, err := tr.Transcribe(context.Background(), []byte("oggdata"))

	require.NoError(t, err)
	require.Equal(t, "order status", text)
	require.Equal(t, "file", gotField)
	require.Equal(t, "voice.ogg", gotFilename)
	require.Equal(t, "audio/ogg", gotContentType)
	require.Equal(t, []byte("oggdata"), gotBody)
}

func TestTranscribeBackendErrorReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	tr := NewVoiceTranscriber(srv.URL)
	_, err := tr.Transcribe(context.Background(), []byte("oggdata"))
	require.Error(t, err)
}

func TestTranscribeEmptyTextIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"text": ""}`))
	}))
	defer srv.Close()

	tr := NewVoiceTranscriber(srv.URL)
	text, err := tr.Transcribe(context.Background(), []byte("oggdata"))
	require.NoError(t, err)
	require.Empty(t, text)
}

func TestTranscribeUnreachableBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // langsung tutup supaya koneksi gagal

	tr := NewVoiceTranscriber(srv.URL)
	_, err := tr.Transcribe(context.Background(), []byte("oggdata"))
	require.Error(t, err)
}
