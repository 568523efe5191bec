package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	waLog "go.mau.fi/whatsmeow/util/log"
)

const (
	transcribeTimeout = 60 * time.Second
	// Response ceiling; transcript JSON tidak mungkin sebesar ini, tapi
	// jangan percaya backend eksternal soal ukuran body.
	maxTranscribeResponse = 50 << 20
)

// VoiceTranscriber mengirim audio voice note ke transcription backend
// (POST {base}/api/transcribe, multipart field "file") dan mengembalikan
// teks hasil transkripsi. Satu attempt per pesan, tanpa retry.
type VoiceTranscriber struct {
	baseURL string
	client  *http.Client
	log     waLog.Logger
}

func NewVoiceTranscriber(baseURL string) *VoiceTranscriber {
	return &VoiceTranscriber{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: transcribeTimeout},
		log:     waLog.Stdout("Transcriber", "INFO", true),
	}
}

func (t *VoiceTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="voice.ogg"`)
	header.Set("Content-Type", "audio/ogg")
	part, err := w.CreatePart(header)
	if err != nil {
		return "", fmt.Errorf("transcribe: build multipart: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("transcribe: write audio part: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("transcribe: close multipart: %w", err)
	}

	url := t.baseURL + "/api/transcribe"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &buf)
	if err != nil {
		return "", fmt.Errorf("transcribe: new request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	t.log.Infof("POST %s (%d bytes)", url, len(audio))

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcribe: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTranscribeResponse))
	if err != nil {
		return "", fmt.Errorf("transcribe: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		t.log.Warnf("Transcription backend returned %d: %s", resp.StatusCode, truncate(string(body), 300))
		return "", fmt.Errorf("transcribe: backend returned %d", resp.StatusCode)
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("transcribe: decode response: %w", err)
	}
	return strings.TrimSpace(out.Text), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
