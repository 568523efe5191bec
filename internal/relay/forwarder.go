package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	waLog "go.mau.fi/whatsmeow/util/log"
)

const forwardTimeout = 30 * time.Second

// Reply adalah respon orchestrator atas satu pesan yang diteruskan.
// Kalau Text terisi, tepat satu pesan balasan dikirim ke conversation asal.
type Reply struct {
	Text     string                 `json:"text,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

type forwardPayload struct {
	Channel  string `json:"channel"`
	SenderID string `json:"sender_id"`
	Content  string `json:"content"`
}

// OrchestratorForwarder membungkus (sender, content) dan mengirimnya ke
// orchestrator backend. Gagal berarti tidak ada reply; tanpa retry.
type OrchestratorForwarder struct {
	baseURL string
	client  *http.Client
	log     waLog.Logger
}

func NewOrchestratorForwarder(baseURL string) *OrchestratorForwarder {
	return &OrchestratorForwarder{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: forwardTimeout},
		log:     waLog.Stdout("Forwarder", "INFO", true),
	}
}

func (f *OrchestratorForwarder) Forward(ctx context.Context, senderID, content string) (*Reply, error) {
	payload := forwardPayload{
		Channel:  "whatsapp",
		SenderID: senderID,
		Content:  content,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("forward: marshal payload: %w", err)
	}

	url := f.baseURL + "/api/v1/message"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("forward: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	f.log.Infof("POST %s sender=%s", url, senderID)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forward: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("forward: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.log.Warnf("Orchestrator returned %d: %s", resp.StatusCode, truncate(string(respBody), 300))
		return nil, fmt.Errorf("forward: orchestrator returned %d", resp.StatusCode)
	}

	var reply Reply
	if err := json.Unmarshal(respBody, &reply); err != nil {
		return nil, fmt.Errorf("forward: decode response: %w", err)
	}
	return &reply, nil
}
