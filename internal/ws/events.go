package ws

import "time"

// Nama event yang dikirim ke client websocket.
const (
	EventConnectionStatus = "connection_status"
	EventQRGenerated      = "qr_generated"
	EventMessageRelayed   = "message_relayed"
	EventReplySent        = "reply_sent"
)

type WsEvent struct {
	Event     string      `json:"event"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

type ConnectionStatusData struct {
	Status    string `json:"status"` // connecting | open | closed | logged_out
	JID       string `json:"jid,omitempty"`
	Connected bool   `json:"is_connected"`
	Reason    string `json:"reason,omitempty"`
}

type QRGeneratedData struct {
	QRData    string    `json:"qr_data"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MessageRelayedData dikirim setiap ada pesan masuk yang diteruskan
// ke orchestrator (dan, kalau ada balasan, event reply_sent menyusul).
type MessageRelayedData struct {
	EventID   string `json:"event_id"`
	MessageID string `json:"message_id"`
	Sender    string `json:"sender"`
	Chat      string `json:"chat"`
	IsGroup   bool   `json:"is_group"`
	Kind      string `json:"kind"` // text | voice
	Content   string `json:"content"`
}

type ReplySentData struct {
	EventID string `json:"event_id"`
	Chat    string `json:"chat"`
	Text    string `json:"text"`
}
