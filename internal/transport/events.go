package transport

import "go.mau.fi/whatsmeow/types/events"

// BatchType membedakan pesan realtime dari backfill riwayat saat reconnect.
// Hanya batch live-notify yang boleh diproses downstream.
type BatchType string

const (
	BatchLiveNotify  BatchType = "live-notify"
	BatchHistorySync BatchType = "historical-sync"
	BatchOther       BatchType = "other"
)

// MessageBatch adalah satu delivery notification dari transport.
// Whatsmeow mengirim pesan live satu per satu, jadi batch live berisi
// satu event; history sync dipetakan ke batch kosong bertipe historical-sync.
type MessageBatch struct {
	Type   BatchType
	Events []*events.Message
}
