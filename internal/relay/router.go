package relay

import (
	"context"
	"strings"

	"gowa-bridge/internal/transport"
	"gowa-bridge/internal/ws"

	"github.com/google/uuid"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
)

// Transport adalah kemampuan yang dibutuhkan router dari transport session.
type Transport interface {
	SendText(ctx context.Context, to types.JID, text string) error
	DownloadAudio(ctx context.Context, audio *waE2E.AudioMessage) ([]byte, error)
}

// Transcriber mengubah byte audio menjadi teks (best effort, sekali coba).
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Forwarder meneruskan pesan logis ke orchestrator dan mengembalikan reply.
type Forwarder interface {
	Forward(ctx context.Context, senderID, content string) (*Reply, error)
}

// Router memeriksa tiap inbound event, membuang noise (self-sent,
// broadcast, payload tak didukung), menentukan identitas pengirim, dan
// menjalankan pipeline transcribe-lalu-forward per pesan.
type Router struct {
	transport   Transport
	transcriber Transcriber
	forwarder   Forwarder
	realtime    ws.RealtimePublisher

	log waLog.Logger
}

func NewRouter(t Transport, tr Transcriber, fw Forwarder, realtime ws.RealtimePublisher) *Router {
	return &Router{
		transport:   t,
		transcriber: tr,
		forwarder:   fw,
		realtime:    realtime,
		log:         waLog.Stdout("Router", "INFO", true),
	}
}

// HandleBatch memproses satu delivery batch. Hanya batch live-notify yang
// diproses; backfill riwayat di-drop supaya pesan lama tidak diproses ulang
// setiap reconnect. Tiap event jalan di goroutine sendiri supaya transcribe
// yang lambat tidak menahan pesan berikutnya.
func (r *Router) HandleBatch(ctx context.Context, batch transport.MessageBatch) {
	if batch.Type != transport.BatchLiveNotify {
		r.log.Debugf("Ignoring batch of type %s (%d events)", batch.Type, len(batch.Events))
		return
	}

	for _, evt := range batch.Events {
		go r.process(ctx, evt)
	}
}

// process menangani satu event di dalam failure boundary sendiri: panic
// atau error pada satu pesan tidak boleh mengganggu pesan lain.
func (r *Router) process(ctx context.Context, evt *events.Message) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Errorf("Panic while processing message %s: %v", evt.Info.ID, rec)
		}
	}()

	chat := evt.Info.Chat

	// Filter berurutan, short-circuit
	if chat.IsEmpty() {
		r.log.Debugf("Dropping message %s: no chat JID", evt.Info.ID)
		return
	}
	if chat == types.StatusBroadcastJID {
		r.log.Debugf("Dropping message %s: status broadcast", evt.Info.ID)
		return
	}
	if evt.Info.IsFromMe {
		return
	}

	isGroup := chat.Server == types.GroupServer
	sender := chat.String()
	if isGroup && !evt.Info.Sender.IsEmpty() {
		sender = evt.Info.Sender.String()
	}

	if text := extractText(evt.Message); text != "" {
		content := text
		if isGroup {
			content = "[group:" + chat.String() + "] " + content
		}
		r.forward(ctx, evt, sender, chat, isGroup, "text", content)
		return
	}

	if audio := evt.Message.GetAudioMessage(); audio != nil {
		r.processVoice(ctx, evt, sender, chat, isGroup, audio)
		return
	}

	r.log.Debugf("Dropping message %s from %s: unsupported payload", evt.Info.ID, sender)
}

func (r *Router) processVoice(ctx context.Context, evt *events.Message, sender string, chat types.JID, isGroup bool, audio *waE2E.AudioMessage) {
	data, err := r.transport.DownloadAudio(ctx, audio)
	if err != nil || len(data) == 0 {
		// Kondisi yang memang sesekali terjadi (media expired dll), bukan error
		r.log.Warnf("Audio download empty/failed for message %s from %s: %v", evt.Info.ID, sender, err)
		return
	}

	transcript, err := r.transcriber.Transcribe(ctx, data)
	if err != nil {
		r.log.Warnf("Transcription failed for message %s from %s: %v", evt.Info.ID, sender, err)
		return
	}
	if transcript == "" {
		r.log.Warnf("Empty transcript for message %s from %s, dropping", evt.Info.ID, sender)
		return
	}

	content := "[voice] " + transcript
	if isGroup {
		content = "[group:" + chat.String() + "] " + content
	}
	r.forward(ctx, evt, sender, chat, isGroup, "voice", content)
}

// forward mengirim pesan logis ke orchestrator; kalau reply berisi teks,
// tepat satu pesan balasan dikirim ke conversation asal.
func (r *Router) forward(ctx context.Context, evt *events.Message, sender string, chat types.JID, isGroup bool, kind, content string) {
	eventID := uuid.NewString()
	r.publish(ws.WsEvent{
		Event: ws.EventMessageRelayed,
		Data: ws.MessageRelayedData{
			EventID:   eventID,
			MessageID: string(evt.Info.ID),
			Sender:    sender,
			Chat:      chat.String(),
			IsGroup:   isGroup,
			Kind:      kind,
			Content:   content,
		},
	})

	reply, err := r.forwarder.Forward(ctx, sender, content)
	if err != nil {
		r.log.Errorf("Forward failed for message %s from %s: %v", evt.Info.ID, sender, err)
		return
	}
	if reply == nil || reply.Text == "" {
		return
	}

	if err := r.transport.SendText(ctx, chat, reply.Text); err != nil {
		r.log.Errorf("Failed to send reply for message %s to %s: %v", evt.Info.ID, chat, err)
		return
	}
	r.publish(ws.WsEvent{
		Event: ws.EventReplySent,
		Data:  ws.ReplySentData{EventID: eventID, Chat: chat.String(), Text: reply.Text},
	})
}

// extractText mengambil body teks: field plain dulu, lalu extended/quoted.
func extractText(msg *waE2E.Message) string {
	if msg == nil {
		return ""
	}
	if text := strings.TrimSpace(msg.GetConversation()); text != "" {
		return text
	}
	return strings.TrimSpace(msg.GetExtendedTextMessage().GetText())
}

func (r *Router) publish(event ws.WsEvent) {
	if r.realtime == nil {
		return
	}
	r.realtime.Publish(event)
}
