package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"gowa-bridge/internal/ws"

	"go.mau.fi/whatsmeow"
	"go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"
)

var ErrNotConnected = errors.New("whatsapp session is not connected")

// Delay tetap antara close transient dan percobaan connect berikutnya.
const reconnectDelay = 3 * time.Second

// Session adalah handle ke satu koneksi whatsmeow. Handle diganti utuh
// (bukan di-mutate) pada tiap transisi state, jadi reader selalu melihat
// handle lama atau baru, tidak pernah setengah update.
type Session struct {
	Client *whatsmeow.Client
}

func (s *Session) JID() string {
	if s == nil || s.Client == nil || s.Client.Store.ID == nil {
		return ""
	}
	return s.Client.Store.ID.String()
}

// Manager memegang satu-satunya session aktif dan mengatur lifecycle-nya:
// connect awal, reconnect setelah close transient, stop permanen setelah
// logout dari server.
type Manager struct {
	container *sqlstore.Container
	realtime  ws.RealtimePublisher
	onBatch   func(MessageBatch)

	current   atomic.Pointer[Session]
	loggedOut atomic.Bool

	retryMu    sync.Mutex
	retryTimer *time.Timer
	retryDelay time.Duration

	// dipisah supaya reconnect path bisa dites tanpa koneksi nyata
	reconnectFn func()

	log waLog.Logger
}

func NewManager(container *sqlstore.Container, realtime ws.RealtimePublisher) *Manager {
	m := &Manager{
		container:  container,
		realtime:   realtime,
		retryDelay: reconnectDelay,
		log:        waLog.Stdout("Transport", "INFO", true),
	}
	m.reconnectFn = m.reconnect
	return m
}

// OnMessageBatch mendaftarkan satu observer pesan masuk. Harus dipanggil
// sebelum Initialize.
func (m *Manager) OnMessageBatch(fn func(MessageBatch)) {
	m.onBatch = fn
}

// Initialize melakukan connect pertama. Kegagalan connect di sini bukan
// fatal: diperlakukan sama dengan close transient dan dijadwalkan retry.
// (Kegagalan membuat credential store sudah ditangani fatal di main.)
func (m *Manager) Initialize(ctx context.Context) {
	store.DeviceProps.Os = proto.String("GOWA Bridge")

	if _, err := m.connect(ctx); err != nil {
		m.log.Warnf("Initial connect failed: %v", err)
		m.scheduleReconnect()
	}
}

// connect memuat credential state, membuka koneksi baru, dan langsung
// menyimpan handle ke pointer proses supaya query konkuren sudah melihat
// session sebelum event "open" datang.
func (m *Manager) connect(ctx context.Context) (*Session, error) {
	device, err := m.container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load device: %w", err)
	}

	clientLog := waLog.Stdout("Client", "INFO", true)
	client := whatsmeow.NewClient(device, clientLog)
	// Reconnect diatur oleh manager ini, bukan oleh SDK
	client.EnableAutoReconnect = false
	client.AddEventHandler(m.handleEvent)

	sess := &Session{Client: client}
	m.current.Store(sess)
	m.publishStatus("connecting", false, "")

	if client.Store.ID == nil {
		// Belum pernah pairing: QR channel harus diambil sebelum Connect
		qrChan, qrErr := client.GetQRChannel(ctx)
		if qrErr != nil {
			m.log.Warnf("Failed to get QR channel: %v", qrErr)
		} else {
			go m.watchQR(qrChan)
		}
	}

	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return sess, nil
}

// Current adalah read non-blocking dari handle proses; nil berarti belum
// pernah connect atau sudah logout permanen.
func (m *Manager) Current() *Session {
	return m.current.Load()
}

func (m *Manager) Connected() bool {
	sess := m.current.Load()
	return sess != nil && sess.Client != nil && sess.Client.IsConnected()
}

// SendText mengirim satu pesan teks ke conversation tujuan.
func (m *Manager) SendText(ctx context.Context, to types.JID, text string) error {
	sess := m.current.Load()
	if sess == nil || sess.Client == nil || !sess.Client.IsConnected() {
		return ErrNotConnected
	}

	msg := &waE2E.Message{Conversation: proto.String(text)}
	if _, err := sess.Client.SendMessage(ctx, to, msg); err != nil {
		return fmt.Errorf("failed to send message to %s: %w", to, err)
	}
	return nil
}

// DownloadAudio mengambil byte mentah sebuah voice note via media download.
func (m *Manager) DownloadAudio(ctx context.Context, audio *waE2E.AudioMessage) ([]byte, error) {
	sess := m.current.Load()
	if sess == nil || sess.Client == nil || !sess.Client.IsConnected() {
		return nil, ErrNotConnected
	}
	return sess.Client.Download(ctx, audio)
}

func (m *Manager) watchQR(qrChan <-chan whatsmeow.QRChannelItem) {
	for item := range qrChan {
		if item.Event == "code" {
			fmt.Println("\n=== Scan QR code berikut dengan WhatsApp ===")
			fmt.Println(item.Code)

			m.publish(ws.WsEvent{
				Event: ws.EventQRGenerated,
				Data: ws.QRGeneratedData{
					QRData:    item.Code,
					ExpiresAt: time.Now().Add(60 * time.Second),
				},
			})
			continue
		}
		m.log.Infof("QR channel closed: %s", item.Event)
	}
}

func (m *Manager) publishStatus(status string, connected bool, reason string) {
	m.publish(ws.WsEvent{
		Event: ws.EventConnectionStatus,
		Data: ws.ConnectionStatusData{
			Status:    status,
			JID:       m.Current().JID(),
			Connected: connected,
			Reason:    reason,
		},
	})
}

func (m *Manager) publish(event ws.WsEvent) {
	if m.realtime == nil {
		return
	}
	m.realtime.Publish(event)
}
