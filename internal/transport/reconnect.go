package transport

import (
	"context"
	"fmt"
	"time"

	"gowa-bridge/internal/ws"

	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
)

// handleEvent menerjemahkan callback whatsmeow ke tiga jenis event abstrak:
// rotasi kredensial, perubahan state koneksi, dan batch pesan masuk.
func (m *Manager) handleEvent(evt interface{}) {
	switch evt := evt.(type) {

	case *events.Connected:
		if m.loggedOut.Load() {
			return
		}
		sess := m.current.Load()
		if sess == nil {
			return
		}
		fmt.Println("✓ Connected! JID:", sess.JID())

		// Presence supaya status online terlihat di hp
		if err := sess.Client.SendPresence(context.Background(), types.PresenceAvailable); err != nil {
			m.log.Warnf("Failed to send presence: %v", err)
		}
		m.persistCredentials()
		m.publishStatus("open", true, "")

	case *events.PairSuccess:
		fmt.Println("✓ Pair Success! JID:", evt.ID.String())
		m.persistCredentials()

	case *events.LoggedOut:
		// Logout eksplisit dari server: terminal sampai operator pairing ulang
		m.handleLogout(fmt.Sprintf("%v", evt.Reason))

	case *events.StreamReplaced:
		fmt.Println("⚠ Stream replaced by another client")
		m.publishStatus("closed", false, "stream_replaced")
		m.scheduleReconnect()

	case *events.Disconnected:
		if m.loggedOut.Load() {
			return
		}
		fmt.Println("⚠ Disconnected from WhatsApp")
		m.publishStatus("closed", false, "disconnected")
		m.scheduleReconnect()

	case *events.Message:
		if m.onBatch != nil {
			m.onBatch(MessageBatch{Type: BatchLiveNotify, Events: []*events.Message{evt}})
		}

	case *events.HistorySync:
		// Backfill riwayat pada reconnect; router wajib mengabaikannya
		if m.onBatch != nil {
			m.onBatch(MessageBatch{Type: BatchHistorySync})
		}
	}
}

// persistCredentials menyimpan device store secara sinkron. Rotasi key
// harian disimpan inkremental oleh sqlstore sendiri; ini jalur eksplisit
// untuk event pairing.
func (m *Manager) persistCredentials() {
	sess := m.current.Load()
	if sess == nil || sess.Client == nil {
		return
	}
	if err := sess.Client.Store.Save(context.Background()); err != nil {
		m.log.Errorf("Failed to persist credential state: %v", err)
	}
}

// handleLogout mematikan session secara permanen. Tidak ada retry; device
// store TIDAK dihapus — re-autentikasi adalah intervensi manual operator.
func (m *Manager) handleLogout(reason string) {
	m.loggedOut.Store(true)
	m.cancelRetry()

	sess := m.current.Swap(nil)
	if sess != nil && sess.Client != nil {
		sess.Client.Disconnect()
	}

	fmt.Println("✗ Logged out by server, reason:", reason)
	fmt.Println("✗ No reconnect will be attempted. Re-pair manually and restart.")
	m.publish(ws.WsEvent{
		Event: ws.EventConnectionStatus,
		Data:  ws.ConnectionStatusData{Status: "logged_out", Connected: false, Reason: reason},
	})
}

// scheduleReconnect menjadwalkan tepat satu percobaan connect setelah
// delay tetap. Timer yang sudah pending tidak ditumpuk; kegagalan attempt
// itu sendiri yang akan menjadwalkan attempt berikutnya.
func (m *Manager) scheduleReconnect() {
	m.retryMu.Lock()
	defer m.retryMu.Unlock()

	if m.loggedOut.Load() || m.retryTimer != nil {
		return
	}

	m.log.Infof("Reconnecting in %s", m.retryDelay)
	m.retryTimer = time.AfterFunc(m.retryDelay, func() {
		m.retryMu.Lock()
		m.retryTimer = nil
		m.retryMu.Unlock()
		m.reconnectFn()
	})
}

func (m *Manager) cancelRetry() {
	m.retryMu.Lock()
	defer m.retryMu.Unlock()

	if m.retryTimer != nil {
		m.retryTimer.Stop()
		m.retryTimer = nil
	}
}

func (m *Manager) reconnect() {
	if m.loggedOut.Load() {
		return
	}

	// Pastikan koneksi lama benar-benar mati sebelum buka yang baru
	if sess := m.current.Load(); sess != nil && sess.Client != nil {
		sess.Client.Disconnect()
	}

	if _, err := m.connect(context.Background()); err != nil {
		m.log.Warnf("Reconnect attempt failed: %v", err)
		m.scheduleReconnect()
	}
}
