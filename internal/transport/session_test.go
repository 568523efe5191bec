package transport

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
)

func groupTestJID() types.JID {
	return types.JID{User: "123", Server: types.GroupServer}
}

func newBareManager() *Manager {
	m := NewManager(nil, nil)
	m.retryDelay = 5 * time.Millisecond
	return m
}

func TestCurrentIsIdempotent(t *testing.T) {
	m := newBareManager()
	if m.Current() != nil {
		t.Fatal("expected nil session before connect")
	}

	sess := &Session{}
	m.current.Store(sess)

	if m.Current() != sess || m.Current() != m.Current() {
		t.Fatal("Current() must return the same handle identity with no lifecycle event in between")
	}
}

func TestSendTextNotConnected(t *testing.T) {
	m := newBareManager()

	err := m.SendText(context.Background(), groupTestJID(), "hello")
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}

	// Session ada tapi client nil juga dianggap tidak connected
	m.current.Store(&Session{})
	if err := m.SendText(context.Background(), groupTestJID(), "hello"); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestDownloadAudioNotConnected(t *testing.T) {
	m := newBareManager()
	if _, err := m.DownloadAudio(context.Background(), nil); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
}

func TestScheduleReconnectFiresExactlyOnce(t *testing.T) {
	m := newBareManager()

	fired := make(chan struct{}, 4)
	m.reconnectFn = func() { fired <- struct{}{} }

	// Dua close berurutan sebelum timer jalan: tetap satu attempt
	m.scheduleReconnect()
	m.scheduleReconnect()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("reconnect attempt was never scheduled")
	}

	select {
	case <-fired:
		t.Fatal("more than one reconnect attempt was scheduled")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestScheduleReconnectAfterFailureReenters(t *testing.T) {
	m := newBareManager()

	fired := make(chan struct{}, 4)
	m.reconnectFn = func() {
		fired <- struct{}{}
		// attempt gagal -> close lagi -> jadwal attempt berikutnya
		if len(fired) < 2 {
			m.scheduleReconnect()
		}
	}

	m.scheduleReconnect()

	for i := 0; i < 2; i++ {
		select {
		case <-fired:
		case <-time.After(time.Second):
			t.Fatalf("expected serialized attempt %d", i+1)
		}
	}
}

func TestLogoutIsTerminal(t *testing.T) {
	m := newBareManager()
	m.current.Store(&Session{})

	fired := make(chan struct{}, 1)
	m.reconnectFn = func() { fired <- struct{}{} }

	m.handleEvent(&events.LoggedOut{})

	if m.Current() != nil {
		t.Fatal("session handle must be nil after terminal logout")
	}

	// Close lanjutan tidak boleh menjadwalkan reconnect
	m.handleEvent(&events.Disconnected{})
	m.scheduleReconnect()

	select {
	case <-fired:
		t.Fatal("no reconnect may be scheduled after terminal logout")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLogoutCancelsPendingRetry(t *testing.T) {
	m := newBareManager()
	m.retryDelay = 50 * time.Millisecond

	fired := make(chan struct{}, 1)
	m.reconnectFn = func() { fired <- struct{}{} }

	m.scheduleReconnect()
	m.handleLogout("401")

	select {
	case <-fired:
		t.Fatal("pending retry must be cancelled by terminal logout")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestTransientDisconnectKeepsHandle(t *testing.T) {
	m := newBareManager()
	m.retryDelay = time.Hour // biar timer tidak sempat jalan di test
	sess := &Session{}
	m.current.Store(sess)

	m.handleEvent(&events.Disconnected{})

	if m.Current() != sess {
		t.Fatal("transient close must not null the session handle")
	}

	m.retryMu.Lock()
	pending := m.retryTimer != nil
	m.retryMu.Unlock()
	if !pending {
		t.Fatal("transient close must schedule a reconnect")
	}
}
