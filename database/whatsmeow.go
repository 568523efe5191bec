package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"go.mau.fi/whatsmeow/store/sqlstore"
	waLog "go.mau.fi/whatsmeow/util/log"
)

var Container *sqlstore.Container

// InitWhatsmeow membuka credential store untuk whatsmeow.
// Default: sqlite file di dalam storeDir (dibuat kalau belum ada).
// Kalau pgURL diisi, pakai postgres seperti deployment lama.
func InitWhatsmeow(ctx context.Context, storeDir, pgURL string) error {
	dbLog := waLog.Stdout("Database", "WARN", true)

	if pgURL != "" {
		container, err := sqlstore.New(ctx, "postgres", pgURL, dbLog)
		if err != nil {
			return fmt.Errorf("failed to open whatsmeow store (postgres): %w", err)
		}
		Container = container
		log.Println("Whatsmeow store (postgres) connected successfully")
		return nil
	}

	// Pastikan direktori store ada. Ini satu-satunya failure yang fatal
	// untuk proses: tanpa credential store tidak ada yang bisa jalan.
	if err := os.MkdirAll(storeDir, 0o700); err != nil {
		return fmt.Errorf("failed to create credential store dir %s: %w", storeDir, err)
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on", filepath.Join(storeDir, "whatsapp.db"))
	container, err := sqlstore.New(ctx, "sqlite3", dsn, dbLog)
	if err != nil {
		return fmt.Errorf("failed to open whatsmeow store (sqlite): %w", err)
	}
	Container = container
	log.Printf("Whatsmeow store (sqlite) ready at %s", storeDir)
	return nil
}
