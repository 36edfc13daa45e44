package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/cryptofolio/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

// InitDB opens the SQLite database and ensures the ledger table exists. The
// persisted ledger only backs the latest-gains endpoint; the calculation
// engine itself is stateless.
func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	// id is the ingestion row index, assigned by the gains service, so that
	// buy_id references stay valid across reloads. Not AUTOINCREMENT.
	createTableStatement := `
	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY,
		asset TEXT NOT NULL,
		date TEXT NOT NULL,
		type TEXT NOT NULL,
		amount REAL NOT NULL DEFAULT 0,
		price REAL NOT NULL DEFAULT 0,
		fees REAL NOT NULL DEFAULT 0,
		linked_buy_id INTEGER,
		uploaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	`

	if _, err = DB.Exec(createTableStatement); err != nil {
		if logger.L != nil {
			logger.L.Error("failed to create tables", "error", err)
		}
		stdlog.Fatalf("failed to create tables: %v", err)
	}
	if logger.L != nil {
		logger.L.Info("Database tables ensured/created.")
	} else {
		stdlog.Println("Database tables ensured/created.")
	}
}
