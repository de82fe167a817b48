package main

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/formlite/formlite/internal/api"
	dbstore "github.com/formlite/formlite/internal/db"
	"github.com/formlite/formlite/internal/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	addr := os.Getenv("FORMLITE_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	commit := os.Getenv("FORMLITE_COMMIT")
	buildTime := os.Getenv("FORMLITE_BUILD_TIME")

	store, cleanup, err := openStore()
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer cleanup()

	mux := http.NewServeMux()
	api.NewRouter(store).Register(mux)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":         true,
			"name":       "Formlite API",
			"commit":     commit,
			"build_time": buildTime,
		})
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"commit":     commit,
			"build_time": buildTime,
		})
	})
	mux.Handle("/metrics", middleware.MetricsHandler())

	// Serve the built frontend when a static dir is configured.
	if staticDir := os.Getenv("FORMLITE_STATIC_DIR"); staticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	}

	handler := middleware.CountRequests(
		middleware.NoStore(middleware.SecureHeaders(middleware.CORS(middleware.WithAuth(mux)))))

	log.Printf("Formlite server listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// openStore picks sqlite when FORMLITE_SQLITE_PATH is set, else the
// in-memory store for local development.
func openStore() (api.Store, func(), error) {
	sqlitePath := os.Getenv("FORMLITE_SQLITE_PATH")
	if sqlitePath == "" {
		log.Printf("FORMLITE_SQLITE_PATH not set, using in-memory store")
		return api.NewMemoryStore(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(sqlitePath), 0o755); err != nil {
		return nil, nil, err
	}
	dsn := "file:" + filepath.ToSlash(sqlitePath) + "?cache=shared&_busy_timeout=5000"
	sqliteDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := dbstore.RunMigrations(sqliteDB, os.Getenv("FORMLITE_MIGRATIONS_DIR")); err != nil {
		return nil, nil, err
	}
	store, err := dbstore.NewStore(sqliteDB)
	if err != nil {
		return nil, nil, err
	}
	if err := ImportSnapshotIfPresent(store, os.Getenv("FORMLITE_SNAPSHOT_PATH")); err != nil {
		log.Printf("snapshot import failed: %v", err)
	}
	cleanup := func() {
		if cerr := sqliteDB.Close(); cerr != nil {
			log.Printf("warning: failed to close sqlite db: %v", cerr)
		}
	}
	return store, cleanup, nil
}
