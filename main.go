package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"renta/config"
	"renta/database"
	"renta/loader"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Printf("WARN: Failed to load config file: %v. Using defaults.", err)
	}

	log.Println("Connecting to database...")
	dbConn, err := sqlx.Open("sqlite3", cfg.DatabasePath+"?_journal_mode=WAL&_busy_timeout=5000&_fk=1")
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer dbConn.Close()
	log.Println("Database connection successful.")

	if err := loader.InitDatabase(dbConn); err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	log.Println("Database initialization complete.")

	if err := database.PurgeExpiredSessions(dbConn, time.Now()); err != nil {
		log.Printf("WARN: Failed to purge expired sessions: %v", err)
	}

	mux := http.NewServeMux()

	if _, err := os.Stat("./static"); err == nil {
		mux.Handle("/static/", http.StripPrefix("/static/",
			http.FileServer(http.Dir("./static"))))
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// The signing page and the dashboard are a single-page frontend;
		// every non-API path serves it.
		if _, err := os.Stat("./static/index.html"); err == nil {
			http.ServeFile(w, r, "./static/index.html")
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, "renta API is running. Frontend assets not found in ./static.")
	})

	SetupRoutes(mux, dbConn)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on http://localhost%s", addr)

	if cfg.OpenBrowserOnStart {
		openBrowser(fmt.Sprintf("http://localhost%s", addr))
	}

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server start error: %v", err)
	}
}

func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = exec.Command("xdg-open", url).Start()
	}
	if err != nil {
		log.Printf("failed to open browser: %v", err)
	}
}
