package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/besuhoff/collision-demo-go/internal/config"
	"github.com/besuhoff/collision-demo-go/internal/db"
	"github.com/besuhoff/collision-demo-go/internal/handlers"
	"github.com/besuhoff/collision-demo-go/internal/server"
	"github.com/besuhoff/collision-demo-go/web"
)

var (
	host     = flag.String("host", getEnv("HOST", "localhost"), "Host to listen on")
	port     = flag.String("port", getEnv("PORT", "8080"), "Port to listen on")
	certFile = flag.String("cert", getEnv("TLS_CERT", ""), "TLS certificate file (required for HTTPS)")
	keyFile  = flag.String("key", getEnv("TLS_KEY", ""), "TLS key file (required for HTTPS)")
	useTLS   = flag.Bool("tls", getEnv("USE_TLS", "") == "true", "Enable TLS/HTTPS")
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// CORS middleware
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Parse frontend domain from config
		frontendDomain := config.AppConfig.FrontendURL
		if idx := strings.Index(frontendDomain, "://"); idx != -1 {
			if pathIdx := strings.Index(frontendDomain[idx+3:], "/"); pathIdx != -1 {
				frontendDomain = frontendDomain[:idx+3+pathIdx]
			}
		}
		w.Header().Set("Access-Control-Allow-Origin", frontendDomain)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func main() {
	flag.Parse()

	// Load configuration
	cfg := config.LoadConfig()

	// Persistence is optional; without MongoDB sessions live in memory only
	var store server.SessionStore
	if cfg.MongoDBURL != "" {
		if err := db.Connect(cfg.MongoDBURL, cfg.MongoDBDatabase); err != nil {
			log.Fatal("Failed to connect to MongoDB: ", err)
		}
		defer db.Disconnect()

		log.Println("MongoDB connected successfully")
		store = db.NewStore()
	} else {
		log.Println("MONGODB_URL not set, sessions will not be persisted")
	}

	gameServer := server.NewGameServer(store)

	// Start frame loop in background
	go gameServer.Run()

	sessionHandler := handlers.NewSessionHandler(gameServer)
	statsHandler := handlers.NewStatsHandler(gameServer)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gameServer.HandleWebSocket)

	// Session endpoints
	mux.HandleFunc("/api/v1/sessions", corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			sessionHandler.HandleCreateSession(w, r)
		} else if r.Method == http.MethodGet {
			sessionHandler.HandleListSessions(w, r)
		} else {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}))
	mux.HandleFunc("/api/v1/sessions/", corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/join") {
			sessionHandler.HandleJoinSession(w, r)
		} else if r.Method == http.MethodDelete {
			sessionHandler.HandleDeleteSession(w, r)
		} else {
			http.Error(w, "Not found", http.StatusNotFound)
		}
	}))

	// Stats endpoints
	mux.HandleFunc("/api/v1/stats/top", corsMiddleware(statsHandler.HandleGetTopSessions))

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Browser viewer
	mux.Handle("/", web.Handler())

	// Prepare address
	addr := fmt.Sprintf("%s:%s", *host, *port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP/HTTPS server
	go func() {
		if *useTLS || *certFile != "" {
			if *certFile == "" || *keyFile == "" {
				log.Fatal("TLS enabled but certificate or key file not provided. Use -cert and -key flags or TLS_CERT and TLS_KEY environment variables.")
			}
			log.Printf("Starting collision server with TLS on %s", addr)
			if err := httpServer.ListenAndServeTLS(*certFile, *keyFile); err != nil && err != http.ErrServerClosed {
				log.Fatal("ListenAndServeTLS error: ", err)
			}
		} else {
			log.Printf("Starting collision server on %s", addr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal("ListenAndServe error: ", err)
			}
		}
	}()

	log.Println("Server started successfully")
	scheme := "http"
	if *useTLS {
		scheme = "https"
	}
	log.Printf("Viewer: %s://%s/", scheme, addr)
	log.Printf("WebSocket (Binary): %s/ws?protocol=binary", strings.Replace(scheme, "http", "ws", 1)+"://"+addr)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Received shutdown signal, shutting down gracefully...")

	// Stop accepting requests first so no viewer registers after the loop stops
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	} else {
		log.Println("HTTP server shut down successfully")
	}

	// Save sessions, close websockets
	gameServer.Shutdown()

	log.Println("Server stopped")
}
