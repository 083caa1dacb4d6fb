package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"durak/internal/auth"
	"durak/internal/gateway"
	"durak/internal/matchmaker"
	"durak/internal/room"
	"durak/internal/userdir"
)

func main() {
	store, storeMode, err := room.NewStoreFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init room store: %v", err)
	}
	defer store.Close()

	users, userdirMode, err := userdir.NewDirectoryFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init user directory: %v", err)
	}
	defer users.Close()

	authService, err := auth.NewServiceFromEnv()
	if err != nil {
		log.Fatalf("[Server] Failed to init auth service: %v", err)
	}

	registry := gateway.NewRegistry(store)
	mm := matchmaker.New(registry)
	server := gateway.NewServer(registry, mm, authService, users)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	server.RegisterRoutes(mux)

	addr := strings.TrimSpace(os.Getenv("SERVER_ADDR"))
	if addr == "" {
		addr = ":18080"
	}
	log.Printf("[Server] Room store mode: %s", storeMode)
	log.Printf("[Server] User directory mode: %s", userdirMode)
	log.Printf("[Server] Starting server on %s", addr)
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil {
		log.Fatalf("[Server] Failed to start: %v", err)
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
