package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"finplan/backend/config"
	"finplan/backend/database"
	"finplan/backend/handlers"
	"finplan/backend/middleware"
	"finplan/backend/security"
	"finplan/backend/services"
	"finplan/backend/storage"
	"finplan/backend/suggest"

	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()

	security.InitializeEncryption(cfg.EncryptionKey)
	services.InitializeAuth(cfg.JWTSecret)

	if err := database.InitDB(cfg.DBPath); err != nil {
		log.Fatal(err)
	}
	handlers.Transactions = storage.New(database.DB)

	// Suggestion service: server-wide key as default, per-user keys through
	// the same factory.
	handlers.NewProposer = func(apiKey string) suggest.Proposer {
		return suggest.New(apiKey, cfg.OpenAIBaseURL, cfg.OpenAIModel)
	}
	if cfg.OpenAIAPIKey != "" {
		handlers.DefaultProposer = handlers.NewProposer(cfg.OpenAIAPIKey)
	} else {
		log.Println("Warning: OPENAI_API_KEY not set, suggestions require per-user keys")
	}

	if err := middleware.InitializeFirebase(); err != nil {
		log.Printf("Warning: Failed to initialize Firebase: %v", err)
		log.Println("Firebase ID tokens will not be accepted")
	}

	r := mux.NewRouter()
	r.Use(middleware.EnableCORS)

	// Register routes with both direct paths and /api prefix
	registerRoutes(r)
	registerRoutes(r.PathPrefix("/api").Subrouter())

	// Serve the frontend build when present
	fs := http.FileServer(http.Dir("./dist"))
	r.PathPrefix("/assets/").Handler(http.StripPrefix("", fs))
	r.PathPrefix("/").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/assets/") {
			log.Printf("Serving index.html for path: %s", r.URL.Path)
		}
		http.ServeFile(w, r, "./dist/index.html")
	}).Methods("GET")

	srv := &http.Server{
		Handler:      r,
		Addr:         ":" + cfg.Port,
		WriteTimeout: 30 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.Printf("Starting server on port %s...", cfg.Port)
	log.Fatal(srv.ListenAndServe())
}

// registerRoutes sets up all API routes
func registerRoutes(r *mux.Router) {
	// Public routes (no auth required)
	r.HandleFunc("/health", handlers.HealthCheck).Methods("GET", "OPTIONS")
	r.HandleFunc("/register", handlers.RegisterUser).Methods("POST", "OPTIONS")
	r.HandleFunc("/login", handlers.LoginUser).Methods("POST", "OPTIONS")

	protected := r.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)

	// Transaction records
	protected.HandleFunc("/transactions", handlers.GetTransactions).Methods("GET", "OPTIONS")
	protected.HandleFunc("/transactions", handlers.AddTransaction).Methods("POST", "OPTIONS")
	protected.HandleFunc("/transactions/{id}", handlers.GetTransaction).Methods("GET", "OPTIONS")
	protected.HandleFunc("/transactions/{id}", handlers.UpdateTransaction).Methods("PUT", "OPTIONS")
	protected.HandleFunc("/transactions/{id}", handlers.DeleteTransaction).Methods("DELETE", "OPTIONS")

	// Recurrence expansion over a date window
	protected.HandleFunc("/plan", handlers.GetPlan).Methods("GET", "OPTIONS")

	// Suggestion service
	protected.HandleFunc("/suggestions", handlers.GetSuggestions).Methods("POST", "OPTIONS")
	protected.HandleFunc("/suggestions/apply", handlers.ApplySuggestions).Methods("POST", "OPTIONS")
	protected.HandleFunc("/settings/suggestion-key", handlers.SetSuggestionKey).Methods("PUT", "OPTIONS")
}
