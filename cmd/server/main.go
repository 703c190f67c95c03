package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/cozyclip/backend/internal/auth"
	"github.com/cozyclip/backend/internal/catalog"
	"github.com/cozyclip/backend/internal/database"
	"github.com/cozyclip/backend/internal/gamification"
	"github.com/cozyclip/backend/internal/ledger"
	"github.com/cozyclip/backend/internal/middleware"
	"github.com/cozyclip/backend/internal/reading"
)

func main() {
	// .env is optional; real deployments set env vars directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		auth.JWTSecret = []byte(secret)
	}
	middleware.Secret = auth.JWTSecret

	middleware.InitPrometheus()

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	store := ledger.NewPostgresStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	cat, err := catalog.Load(ctx, store)
	cancel()
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	// Initialize services and handlers
	gamService := gamification.NewService(store, cat)
	gamHandler := gamification.NewHandler(gamService)
	readingService := reading.NewService(gamService)
	readingHandler := reading.NewHandler(readingService)
	authHandler := auth.NewHandler(db)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/shop/items", gamHandler.ListItems).Methods("GET")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	protected.HandleFunc("/quests/event", gamHandler.QuestEvent).Methods("POST")
	protected.HandleFunc("/quests", gamHandler.QuestOverview).Methods("GET")
	protected.HandleFunc("/shop/redeem", gamHandler.Redeem).Methods("POST")
	protected.HandleFunc("/shop/transactions", gamHandler.Transactions).Methods("GET")
	protected.HandleFunc("/books/complete", gamHandler.CompleteBook).Methods("POST")
	protected.HandleFunc("/rank", gamHandler.Rank).Methods("GET")
	protected.HandleFunc("/streak", gamHandler.Streak).Methods("GET")
	protected.HandleFunc("/streak/session", gamHandler.RecordSession).Methods("POST")

	protected.HandleFunc("/reading/quiz", readingHandler.SubmitQuiz).Methods("POST")
	protected.HandleFunc("/reading/chapter", readingHandler.RecordChapter).Methods("POST")
	protected.HandleFunc("/reading/story", readingHandler.CompleteStory).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Metrics
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(middleware.MonitorMiddleware(middleware.RateLimitMiddleware(r)))

	go middleware.CleanupVisitors()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
