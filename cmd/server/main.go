package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/quizrun/backend/internal/auth"
	"github.com/quizrun/backend/internal/cache"
	"github.com/quizrun/backend/internal/database"
	"github.com/quizrun/backend/internal/generator"
	"github.com/quizrun/backend/internal/middleware"
	"github.com/quizrun/backend/internal/questions"
	"github.com/quizrun/backend/internal/sessions"
	"github.com/quizrun/backend/internal/skill"
	"github.com/quizrun/backend/internal/streaks"
)

func main() {
	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Redis holds the per-user seen sets
	rdb, err := cache.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer rdb.Close()

	// Stores
	questionStore := questions.NewStore(db)
	seenStore := questions.NewSeenStore(rdb)
	skillStore := skill.NewStore(db)
	streakStore := streaks.NewStore(db)
	sessionStore := sessions.NewStore(db)

	// Services
	gen := generator.NewGenerator()
	skillService := skill.NewService(skillStore)
	questionService := questions.NewService(questionStore, seenStore, skillService, gen)
	sessionService := sessions.NewService(sessionStore, skillService, streakStore, skillService, seenStore)

	// Handlers
	authHandler := auth.NewHandler(db)
	questionHandler := questions.NewHandler(questionService)
	sessionHandler := sessions.NewHandler(sessionService)
	profileHandler := skill.NewHandler(skillService, streakStore)

	// Background generation
	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go questionService.StartNightlyWorker(workerCtx)

	// Setup router
	r := mux.NewRouter()
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Admin routes, guarded by ADMIN_KEY rather than a user token
	api.HandleFunc("/admin/generate", questionHandler.GenerateBatch).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.AuthMiddleware)
	protected.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")
	protected.HandleFunc("/quiz/next", questionHandler.GetNextQuestions).Methods("GET")
	protected.HandleFunc("/quiz/count", questionHandler.GetQuestionCount).Methods("GET")
	protected.HandleFunc("/session/start", sessionHandler.StartSession).Methods("POST")
	protected.HandleFunc("/session/finish", sessionHandler.FinishSession).Methods("POST")
	protected.HandleFunc("/sessions", sessionHandler.ListSessions).Methods("GET")
	protected.HandleFunc("/profile", profileHandler.GetProfile).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Admin-Key"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
