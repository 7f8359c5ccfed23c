package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Zh4nibek/LinguaLink/internal/config"
	"github.com/Zh4nibek/LinguaLink/internal/database"
	"github.com/Zh4nibek/LinguaLink/internal/handlers"
	"github.com/Zh4nibek/LinguaLink/internal/jobs"
	"github.com/Zh4nibek/LinguaLink/internal/repository"
	"github.com/Zh4nibek/LinguaLink/internal/services"
	"github.com/Zh4nibek/LinguaLink/internal/stream"
	"github.com/Zh4nibek/LinguaLink/pkg/logger"
	"github.com/Zh4nibek/LinguaLink/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	// Connect to MongoDB
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		cancel()
		log.Fatalf("Index creation error: %v", err)
	}
	cancel()

	// Chat/video provider client
	chatClient, err := stream.NewClient(cfg.StreamAPIKey, cfg.StreamAPISecret)
	if err != nil {
		log.Fatalf("Stream client error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRequestRepository(db)
	groupRepo := repository.NewGroupRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo, chatClient)
	friendService := services.NewFriendService(friendRepo, userRepo)
	groupService := services.NewGroupService(groupRepo, userRepo, chatClient)
	chatService := services.NewChatService(chatClient)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(userService, cfg)
	userHandler := handlers.NewUserHandler(userService, friendService, cfg)
	groupHandler := handlers.NewGroupHandler(groupService, cfg)
	chatHandler := handlers.NewChatHandler(chatService, cfg)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	// Public auth routes
	api.HandleFunc("/auth/signup", authHandler.SignupHandler).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.LoginHandler).Methods("POST")
	api.HandleFunc("/auth/logout", authHandler.LogoutHandler).Methods("POST")

	// Protected auth routes (profile of the logged-in user)
	protectedAuthRoutes := api.PathPrefix("/auth").Subrouter()
	protectedAuthRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedAuthRoutes.HandleFunc("/me", authHandler.MeHandler).Methods("GET")
	protectedAuthRoutes.HandleFunc("/onboarding", authHandler.OnboardingHandler).Methods("POST")
	protectedAuthRoutes.HandleFunc("/profile", authHandler.UpdateProfileHandler).Methods("PUT")

	// User and friend request routes
	protectedUserRoutes := api.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.HandleFunc("", userHandler.GetRecommendedUsersHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/friends", userHandler.GetMyFriendsHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/search", userHandler.SearchUsersHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/friend-request/{id}", userHandler.SendFriendRequestHandler).Methods("POST")
	protectedUserRoutes.HandleFunc("/friend-request/{id}/accept", userHandler.AcceptFriendRequestHandler).Methods("PUT")
	protectedUserRoutes.HandleFunc("/friend-requests", userHandler.GetFriendRequestsHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/outgoing-friend-requests", userHandler.GetOutgoingFriendRequestsHandler).Methods("GET")

	// Group routes
	protectedGroupRoutes := api.PathPrefix("/groups").Subrouter()
	protectedGroupRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedGroupRoutes.HandleFunc("", groupHandler.CreateGroupHandler).Methods("POST")
	protectedGroupRoutes.HandleFunc("", groupHandler.GetMyGroupsHandler).Methods("GET")
	protectedGroupRoutes.HandleFunc("/{id}", groupHandler.GetGroupHandler).Methods("GET")
	protectedGroupRoutes.HandleFunc("/{id}", groupHandler.UpdateGroupHandler).Methods("PUT")
	protectedGroupRoutes.HandleFunc("/{id}", groupHandler.DeleteGroupHandler).Methods("DELETE")
	protectedGroupRoutes.HandleFunc("/{id}/members", groupHandler.AddMembersHandler).Methods("POST")
	protectedGroupRoutes.HandleFunc("/{id}/members/{memberId}", groupHandler.RemoveMemberHandler).Methods("DELETE")

	// Chat token route
	protectedChatRoutes := api.PathPrefix("/chat").Subrouter()
	protectedChatRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedChatRoutes.HandleFunc("/token", chatHandler.GetTokenHandler).Methods("GET")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Background reconciliation of chat provider user records
	syncJob := jobs.NewProfileSyncJob(userRepo, chatService)
	jobs.StartProfileSyncCron(syncJob)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}
