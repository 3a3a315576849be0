package main

import (
	"log"
	"os"
	"time"

	"questcraft/database"
	"questcraft/handlers"
	"questcraft/handlers/admin"
	"questcraft/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	database.InitDB()
	defer database.CloseDB()

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    4 * 1024 * 1024, // 4MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	corsOrigins := getEnv("CORS_ORIGINS", "http://localhost:3000")
	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	app.Use(middleware.RateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.AuthRateLimitMiddleware())
	authGroup.Post("/register", handlers.Register)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/guest", handlers.GuestLogin)

	// User routes
	userGroup := api.Group("/users")
	userGroup.Use(middleware.AuthMiddleware)
	userGroup.Get("/me", handlers.GetMe)
	userGroup.Get("/me/progression", handlers.GetProgression)
	userGroup.Get("/me/ledger", handlers.GetLedger)
	userGroup.Get("/me/stats", handlers.GetStats)
	userGroup.Get("/search", handlers.SearchUsers)

	// Quest routes
	questGroup := api.Group("/quests")
	questGroup.Use(middleware.AuthMiddleware)
	questGroup.Get("/", handlers.GetQuests)
	questGroup.Post("/", handlers.CreateQuest)
	questGroup.Post("/:id/accept", handlers.AcceptQuest)
	questGroup.Get("/:id/comments", handlers.GetQuestComments)
	questGroup.Post("/:id/comments", handlers.CommentOnQuest)

	// Assignment routes
	assignmentGroup := api.Group("/assignments")
	assignmentGroup.Use(middleware.AuthMiddleware)
	assignmentGroup.Get("/", handlers.GetAssignments)
	assignmentGroup.Post("/:id/complete", handlers.CompleteAssignment)
	assignmentGroup.Post("/:id/like", handlers.LikeAssignment)
	assignmentGroup.Delete("/likes/:id", handlers.UnlikeAssignment)

	// Store routes
	storeGroup := api.Group("/store")
	storeGroup.Use(middleware.AuthMiddleware)
	storeGroup.Get("/", handlers.GetStoreItems)
	storeGroup.Post("/:id/purchase", handlers.PurchaseItem)

	// Inventory routes
	inventoryGroup := api.Group("/inventory")
	inventoryGroup.Use(middleware.AuthMiddleware)
	inventoryGroup.Get("/", handlers.GetInventory)
	inventoryGroup.Post("/:id/equip", handlers.EquipItem)
	inventoryGroup.Post("/:id/unequip", handlers.UnequipItem)

	// Leaderboard routes
	leaderboardGroup := api.Group("/leaderboard")
	leaderboardGroup.Get("/", handlers.GetLeaderboard)
	leaderboardGroup.Get("/user/:id", handlers.GetUserRank)

	// Achievement routes
	achievementGroup := api.Group("/achievements")
	achievementGroup.Use(middleware.AuthMiddleware)
	achievementGroup.Get("/", handlers.GetAchievements)
	achievementGroup.Post("/evaluate", handlers.EvaluateAchievements)

	// Group routes
	groupGroup := api.Group("/groups")
	groupGroup.Use(middleware.AuthMiddleware)
	groupGroup.Get("/", handlers.GetGroups)
	groupGroup.Post("/", handlers.CreateGroup)
	groupGroup.Post("/:id/join", handlers.JoinGroup)
	groupGroup.Post("/:id/leave", handlers.LeaveGroup)
	groupGroup.Get("/:id/posts", handlers.GetGroupPosts)
	groupGroup.Post("/:id/posts", handlers.CreateGroupPost)
	groupGroup.Get("/posts/:id/comments", handlers.GetPostComments)
	groupGroup.Post("/posts/:id/comments", handlers.CommentOnPost)
	groupGroup.Get("/:id/goals", handlers.GetGroupGoals)
	groupGroup.Post("/:id/goals", handlers.CreateGroupGoal)
	groupGroup.Post("/goals/:id/contribute", handlers.ContributeToGoal)

	// Friend routes
	friendGroup := api.Group("/friends")
	friendGroup.Use(middleware.AuthMiddleware)
	friendGroup.Get("/", handlers.GetFriends)
	friendGroup.Post("/request", handlers.SendFriendRequest)
	friendGroup.Post("/requests/:id/respond", handlers.RespondToFriendRequest)

	// Message routes
	messageGroup := api.Group("/messages")
	messageGroup.Use(middleware.AuthMiddleware)
	messageGroup.Post("/", handlers.SendMessage)
	messageGroup.Get("/:userId", handlers.GetMessages)

	// Notification routes
	notificationGroup := api.Group("/notifications")
	notificationGroup.Use(middleware.AuthMiddleware)
	notificationGroup.Get("/", handlers.GetNotifications)
	notificationGroup.Put("/:id/read", handlers.MarkNotificationRead)
	notificationGroup.Put("/read-all", handlers.MarkAllNotificationsRead)

	// Live notification stream
	app.Get("/ws/notifications", middleware.AuthMiddleware,
		handlers.NotificationStreamUpgrade, handlers.StreamNotifications)

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.AuthMiddleware, middleware.AdminAuthMiddleware)
	adminGroup.Get("/users", admin.GetUsers)
	adminGroup.Get("/users/:id", admin.GetUser)
	adminGroup.Put("/users/:id", admin.UpdateUser)
	adminGroup.Delete("/users/:id", admin.DeleteUser)
	adminGroup.Post("/users/:id/coins", admin.AdjustCoins)

	adminGroup.Delete("/quests/:id", admin.DeleteQuest)

	adminGroup.Get("/achievements", admin.GetAchievements)
	adminGroup.Post("/achievements", admin.CreateAchievement)
	adminGroup.Put("/achievements/:id", admin.UpdateAchievement)
	adminGroup.Delete("/achievements/:id", admin.DeleteAchievement)

	adminGroup.Get("/items", admin.GetItems)
	adminGroup.Post("/items", admin.CreateItem)
	adminGroup.Put("/items/:id", admin.UpdateItem)

	adminGroup.Get("/store-items", admin.GetStoreItems)
	adminGroup.Post("/store-items", admin.CreateStoreItem)
	adminGroup.Put("/store-items/:id", admin.UpdateStoreItem)
	adminGroup.Delete("/store-items/:id", admin.DeleteStoreItem)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	port := getEnv("PORT", "3000")
	log.Printf("HTTP server starting on port %s", port)
	log.Printf("Environment: %s", getEnv("APP_ENV", "development"))

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if os.Getenv("APP_ENV") == "production" {
		if jwtSecret == "" {
			log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
		}
		if len(jwtSecret) < 32 {
			log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
		}
	} else if jwtSecret == "" {
		log.Println("Warning: JWT_SECRET not set, using development fallback")
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
