package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/VerdictPath/VerdictPath-sub007/handlers"
	"github.com/VerdictPath/VerdictPath-sub007/middleware"
	"github.com/VerdictPath/VerdictPath-sub007/models"
	"github.com/VerdictPath/VerdictPath-sub007/services"
	"github.com/VerdictPath/VerdictPath-sub007/utils"
	"github.com/VerdictPath/VerdictPath-sub007/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 100 * 1024 * 1024, // 100MB — case documents (scans, photos)
	})

	// 🔐 GLOBAL: Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control, X-User-ID, X-User-Roles, X-Service-Token, X-Device-ID",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitR2(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.CaseUser{},
		&models.SubstageCompletion{},
		&models.CoinTransaction{},
		&models.DailyClaim{},
		&models.CaseDocument{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	// The canonical reward table — built once, injected everywhere, identical
	// across all instances of a deployment.
	rewardTable := services.DefaultRewardTable()

	// Calendar-day boundary timezone for the daily claim. One explicit
	// server-side zone; client clocks never decide what "today" means.
	claimTZ := os.Getenv("DAILY_CLAIM_TIMEZONE")
	if claimTZ == "" {
		claimTZ = "UTC"
	}
	claimLoc, err := time.LoadLocation(claimTZ)
	if err != nil {
		log.Fatalf("invalid DAILY_CLAIM_TIMEZONE %q: %v", claimTZ, err)
	}

	coinService := services.NewCoinService(db)
	completionService := services.NewCompletionService(db, rewardTable, coinService)
	progressService := services.NewProgressService(db, rewardTable)
	dailyClaimService := services.NewDailyClaimService(db, coinService, claimLoc, services.DefaultStreakBonus)
	userService := services.NewUserService(db)
	documentService := services.NewDocumentService(db, rewardTable)

	// --- Sync service config (main app → case_users mirror) ---
	syncServiceURL := os.Getenv("SYNC_SERVICE_URL")
	if syncServiceURL == "" {
		log.Fatal("SYNC_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("VERDICT_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("VERDICT_SERVICE_TOKEN environment variable not set")
	}

	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	if authServiceURL == "" {
		log.Fatal("AUTH_SERVICE_URL environment variable not set")
	}
	authClient := services.NewAuthServiceClient(authServiceURL, serviceToken)

	syncWorker := workers.NewCaseUserSyncWorker(db, syncServiceURL, "/api/v1/public/clients", serviceToken)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("Starting Case User Sync Worker...")
		syncWorker.Start(ctx)
	}()

	services.StartMaintenanceScheduler(coinService, rewardTable)

	handlers.SetupProgressRoutes(app, completionService, progressService, dailyClaimService, coinService, userService, rewardTable, authClient)
	handlers.SetupDocumentRoutes(app, documentService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Progress service running on http://localhost:%s", port)
	log.Println("✅ Case User Sync Worker running")
	log.Printf("✅ Daily-claim calendar days pinned to %s", claimLoc)
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
