package main

import (
	"log"
	"os"
	"strings"

	_ "petadoption/api/swagger" // swagger docs
	"petadoption/internal/database"
	"petadoption/internal/handler"
	"petadoption/internal/middleware"
	"petadoption/internal/repository"
	"petadoption/internal/service"
	"petadoption/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Pet Adoption API
// @version         1.0
// @description     API for shelters and adopters: pet listings, adoption applications and finalized adoptions.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	petRepo := repository.NewPetRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	adoptionRepo := repository.NewAdoptionRepository(db)
	eventRepo := repository.NewEventRepository(db)

	if err := database.SeedDemoData(db, userRepo); err != nil {
		log.Println("WARNING: demo data seeding failed:", err)
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	guard := service.NewCustodyGuard(service.NewShelterCustodians())

	userService := service.NewUserService(userRepo)
	petService := service.NewPetService(petRepo, eventRepo, txManager, guard, wsHub)
	adoptionService := service.NewAdoptionService(petRepo, appRepo, adoptionRepo, eventRepo, txManager, guard, wsHub)
	eventService := service.NewEventService(eventRepo)
	statisticsService := service.NewStatisticsService(db)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(userService)
	petHandler := handler.NewPetHandler(petService)
	applicationHandler := handler.NewApplicationHandler(adoptionService)
	adoptionHandler := handler.NewAdoptionHandler(adoptionService)
	eventHandler := handler.NewEventHandler(eventService)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint for staff dashboards
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	api := router.Group("/api")
	authHandler.RegisterRoutes(api)
	petHandler.RegisterRoutes(api)
	applicationHandler.RegisterRoutes(api)
	adoptionHandler.RegisterRoutes(api)
	eventHandler.RegisterRoutes(api)
	statisticsHandler.RegisterRoutes(api)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
