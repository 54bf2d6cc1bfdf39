package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"kriya/internal/handlers"
	"kriya/internal/middleware"
	"kriya/internal/models"
	"kriya/internal/repositories"
	"kriya/internal/services"
	"kriya/pkg/mailer"
	"kriya/pkg/rabbitmq"
	"kriya/pkg/storage"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("SQLITE_PATH", "kriya.db")
	viper.SetDefault("JWT_SECRET", "change-me-in-production")
	viper.SetDefault("CLIENT_URL", "http://localhost:3000")
	viper.SetDefault("UPLOAD_DIR", "./uploads")
	viper.SetDefault("UPLOAD_PUBLIC_PATH", "/uploads")
	viper.SetDefault("STORAGE_PROVIDER", "local")
	viper.SetDefault("S3_REGION", "us-east-1")
	viper.SetDefault("SMTP_PORT", 587)
	viper.AutomaticEnv()

	// --- Database ---
	db, err := openDatabase()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- File storage ---
	store, err := storage.New(storage.Config{
		Provider:   viper.GetString("STORAGE_PROVIDER"),
		Dir:        viper.GetString("UPLOAD_DIR"),
		PublicPath: viper.GetString("UPLOAD_PUBLIC_PATH"),
		Bucket:     viper.GetString("S3_BUCKET"),
		Region:     viper.GetString("S3_REGION"),
		AccessKey:  viper.GetString("S3_ACCESS_KEY"),
		SecretKey:  viper.GetString("S3_SECRET_KEY"),
	})
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var events services.EventPublisher
	var mqClient *rabbitmq.Client
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, order events disabled: %v", err)
		} else {
			defer mqClient.Close()
			events = mqClient
		}
	}

	// --- Mailer (optional) ---
	var mail services.Mailer
	if smtpHost := viper.GetString("SMTP_HOST"); smtpHost != "" {
		mail = mailer.New(
			smtpHost,
			viper.GetInt("SMTP_PORT"),
			viper.GetString("SMTP_USERNAME"),
			viper.GetString("SMTP_PASSWORD"),
			viper.GetString("SMTP_FROM"),
		)
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, mail, viper.GetString("JWT_SECRET"), viper.GetString("CLIENT_URL"))
	categoryService := services.NewCategoryService(categoryRepo)
	productService := services.NewProductService(productRepo, store)
	orderService := services.NewOrderService(orderRepo, productRepo, events)
	adminService := services.NewAdminService(userRepo, productRepo, orderRepo)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)
	adminHandler := handlers.NewAdminHandler(adminService, orderService, productService)

	// --- Fiber app ---
	app := fiber.New()
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: viper.GetString("CLIENT_URL"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Locally stored product images are served as static files.
	app.Static(viper.GetString("UPLOAD_PUBLIC_PATH"), viper.GetString("UPLOAD_DIR"))

	authRequired := middleware.AuthRequired(authService)
	adminRequired := middleware.AdminRequired()

	api := app.Group("/api")
	authHandler.RegisterRoutes(api, authRequired)
	categoryHandler.RegisterRoutes(api, authRequired, adminRequired)
	productHandler.RegisterRoutes(api, authRequired)
	orderHandler.RegisterRoutes(api, authRequired)
	adminHandler.RegisterRoutes(api, authRequired, adminRequired)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Order event consumer ---
	if mqClient != nil {
		go func() {
			log.Println("Starting order event consumer...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received order event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeOrderEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start order event consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP server ---
	appPort := viper.GetString("APP_PORT")
	log.Printf("Starting server on %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openDatabase connects to Postgres when DATABASE_URL is set and falls back
// to a local SQLite file otherwise.
func openDatabase() (*gorm.DB, error) {
	if dsn := viper.GetString("DATABASE_URL"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(viper.GetString("SQLITE_PATH")), &gorm.Config{})
}
