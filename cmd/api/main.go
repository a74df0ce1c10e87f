package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"

	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/fitgrid/fitgrid-backend/internal/config"
	"github.com/fitgrid/fitgrid-backend/internal/handler"
	"github.com/fitgrid/fitgrid-backend/internal/middleware"
	"github.com/fitgrid/fitgrid-backend/internal/models"
	"github.com/fitgrid/fitgrid-backend/internal/repository"
	"github.com/fitgrid/fitgrid-backend/internal/service"
	"github.com/fitgrid/fitgrid-backend/pkg/database"
	zaplog "github.com/fitgrid/fitgrid-backend/pkg/logger"
	"github.com/fitgrid/fitgrid-backend/pkg/payment"
	"github.com/fitgrid/fitgrid-backend/pkg/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	cfg := config.LoadConfig()

	zl, err := zaplog.New()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zl.Sync()

	db := database.NewDatabase()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	packageRepo := repository.NewCreditPackageRepository(db)
	cartRepo := repository.NewCartRepository(db)
	classRepo := repository.NewClassRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	processedRepo := repository.NewProcessedPaymentRepository(db)
	workoutRepo := repository.NewWorkoutRepository(db)

	// Stripe service
	stripeService := payment.NewStripeService(cfg.StripeSecretKey)

	// Services
	authService := service.NewAuthService(userRepo)
	packageService := service.NewPackageService(packageRepo)
	cartService := service.NewCartService(cartRepo, packageRepo)
	classService := service.NewClassService(db, classRepo, sessionRepo, workoutRepo)
	scheduleService := service.NewScheduleService(classRepo, sessionRepo, bookingRepo, workoutRepo)
	ledger := service.NewLedger(ledgerRepo, userRepo)
	bookingService := service.NewBookingService(db, classRepo, sessionRepo, bookingRepo, ledger, cfg.CancellationCutoff, zl)
	paymentService := service.NewPaymentService(db, stripeService, userRepo, cartRepo, ledger, processedRepo, zl)

	validator := utils.NewValidator()

	// Handlers
	authHandler := handler.NewAuthHandler(authService, validator)
	bookingHandler := handler.NewBookingHandler(bookingService, validator)
	cartHandler := handler.NewCartHandler(cartService, validator)
	paymentHandler := handler.NewPaymentHandler(paymentService, ledger, packageService, zl)
	classHandler := handler.NewClassHandler(classService, scheduleService, validator)

	// Router
	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:5173",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, DELETE",
		AllowCredentials: true,
	}))
	app.Use(logger.New())
	app.Use(limiter.New(limiter.Config{
		Max:        20,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api := app.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	api.Get("/packages", paymentHandler.GetCreditPackages)
	api.Get("/schedule", classHandler.GetSchedule)

	// Stripe webhook (public, provider-authenticated by signature)
	api.Post("/payments/webhook", paymentHandler.HandleStripeWebhook)

	// Protected routes
	api.Use(middleware.AuthMiddleware())
	{
		bookings := api.Group("/bookings")
		bookings.Post("/", bookingHandler.CreateBooking)
		bookings.Get("/", bookingHandler.GetMyBookings)
		bookings.Delete("/:id", bookingHandler.CancelBooking)

		cart := api.Group("/cart")
		cart.Get("/", cartHandler.GetCart)
		cart.Post("/items", cartHandler.AddItem)
		cart.Delete("/items/:id", cartHandler.RemoveItem)

		api.Post("/checkout", paymentHandler.Checkout)

		credits := api.Group("/credits")
		credits.Get("/", paymentHandler.GetBalance)
		credits.Get("/history", paymentHandler.GetCreditHistory)

		classes := api.Group("/classes", middleware.RequireRole(models.RoleTrainer))
		classes.Post("/", classHandler.CreateClass)
		classes.Get("/", classHandler.GetMyClasses)
		classes.Post("/:id/sessions/:date/workout", classHandler.AssignWorkout)
	}

	log.Fatal(app.Listen(":" + cfg.Port))
}
