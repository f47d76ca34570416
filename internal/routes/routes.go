package routes

import (
	"log"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/cache"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/config"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/events"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/handlers"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/middleware"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/repository"
	"github.com/rafay-47/sports-pass-app-backend-sub000/internal/services"
	notifyws "github.com/rafay-47/sports-pass-app-backend-sub000/internal/websocket"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	clubRepo := repository.NewClubRepository(db)
	sportRepo := repository.NewSportRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	trainerRepo := repository.NewTrainerProfileRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	requestRepo := repository.NewRequestRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	checkInRepo := repository.NewCheckInRepository(db)
	eventRepo := repository.NewEventRepository(db)

	var catalogCache *cache.Cache
	if cfg.RedisAddr != "" {
		c, err := cache.New(cfg.RedisAddr)
		if err != nil {
			log.Printf("redis unavailable, catalog cache disabled: %v", err)
		} else {
			catalogCache = c
		}
	}

	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	}

	hub := notifyws.NewHub()
	go hub.Run()

	notificationService := services.NewNotificationService(notificationRepo, hub)
	catalogService := services.NewCatalogService(clubRepo, sportRepo, serviceRepo, catalogCache)
	membershipService := services.NewMembershipService(db, membershipRepo, sportRepo, clubRepo)
	trainerService := services.NewTrainerProfileService(trainerRepo, sportRepo)
	availabilityService := services.NewAvailabilityService(availabilityRepo, trainerRepo)
	requestService := services.NewRequestService(
		db,
		requestRepo,
		membershipRepo,
		trainerRepo,
		serviceRepo,
		notificationService,
		publisher,
	)
	sessionService := services.NewSessionService(
		db,
		sessionRepo,
		paymentRepo,
		trainerRepo,
		membershipRepo,
		notificationService,
		publisher,
	)
	checkInService := services.NewCheckInService(checkInRepo, membershipRepo, clubRepo)
	eventService := services.NewEventService(eventRepo, clubRepo)

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	membershipHandler := handlers.NewMembershipHandler(membershipService)
	trainerHandler := handlers.NewTrainerHandler(trainerService, membershipService)
	availabilityHandler := handlers.NewAvailabilityHandler(availabilityService)
	requestHandler := handlers.NewRequestHandler(requestService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	checkInHandler := handlers.NewCheckInHandler(checkInService)
	eventHandler := handlers.NewEventHandler(eventService)
	notificationHandler := handlers.NewNotificationHandler(notificationService, hub, cfg.JWTSecret)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	clubs := authProtected.Group("/clubs")
	clubs.Get("", catalogHandler.ListClubs)
	clubs.Post("", catalogHandler.CreateClub)
	clubs.Get("/:id", catalogHandler.GetClub)
	clubs.Put("/:id", catalogHandler.UpdateClub)
	clubs.Get("/:id/events", eventHandler.ListByClub)
	clubs.Post("/:id/events", eventHandler.Create)

	clubEvents := authProtected.Group("/events")
	clubEvents.Post("/:id/register", eventHandler.Register)

	sports := authProtected.Group("/sports")
	sports.Get("", catalogHandler.ListSports)
	sports.Post("", catalogHandler.CreateSport)
	sports.Post("/:id/tiers", catalogHandler.CreateTier)

	trainerServices := authProtected.Group("/services")
	trainerServices.Get("", catalogHandler.ListServices)
	trainerServices.Post("", catalogHandler.CreateService)

	memberships := authProtected.Group("/memberships")
	memberships.Post("", membershipHandler.Purchase)
	memberships.Get("", membershipHandler.ListMine)
	memberships.Get("/:id", membershipHandler.Get)
	memberships.Post("/:id/cancel", membershipHandler.Cancel)

	checkins := authProtected.Group("/checkins")
	checkins.Post("", checkInHandler.CheckIn)
	checkins.Get("", checkInHandler.History)

	trainers := authProtected.Group("/trainers")
	trainers.Get("", trainerHandler.List)
	trainers.Post("/profile", trainerHandler.CreateProfile)
	trainers.Get("/profile", trainerHandler.GetOwnProfile)
	trainers.Put("/profile", trainerHandler.UpdateProfile)
	trainers.Post("/availability", availabilityHandler.Create)
	trainers.Put("/availability/:id", availabilityHandler.Update)
	trainers.Get("/recommended", trainerHandler.Recommend)
	trainers.Get("/:id", trainerHandler.Get)
	trainers.Get("/:id/availability", availabilityHandler.ListForTrainer)
	trainers.Post("/:id/verify", trainerHandler.Verify)

	requests := authProtected.Group("/requests")
	requests.Post("", requestHandler.Create)
	requests.Get("/incoming", requestHandler.ListIncoming)
	requests.Get("/mine", requestHandler.ListMine)
	requests.Get("/:id", requestHandler.Get)
	requests.Post("/:id/accept", requestHandler.Accept)
	requests.Post("/:id/decline", requestHandler.Decline)
	requests.Post("/:id/cancel", requestHandler.Cancel)

	sessions := authProtected.Group("/sessions")
	sessions.Post("/book", sessionHandler.Book)
	sessions.Get("/availability", sessionHandler.CheckAvailability)
	sessions.Get("", sessionHandler.List)
	sessions.Get("/:id", sessionHandler.Get)
	sessions.Put("/:id", sessionHandler.Update)
	sessions.Put("/:id/status", sessionHandler.UpdateStatus)
	sessions.Post("/:id/cancel", sessionHandler.Cancel)
	sessions.Post("/:id/rate", sessionHandler.Rate)
	sessions.Post("/:id/pay", sessionHandler.Pay)

	notifications := authProtected.Group("/notifications")
	notifications.Get("", notificationHandler.List)
	notifications.Put("/:id/read", notificationHandler.MarkRead)

	api.Use("/v1/ws", notificationHandler.WebSocketAuth)
	api.Get("/v1/ws", websocket.New(notificationHandler.HandleWebSocket))
}
