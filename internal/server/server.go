package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"anoa.com/fatetable/internal/config"
	"anoa.com/fatetable/internal/middleware"
	"anoa.com/fatetable/internal/modules/dice"
	"anoa.com/fatetable/pkg/clock"
	"anoa.com/fatetable/pkg/database"
	"anoa.com/fatetable/pkg/ratelimit"
	"anoa.com/fatetable/pkg/validator"

	campaignHttp "anoa.com/fatetable/internal/modules/campaign/delivery/http"
	campaignRepo "anoa.com/fatetable/internal/modules/campaign/repository"
	campaignService "anoa.com/fatetable/internal/modules/campaign/service"

	catalogHttp "anoa.com/fatetable/internal/modules/catalog/delivery/http"
	catalogRepo "anoa.com/fatetable/internal/modules/catalog/repository"
	catalogService "anoa.com/fatetable/internal/modules/catalog/service"

	characterHttp "anoa.com/fatetable/internal/modules/character/delivery/http"
	characterRepo "anoa.com/fatetable/internal/modules/character/repository"
	characterService "anoa.com/fatetable/internal/modules/character/service"

	ideaHttp "anoa.com/fatetable/internal/modules/idea/delivery/http"
	ideaRepo "anoa.com/fatetable/internal/modules/idea/repository"
	ideaService "anoa.com/fatetable/internal/modules/idea/service"

	itemHttp "anoa.com/fatetable/internal/modules/item/delivery/http"
	itemRepo "anoa.com/fatetable/internal/modules/item/repository"
	itemService "anoa.com/fatetable/internal/modules/item/service"

	kidouHttp "anoa.com/fatetable/internal/modules/kidou/delivery/http"
	kidouRepo "anoa.com/fatetable/internal/modules/kidou/repository"
	kidouService "anoa.com/fatetable/internal/modules/kidou/service"

	messageHttp "anoa.com/fatetable/internal/modules/message/delivery/http"
	messageRepo "anoa.com/fatetable/internal/modules/message/repository"
	messageService "anoa.com/fatetable/internal/modules/message/service"

	noteHttp "anoa.com/fatetable/internal/modules/note/delivery/http"
	noteRepo "anoa.com/fatetable/internal/modules/note/repository"
	noteService "anoa.com/fatetable/internal/modules/note/service"

	notiHttp "anoa.com/fatetable/internal/modules/notification/delivery/http"
	notifRepo "anoa.com/fatetable/internal/modules/notification/repository"
	notifService "anoa.com/fatetable/internal/modules/notification/service"

	powerHttp "anoa.com/fatetable/internal/modules/power/delivery/http"
	powerRepo "anoa.com/fatetable/internal/modules/power/repository"
	powerService "anoa.com/fatetable/internal/modules/power/service"

	rollHttp "anoa.com/fatetable/internal/modules/roll/delivery/http"
	rollRepo "anoa.com/fatetable/internal/modules/roll/repository"
	rollService "anoa.com/fatetable/internal/modules/roll/service"

	rollRequestHttp "anoa.com/fatetable/internal/modules/rollrequest/delivery/http"
	rollRequestRepo "anoa.com/fatetable/internal/modules/rollrequest/repository"
	rollRequestService "anoa.com/fatetable/internal/modules/rollrequest/service"

	userHttp "anoa.com/fatetable/internal/modules/user/delivery/http"
	userRepo "anoa.com/fatetable/internal/modules/user/repository"
	userService "anoa.com/fatetable/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if err := validator.Register(); err != nil {
		return nil, err
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	tx := database.NewTransactor(db)
	clk := clock.New()

	userRepo := userRepo.NewUserRepository(db)
	campaignRepo := campaignRepo.NewCampaignRepository(db)
	catalogRepo := catalogRepo.NewCatalogRepository(db)
	characterRepo := characterRepo.NewCharacterRepository(db)
	rollRepo := rollRepo.NewRollRepository(db)
	rollRequestRepo := rollRequestRepo.NewRollRequestRepository(db)
	powerRepo := powerRepo.NewPowerRepository(db)
	ideaRepo := ideaRepo.NewIdeaRepository(db)
	itemRepo := itemRepo.NewItemRepository(db)
	noteRepo := noteRepo.NewNoteRepository(db)
	messageRepo := messageRepo.NewMessageRepository(db)
	kidouRepo := kidouRepo.NewKidouRepository(db)

	// Notification Module
	notificationRepository := notifRepo.NewNotificationRepository(db)
	dispatcher := notifService.NewDispatcher(notificationRepository, notifService.NewRedisBroadcaster(redisClient))
	notificationSvc := notifService.NewNotificationService(notificationRepository)
	notificationHandler := notiHttp.NewNotificationHandler(notificationSvc, redisClient, cfg.Origins())

	userSvc := userService.NewService(userRepo)
	userHandler := userHttp.NewUserHandler(userSvc)

	catalogSvc := catalogService.NewService(catalogRepo, campaignRepo)
	catalogHandler := catalogHttp.NewCatalogHandler(catalogSvc)

	characterSvc := characterService.NewService(tx, characterRepo, campaignRepo, catalogRepo)
	characterHandler := characterHttp.NewCharacterHandler(characterSvc)

	rollSvc := rollService.NewService(tx, characterRepo, campaignRepo, catalogRepo, rollRepo, dice.NewDefaultRoller(), dispatcher)
	rollHandler := rollHttp.NewRollHandler(rollSvc)

	rollRequestSvc := rollRequestService.NewService(tx, rollRequestRepo, characterRepo, campaignRepo, catalogRepo, rollSvc, dispatcher, clk)
	rollRequestHandler := rollRequestHttp.NewRollRequestHandler(rollRequestSvc)

	powerSvc := powerService.NewService(tx, characterRepo, campaignRepo, powerRepo, ideaRepo, dispatcher)
	powerHandler := powerHttp.NewPowerHandler(powerSvc)

	limiter := ratelimit.New(redisClient, cfg.RateLimitIdea)
	ideaSvc := ideaService.NewService(tx, ideaRepo, characterRepo, campaignRepo, catalogRepo, powerRepo, powerSvc, limiter, dispatcher, clk)
	ideaHandler := ideaHttp.NewIdeaHandler(ideaSvc)

	itemSvc := itemService.NewService(tx, itemRepo, characterRepo, campaignRepo, dispatcher)
	itemHandler := itemHttp.NewItemHandler(itemSvc)

	noteSvc := noteService.NewService(noteRepo, characterRepo, campaignRepo)
	noteHandler := noteHttp.NewNoteHandler(noteSvc)

	messageSvc := messageService.NewService(tx, messageRepo, campaignRepo, userRepo, dispatcher)
	messageHandler := messageHttp.NewMessageHandler(messageSvc)

	kidouSvc := kidouService.NewService(tx, kidouRepo, characterRepo, campaignRepo, dispatcher, clk)
	kidouHandler := kidouHttp.NewKidouHandler(kidouSvc)

	campaignSvc := campaignService.NewService(tx, campaignRepo, userRepo, notificationSvc, rollSvc, rollRequestSvc, messageSvc, dispatcher, clk,
		campaignService.Config{PollWindow: cfg.PollDefaultWindow})
	campaignHandler := campaignHttp.NewCampaignHandler(campaignSvc)

	router := gin.New()

	setupCORS(router, cfg.Origins())

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		// Hit by the load balancer health check.
		SkipPaths: []string{"/healthz"},
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	protected := router.Group("/api")
	protected.Use(authMiddleware.RequireAuth(), authMiddleware.ResolveActor())
	{
		protected.GET("/me", userHandler.Me)

		// Admin routes
		adminGroup := protected.Group("/admin")
		{
			adminGroup.POST("/users", userHandler.CreateUser)
			adminGroup.GET("/users", userHandler.GetAllUsers)
		}

		// Roll routes
		protected.POST("/rolls", rollHandler.Roll)
		protected.GET("/rolls", rollHandler.List)
		protected.POST("/rolls/:id/mark_seen", rollHandler.MarkSeen)

		// Campaign routes
		protected.POST("/campaigns", campaignHandler.Create)
		protected.GET("/campaigns", campaignHandler.List)
		protected.GET("/campaigns/:id", campaignHandler.Get)
		protected.POST("/campaigns/:id/ban_player", campaignHandler.Ban)
		protected.PUT("/campaigns/:id/map", campaignHandler.UpdateMap)
		protected.GET("/campaigns/:id/poll", campaignHandler.Poll)
		protected.POST("/campaigns/:id/request_roll", rollRequestHandler.Request)
		protected.POST("/campaigns/:id/complete_roll", rollRequestHandler.Complete)
		protected.GET("/campaigns/:id/roll_requests", rollRequestHandler.ListOpen)
		protected.GET("/campaigns/:id/characters", characterHandler.ListByCampaign)

		// Character routes
		protected.POST("/characters", characterHandler.Create)
		protected.GET("/characters/:id", characterHandler.Get)
		protected.DELETE("/characters/:id", characterHandler.Delete)
		protected.PUT("/characters/:id/traits", characterHandler.ReplaceTraits)
		protected.PUT("/characters/:id/skills", characterHandler.AttachSkills)
		protected.PATCH("/characters/:id/update_stats", powerHandler.UpdateStats)
		protected.POST("/characters/:id/set_release", powerHandler.SetRelease)
		protected.POST("/characters/:id/add_fate_point", powerHandler.AddFatePoints)
		protected.GET("/characters/:id/powers", powerHandler.Owned)
		protected.GET("/characters/:id/items", itemHandler.ListByCharacter)
		protected.GET("/characters/:id/notes", noteHandler.List)
		protected.GET("/characters/:id/kidou", kidouHandler.Sheet)
		protected.POST("/characters/:id/kidou_offers", kidouHandler.Offer)

		// Note routes
		protected.POST("/notes", noteHandler.Create)
		protected.GET("/notes", noteHandler.List)
		protected.PATCH("/notes/:id", noteHandler.Update)
		protected.DELETE("/notes/:id", noteHandler.Delete)

		// Message routes
		protected.POST("/messages", messageHandler.Send)
		protected.GET("/messages", messageHandler.List)

		// Kidou routes
		protected.GET("/bleach-spells", kidouHandler.ListSpells)
		protected.POST("/kidou-offers/:id/choose", kidouHandler.Choose)

		// Item routes
		protected.POST("/items", itemHandler.Create)
		protected.POST("/items/:id/transfer", itemHandler.Transfer)

		// Idea routes
		protected.POST("/power-ideas", ideaHandler.SubmitPower)
		protected.GET("/power-ideas", ideaHandler.ListPower)
		protected.POST("/power-ideas/:id/approve", ideaHandler.ApprovePower)
		protected.POST("/power-ideas/:id/reject", ideaHandler.RejectPower)
		protected.POST("/skill-ideas", ideaHandler.SubmitSkill)
		protected.GET("/skill-ideas", ideaHandler.ListSkill)
		protected.POST("/skill-ideas/:id/approve", ideaHandler.ApproveSkill)
		protected.POST("/skill-ideas/:id/reject", ideaHandler.RejectSkill)

		// Catalog routes
		protected.POST("/skills", catalogHandler.CreateSkill)
		protected.GET("/skills", catalogHandler.ListSkills)
		protected.POST("/traits", catalogHandler.CreateTrait)
		protected.GET("/traits", catalogHandler.ListTraits)

		// Notification routes
		protected.GET("/notifications", notificationHandler.GetNotifications)
		protected.GET("/notifications/unread_count", notificationHandler.UnreadCount)
		protected.POST("/notifications/:id/mark_read", notificationHandler.MarkAsRead)
		protected.POST("/notifications/mark_all_read", notificationHandler.MarkAllAsRead)
		protected.GET("/notifications/ws", notificationHandler.HandleWebSocket)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if s.redisClient != nil {
			_ = s.redisClient.Close()
		}
		return nil
	case err := <-errChan:
		return err
	}
}

func setupCORS(router *gin.Engine, origins []string) {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
