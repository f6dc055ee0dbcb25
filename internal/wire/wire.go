package wire

import (
	"Sillage/internal/api"
	"Sillage/internal/api/config"
	"Sillage/internal/api/handler"
	"Sillage/internal/job"
	"Sillage/internal/pkg/cron"
	"Sillage/internal/pkg/es"
	"Sillage/internal/pkg/kafka"
	"Sillage/internal/pkg/mongo"
	"Sillage/internal/repository"
	"Sillage/internal/service"

	"github.com/gin-gonic/gin"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
	IMService    service.IMService
}

func BuildApplication(db *gorm.DB, mongoDB *mongodrv.Database, cfg *config.Config) (*ApplicationContainer, error) {
	// Repository 层
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	houseRepo := repository.NewHouseRepo(db)
	perfumeRepo := repository.NewPerfumeRepo(db)
	noteRepo := repository.NewNoteRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	profileRepo := repository.NewScentProfileRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	prefsRepo := repository.NewAlertPreferencesRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	convRepo := repository.NewConversationRepo(db)

	perfumeESRepo := es.NewPerfumeRepo(es.Client)
	messageRepo := mongo.NewMessageRepo(mongoDB)

	// Service 层
	userService := service.NewUserService(userRepo, roleRepo)
	catalogService := service.NewCatalogService(houseRepo, perfumeRepo, noteRepo, perfumeESRepo)
	profileService := service.NewScentProfileService(profileRepo, noteRepo)
	alertService := service.NewAlertService(alertRepo, prefsRepo, wishlistRepo, inventoryRepo, perfumeRepo, userRepo)
	inventoryService := service.NewInventoryService(inventoryRepo, perfumeRepo, alertService, profileService)
	wishlistService := service.NewWishlistService(wishlistRepo, inventoryRepo, perfumeRepo, alertService, profileService)
	ratingService := service.NewRatingService(ratingRepo, perfumeRepo, profileService)
	reviewService := service.NewReviewService(reviewRepo, perfumeRepo)
	feedbackService := service.NewFeedbackService(feedbackRepo, userRepo)
	submissionService := service.NewSubmissionService(submissionRepo, houseRepo, perfumeRepo, noteRepo)
	notificationService := service.NewNotificationService(wishlistRepo, perfumeRepo, alertService)
	imService := service.NewIMService(convRepo, messageRepo)

	handlers := &api.HandlersGroup{
		UserHandler:         handler.NewUserHandler(userService),
		CatalogHandler:      handler.NewCatalogHandler(catalogService),
		MediaHandler:        handler.NewMediaHandler(catalogService),
		InventoryHandler:    handler.NewInventoryHandler(inventoryService),
		WishlistHandler:     handler.NewWishlistHandler(wishlistService),
		RatingHandler:       handler.NewRatingHandler(ratingService),
		ReviewHandler:       handler.NewReviewHandler(reviewService),
		ScentProfileHandler: handler.NewScentProfileHandler(profileService),
		AlertHandler:        handler.NewAlertHandler(alertService),
		FeedbackHandler:     handler.NewFeedbackHandler(feedbackService),
		SubmissionHandler:   handler.NewSubmissionHandler(submissionService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		IMHandler:           handler.NewIMHandler(imService),
		WSHandler:           handler.NewWsHandler(imService),
	}

	router := api.SetupRouter(handlers)

	// CDC 消费者, 监听 MySQL binlog 同步香水与品牌到 ES
	kafkaMgr, err := kafka.NewConsumerManager(cfg, houseRepo, noteRepo, perfumeESRepo)
	if err != nil {
		return nil, err
	}

	// 定时任务
	wishlistJob := job.NewWishlistNotificationJob(notificationService)
	cronMgr := cron.NewCronManager(wishlistJob)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
		IMService:    imService,
	}, nil
}
