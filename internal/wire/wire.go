package wire

import (
	"Inkwell/internal/api"
	"Inkwell/internal/api/config"
	"Inkwell/internal/api/handler"
	"Inkwell/internal/api/middleware"
	"Inkwell/internal/job"
	"Inkwell/internal/pkg/cron"
	"Inkwell/internal/pkg/es"
	"Inkwell/internal/pkg/kafka"
	"Inkwell/internal/pkg/llm"
	"Inkwell/internal/pkg/mail"
	"Inkwell/internal/pkg/minio"
	"Inkwell/internal/pkg/mongo"
	"Inkwell/internal/pkg/processor"
	"Inkwell/internal/pkg/redis"
	"Inkwell/internal/repository"
	"Inkwell/internal/service"
	"context"
	"time"

	"github.com/gin-gonic/gin"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

const rescreenJobTimeout = 4 * time.Minute

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	Producer     *kafka.Producer
	CronMgr      *cron.Manager
	Effects      *service.AsyncEffects
}

func BuildApplication(db *gorm.DB, mongoDB *mongodriver.Database, cfg *config.Config) (*ApplicationContainer, error) {
	clock := service.SystemClock
	store := repository.NewStore(db)

	// 外部依赖
	producer, err := kafka.NewProducer(cfg)
	if err != nil {
		return nil, err
	}
	scorer, err := llm.NewScorer()
	if err != nil {
		return nil, err
	}
	inboxRepo := mongo.NewInboxRepo(mongoDB)
	if err = inboxRepo.EnsureIndexes(context.Background()); err != nil {
		return nil, err
	}
	contents := minio.NewContentStore(minio.Client, minio.ContentBucket)
	indexer := es.NewStoryRepo(es.Client, es.StoryIndex)
	counter := redis.NewViewCounter()
	mailer := mail.NewMailer(cfg.Mail)

	// 审核引擎
	notifier := service.NewNotifier(store, inboxRepo, mailer, producer, clock)
	effects := service.NewEffects(indexer, counter, producer, notifier, clock)
	statsService := service.NewModeratorStatsService(store)
	gate := service.NewSubmissionGate(cfg.Moderation, clock)
	moderationService := service.NewModerationService(store, gate, processor.NewPreScreener(scorer), statsService,
		effects, producer, contents, clock, cfg.Moderation.Screening)

	storyService := service.NewStoryService(store, producer, clock)
	chapterService := service.NewChapterService(store, contents, clock)
	inboxService := service.NewInboxService(inboxRepo)

	handlers := &api.HandlersGroup{
		StoryHandler:      handler.NewStoryHandler(storyService, moderationService),
		ChapterHandler:    handler.NewChapterHandler(chapterService, moderationService),
		ModerationHandler: handler.NewModerationHandler(moderationService, statsService),
		InboxHandler:      handler.NewInboxHandler(inboxService),
		Blacklist:         middleware.RedisBlacklist,
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, moderationService, service.IsScreeningSettled)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(
		cfg.Moderation.Jobs,
		job.NewRescreenJob(moderationService, rescreenJobTimeout),
		job.NewQueueGaugeJob(moderationService),
	)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		Producer:     producer,
		CronMgr:      cronMgr,
		Effects:      effects,
	}, nil
}
