package provider

import (
	"github.com/winappio/offerwall/internal/cache"
	"github.com/winappio/offerwall/internal/config"
	"github.com/winappio/offerwall/internal/logger"
	"github.com/winappio/offerwall/internal/models"
	"github.com/winappio/offerwall/internal/notify"
	"github.com/winappio/offerwall/internal/queue"
	"github.com/winappio/offerwall/internal/repository"
	"github.com/winappio/offerwall/internal/service"
)

// Container wires repositories and services together.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	ClickRepo          repository.ClickRepository
	CompletedOfferRepo repository.CompletedOfferRepository
	UserStatsRepo      repository.UserStatsRepository

	// Services
	PostbackService *service.PostbackService
	ClickService    *service.ClickService

	// Notifications
	Hub       *notify.Hub
	Publisher *notify.Publisher
}

// NewContainer initializes the container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.ClickRepo = repository.NewClickRepository(db)
	c.CompletedOfferRepo = repository.NewCompletedOfferRepository(db)
	c.UserStatsRepo = repository.NewUserStatsRepository(db)
}

func (c *Container) initServices() {
	c.PostbackService = service.NewPostbackService(
		c.ClickRepo,
		c.CompletedOfferRepo,
		c.UserStatsRepo,
		c.QueueClient,
		c.Config.Postback.Secret,
	)
	c.ClickService = service.NewClickService(
		c.ClickRepo,
		c.CompletedOfferRepo,
		c.UserStatsRepo,
		c.Config.Offers,
	)
	c.Hub = notify.NewHub(c.Config.Notify.SessionBufferSize)
	c.Publisher = notify.NewPublisher(c.Hub, c.Config.Notify.Channel)
}
