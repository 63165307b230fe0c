package bootstrap

import (
	"context"
	"log"
	"time"

	"swiftmart-be/internal/config"
	"swiftmart-be/internal/controller"
	"swiftmart-be/internal/handler"
	"swiftmart-be/internal/pkg/lock"
	"swiftmart-be/internal/pkg/logger"
	"swiftmart-be/internal/pkg/mailer"
	"swiftmart-be/internal/repository/memory"
	"swiftmart-be/internal/repository/unitofwork"
	"swiftmart-be/internal/service"
	adminRefund "swiftmart-be/pkg/admin/refund"
	pktNats "swiftmart-be/pkg/nats"
	"swiftmart-be/pkg/paystack"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const notificationTopic = "notifications"

type Container struct {
	// Controllers
	OrderController  controller.IOrderController
	WalletController controller.IWalletController
	AdminController  controller.IAdminController

	// Inbox surface
	NotificationHandler *handler.NotificationHandler

	// Background worker (exposed for main.go to run)
	NotificationService service.INotificationService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
	)

	// 2. Event Bus (in-process notification pipeline)
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS (domain events for downstream consumers; degraded mode if down)
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis (cross-instance refund lock; degraded mode if down)
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	orderLock := lock.NewOrderLock(rdb, 30*time.Second)

	// Payment gateway
	gateway := paystack.NewClient(
		cfg.Paystack.BaseURL,
		cfg.Paystack.SecretKey,
		time.Duration(cfg.Paystack.TimeoutSeconds)*time.Second,
	)

	receipts := memory.NewReceiptCache(5 * time.Minute)

	// 3. Services
	notifierService := service.NewNotifierService(notificationTopic, pubSub)
	notificationService := service.NewNotificationService(
		pubSub,
		notificationTopic,
		uowFactory,
		emailService,
		sysLogger,
	)

	refundService := service.NewRefundService(
		uowFactory,
		gateway,
		orderLock,
		receipts,
		notifierService,
		natsPub,
		sysLogger,
	)
	cancellationService := service.NewCancellationService(
		uowFactory,
		refundService,
		notifierService,
		natsPub,
		sysLogger,
	)
	walletService := service.NewWalletService(uowFactory)

	// Operator side of manual refunds
	refundProcessor := adminRefund.NewProcessor(sysLogger, notifierService, natsPub)

	// Handler
	notifHandler := handler.NewNotificationHandler(notificationService, sysLogger)

	// 4. Controllers
	return &Container{
		OrderController:     controller.NewOrderController(cancellationService, refundService),
		WalletController:    controller.NewWalletController(walletService),
		AdminController:     controller.NewAdminController(refundProcessor, uowFactory),
		NotificationHandler: notifHandler,
		NotificationService: notificationService,
		Logger:              sysLogger,
	}
}
