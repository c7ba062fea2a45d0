package cmd

import (
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"

	httpin "lastmile/internal/adapters/in/http"
	"lastmile/internal/adapters/out/kafka/orderevents"
	"lastmile/internal/adapters/out/postgres"
	"lastmile/internal/adapters/out/rabbit"
	"lastmile/internal/adapters/out/redis/locationcache"
	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/services"
	"lastmile/internal/core/ports"
)

// DefaultOtpTTL is used when OTP_TTL is unset or unparsable.
const DefaultOtpTTL = 5 * time.Minute

// CompositionRoot wires the adapters into the application's handlers.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	publisher  ports.OrderEventPublisher
	notifier   ports.Notifier
	cache      ports.LocationCache
	otpTTL     time.Duration
}

// NewCompositionRoot builds the root over already-established connections.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	redisClient *redis.Client,
	kafkaWriter *kafka.Writer,
	rabbitChannel *amqp.Channel,
) (CompositionRoot, error) {
	publisher, err := orderevents.NewKafkaOrderEventPublisher(kafkaWriter)
	if err != nil {
		return CompositionRoot{}, err
	}

	notifier, err := rabbit.NewRabbitNotifier(rabbitChannel)
	if err != nil {
		return CompositionRoot{}, err
	}

	cache, err := locationcache.NewRedisLocationCache(redisClient, locationcache.DefaultTTL)
	if err != nil {
		return CompositionRoot{}, err
	}

	otpTTL := DefaultOtpTTL
	if parsed, parseErr := time.ParseDuration(config.OtpTTL); parseErr == nil && parsed > 0 {
		otpTTL = parsed
	}

	return CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		publisher:  publisher,
		notifier:   notifier,
		cache:      cache,
		otpTTL:     otpTTL,
	}, nil
}

// CreateHTTPHandlers bundles every handler the HTTP server dispatches to.
func (c *CompositionRoot) CreateHTTPHandlers() (httpin.Handlers, error) {
	getAllRiders, err := queries.NewGetAllRidersQueryHandler(c.gormDB)
	if err != nil {
		return httpin.Handlers{}, err
	}

	return httpin.Handlers{
		CreateOrder:          commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.publisher),
		MarkOrderPaid:        commands.NewMarkOrderPaidCommandHandler(c.orderUoWFactory(), c.publisher),
		ConfirmOrder:         commands.NewConfirmOrderCommandHandler(c.orderUoWFactory(), c.publisher),
		PackOrder:            commands.NewPackOrderCommandHandler(c.orderUoWFactory(), c.publisher),
		CancelOrder:          commands.NewCancelOrderCommandHandler(c.uoWFactory(), c.publisher),
		RespondOffer:         commands.NewRespondOfferCommandHandler(c.uoWFactory(), c.publisher),
		UpdateDeliveryStatus: commands.NewUpdateDeliveryStatusCommandHandler(c.orderUoWFactory(), c.publisher),
		StartDeliveryAttempt: c.CreateStartDeliveryAttemptCommandHandler(),
		VerifyOtp:            commands.NewVerifyOtpCommandHandler(c.uoWFactory(), c.publisher),
		CollectCod:           commands.NewCollectCodCommandHandler(c.codUoWFactory()),
		ReportFailedAttempt:  commands.NewReportFailedAttemptCommandHandler(c.uoWFactory(), c.publisher),
		CreateRider:          commands.NewCreateRiderCommandHandler(c.riderUoWFactory()),
		SetRiderDuty:         commands.NewSetRiderDutyCommandHandler(c.riderUoWFactory()),
		PutRiderLocation:     commands.NewPutRiderLocationCommandHandler(c.uoWFactory(), c.cache),
		GetAllRiders:         getAllRiders,
		GetActiveRoute:       queries.NewGetActiveRouteQueryHandler(c.gormDB),
		GetOrderTrack:        queries.NewGetOrderTrackQueryHandler(c.gormDB, c.cache),
	}, nil
}

// CreateStartDeliveryAttemptCommandHandler wires the OTP issue flow.
func (c *CompositionRoot) CreateStartDeliveryAttemptCommandHandler() commands.StartDeliveryAttemptCommandHandler {
	return commands.NewStartDeliveryAttemptCommandHandler(
		c.codUoWFactory(), services.NewOtpGenerator(), c.notifier, c.otpTTL)
}

// CreateAssignRiderCommandHandler wires the dispatch pass for the
// assignment job.
func (c *CompositionRoot) CreateAssignRiderCommandHandler() commands.AssignRiderCommandHandler {
	return commands.NewAssignRiderCommandHandler(
		c.uoWFactory(), services.NewOfferDispatcher(), c.notifier)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) riderUoWFactory() commands.RiderUoWFactory {
	return FuncRiderUoWFactory(func() commands.RiderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) codUoWFactory() commands.CodUoWFactory {
	return FuncCodUoWFactory(func() commands.CodUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncRiderUoWFactory func() commands.RiderUoW

func (f FuncRiderUoWFactory) Create() commands.RiderUoW {
	return f()
}

type FuncCodUoWFactory func() commands.CodUoW

func (f FuncCodUoWFactory) Create() commands.CodUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
