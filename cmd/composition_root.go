package cmd

import (
	httpadapter "fulfillment/internal/adapters/in/http"
	feed "fulfillment/internal/adapters/in/websocket"
	"fulfillment/internal/adapters/out/eventbus"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/marketplace"
	"fulfillment/internal/adapters/out/payment"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	logger     logrus.FieldLogger
	uowFactory *postgres.GormUnitOfWorkFactory

	payments *payment.Client
	catalog  *marketplace.Client
	accounts *marketplace.Client

	escrowFeed *feed.Hub
	kafka      *kafka.EventPublisher
}

// NewCompositionRoot wires the adapters. Domain events go to the admin
// escrow feed and, when brokers are configured, to Kafka.
func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger logrus.FieldLogger) (*CompositionRoot, error) {
	root := &CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		logger:     logger,
		payments:   payment.NewClient(configs.PaymentBaseURL, configs.PaymentAPIKey, configs.ClientTimeout, logger),
		catalog:    marketplace.NewClient(configs.CatalogBaseURL, configs.ClientTimeout, logger),
		accounts:   marketplace.NewClient(configs.AccountsBaseURL, configs.ClientTimeout, logger),
		escrowFeed: feed.NewHub(logger),
	}

	publishers := []ports.EventPublisher{root.escrowFeed}
	if len(configs.KafkaBrokers) > 0 {
		publisher, err := kafka.NewEventPublisher(configs.KafkaBrokers, configs.KafkaOrderEventsTopic, logger)
		if err != nil {
			return nil, err
		}
		root.kafka = publisher
		publishers = append(publishers, publisher)
	} else {
		logger.Warn("KAFKA_BROKERS is empty, domain events go to the escrow feed only")
	}

	root.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, eventbus.NewFanout(publishers...), logger)
	return root, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		c.orderUoWFactory(), c.catalog, c.accounts, c.accounts, c.payments, c.logger,
	)
}

func (c *CompositionRoot) CreateAdvanceItemCommandHandler() commands.AdvanceItemCommandHandler {
	return commands.NewAdvanceItemCommandHandler(c.orderUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.orderUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateCancelItemCommandHandler() commands.CancelItemCommandHandler {
	return commands.NewCancelItemCommandHandler(c.orderUoWFactory(), c.payments, c.logger)
}

func (c *CompositionRoot) CreateRefundItemCommandHandler() commands.RefundItemCommandHandler {
	return commands.NewRefundItemCommandHandler(c.orderUoWFactory(), c.payments, c.configs.DisputeWindow, c.logger)
}

func (c *CompositionRoot) CreateReleaseEscrowCommandHandler() commands.ReleaseEscrowCommandHandler {
	return commands.NewReleaseEscrowCommandHandler(c.orderUoWFactory(), c.payments, c.logger)
}

func (c *CompositionRoot) CreateGetOrderDetailQueryHandler() queries.GetOrderDetailQueryHandler {
	return queries.NewGetOrderDetailQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListPickupItemsQueryHandler() queries.ListPickupItemsQueryHandler {
	return queries.NewListPickupItemsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListAwaitingReleaseQueryHandler() queries.ListAwaitingReleaseQueryHandler {
	return queries.NewListAwaitingReleaseQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetReleaseBacklogQueryHandler() queries.GetReleaseBacklogQueryHandler {
	return queries.NewGetReleaseBacklogQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateRouter(gatherer prometheus.Gatherer) (*echo.Echo, error) {
	server := httpadapter.NewServer(httpadapter.Handlers{
		CreateOrder:         c.CreateCreateOrderCommandHandler(),
		AdvanceItem:         c.CreateAdvanceItemCommandHandler(),
		ConfirmDelivery:     c.CreateConfirmDeliveryCommandHandler(),
		CancelItem:          c.CreateCancelItemCommandHandler(),
		RefundItem:          c.CreateRefundItemCommandHandler(),
		ReleaseEscrow:       c.CreateReleaseEscrowCommandHandler(),
		GetOrderDetail:      c.CreateGetOrderDetailQueryHandler(),
		ListPickupItems:     c.CreateListPickupItemsQueryHandler(),
		ListAwaitingRelease: c.CreateListAwaitingReleaseQueryHandler(),
	}, c.logger.WithField("component", "http"))

	return httpadapter.NewRouter(server, c.escrowFeed, gatherer)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	backlogJob := jobs.NewReleaseBacklogJob(
		c.CreateGetReleaseBacklogQueryHandler(),
		c.configs.BacklogReportSchedule,
		c.configs.BacklogWarnAfter,
		c.logger,
	)
	return jobs.NewJobManager(backlogJob)
}

func (c *CompositionRoot) EscrowFeed() *feed.Hub {
	return c.escrowFeed
}

// Close flushes and closes the Kafka producer.
func (c *CompositionRoot) Close() error {
	if c.kafka == nil {
		return nil
	}
	return c.kafka.Close()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
