package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"lastmile/internal/adapters/out/postgres/orderrepo"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// MockAggregateTracker is a mock implementation of aggregateTracker interface.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate interface{}) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite provides integration tests for OrderRepository
// using PostgreSQL containers to verify database persistence behavior.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_ValidOrder_Success() {
	ctx := context.Background()

	testOrder := suite.createTestOrder(order.PaymentCOD)
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Once()

	err := suite.repository.Add(ctx, testOrder)
	suite.Require().NoError(err)

	suite.assertOrderCount(1)
	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_ExistingOrder_RoundTrip() {
	ctx := context.Background()

	originalOrder := suite.createTestOrder(order.PaymentCOD)
	suite.tracker.On("TrackAggregate", originalOrder.ID(), originalOrder).Once()
	suite.Require().NoError(suite.repository.Add(ctx, originalOrder))

	retrievedOrder, err := suite.repository.Get(ctx, originalOrder.ID())
	suite.Require().NoError(err)

	suite.True(originalOrder.ID().IsEqual(retrievedOrder.ID()))
	suite.True(originalOrder.CustomerID().IsEqual(retrievedOrder.CustomerID()))
	suite.Equal(order.StatusCreated, retrievedOrder.Status())
	suite.Equal(order.DeliveryUnassigned, retrievedOrder.DeliveryStatus())
	suite.Equal(order.PaymentCOD, retrievedOrder.PaymentMethod())
	suite.Equal(order.PaymentStatusPending, retrievedOrder.PaymentStatus())
	suite.Equal(originalOrder.TotalAmount(), retrievedOrder.TotalAmount())
	suite.Equal(originalOrder.Items(), retrievedOrder.Items())
	suite.Equal(originalOrder.Earnings(), retrievedOrder.Earnings())
	suite.Nil(retrievedOrder.Rider())
	suite.Len(retrievedOrder.History(), 1)

	dropoffEqual, err := originalOrder.Dropoff().IsEqual(retrievedOrder.Dropoff())
	suite.Require().NoError(err)
	suite.True(dropoffEqual)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	ctx := context.Background()

	retrievedOrder, err := suite.repository.Get(ctx, kernel.NewUUID())

	suite.Nil(retrievedOrder)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_LifecycleStateIsPersisted() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	testOrder := suite.createTestOrder(order.PaymentUPI)
	suite.tracker.On("TrackAggregate", testOrder.ID(), testOrder).Times(2)
	suite.Require().NoError(suite.repository.Add(ctx, testOrder))

	// Walk the order to an assigned delivery leg.
	riderID := kernel.NewUUID()
	riderActor := order.Actor{ID: riderID, Role: order.RoleRider}
	suite.Require().NoError(testOrder.Offer(riderID, now))
	suite.Require().NoError(testOrder.AcceptOffer(riderActor, now.Add(time.Second)))

	suite.Require().NoError(suite.repository.Update(ctx, testOrder))

	retrievedOrder, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	suite.Equal(order.StatusAssigned, retrievedOrder.Status())
	suite.Equal(order.DeliveryAssigned, retrievedOrder.DeliveryStatus())
	suite.Require().NotNil(retrievedOrder.Rider())
	suite.True(riderID.IsEqual(*retrievedOrder.Rider()))

	assignments := retrievedOrder.AssignmentHistory()
	suite.Require().Len(assignments, 1)
	suite.Equal(order.AssignmentAccepted, assignments[0].Status())
	suite.True(riderID.IsEqual(assignments[0].RiderID()))

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_ClearedOtpIsClearedInRow() {
	ctx := context.Background()

	expiry := time.Now().UTC().Add(5 * time.Minute).Truncate(time.Millisecond)
	testOrder := suite.createTestOrder(order.PaymentCard)
	snapshot := suite.arrivedSnapshot(testOrder, "4217", &expiry)

	arrivedOrder, err := order.RestoreOrder(snapshot)
	suite.Require().NoError(err)

	suite.tracker.On("TrackAggregate", arrivedOrder.ID(), arrivedOrder).Times(2)
	suite.Require().NoError(suite.repository.Add(ctx, arrivedOrder))

	// A resend replaces the code; a cancel clears it. Both must overwrite
	// the stored columns, not just non-zero ones.
	snapshot.DeliveryOtp = ""
	snapshot.OtpExpiresAt = nil
	clearedOrder, err := order.RestoreOrder(snapshot)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Update(ctx, clearedOrder))

	retrievedOrder, err := suite.repository.Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Empty(retrievedOrder.DeliveryOtp())
	suite.Nil(retrievedOrder.OtpExpiresAt())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsError() {
	ctx := context.Background()

	nonExistentOrder := suite.createTestOrder(order.PaymentCOD)

	err := suite.repository.Update(ctx, nonExistentOrder)
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllAwaitingAssignment_FiltersAndOrders() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(3)

	// Two eligible orders and a prepaid one still pending payment.
	first := suite.createTestOrder(order.PaymentCOD)
	suite.Require().NoError(suite.repository.Add(ctx, first))

	second := suite.createTestOrder(order.PaymentCOD)
	suite.Require().NoError(suite.repository.Add(ctx, second))

	pending := suite.createTestOrder(order.PaymentCard)
	suite.Require().NoError(suite.repository.Add(ctx, pending))

	awaiting, err := suite.repository.GetAllAwaitingAssignment(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(awaiting, 2)
	for _, o := range awaiting {
		suite.Equal(order.DeliveryUnassigned, o.DeliveryStatus())
	}

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllActiveByRider_ReturnsOnlyActiveLeg() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(2)

	riderID := kernel.NewUUID()
	riderActor := order.Actor{ID: riderID, Role: order.RoleRider}

	activeOrder := suite.createTestOrder(order.PaymentCOD)
	suite.Require().NoError(activeOrder.Offer(riderID, now))
	suite.Require().NoError(activeOrder.AcceptOffer(riderActor, now))
	suite.Require().NoError(suite.repository.Add(ctx, activeOrder))

	unassignedOrder := suite.createTestOrder(order.PaymentCOD)
	suite.Require().NoError(suite.repository.Add(ctx, unassignedOrder))

	active, err := suite.repository.GetAllActiveByRider(ctx, riderID)
	suite.Require().NoError(err)
	suite.Require().Len(active, 1)
	suite.True(activeOrder.ID().IsEqual(active[0].ID()))

	none, err := suite.repository.GetAllActiveByRider(ctx, kernel.NewUUID())
	suite.Require().NoError(err)
	suite.Empty(none)

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_InvalidUUID_ReturnsError() {
	_, err := suite.repository.Get(context.Background(), kernel.UUID{})
	suite.Require().Error(err)
	suite.tracker.AssertExpectations(suite.T())
}

// createTestOrder creates a fresh order with two lines and default earnings.
func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder(method order.PaymentMethod) *order.Order {
	dropoff, err := kernel.NewGeoPoint(12.9716, 77.5946)
	suite.Require().NoError(err)

	rice, err := order.NewItem("basmati rice 5kg", 1, 64000)
	suite.Require().NoError(err)
	milk, err := order.NewItem("milk 1l", 2, 6500)
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(),
		kernel.NewUUID(),
		dropoff,
		[]order.Item{rice, milk},
		method,
		order.Earnings{DeliveryFee: 4000, Tip: 0, Commission: 800},
		time.Now().UTC().Truncate(time.Millisecond),
	)
	suite.Require().NoError(err)
	return testOrder
}

// arrivedSnapshot builds a persistence snapshot of the given order at the
// door, with the supplied OTP state and an assigned rider.
func (suite *OrderRepositoryIntegrationTestSuite) arrivedSnapshot(
	base *order.Order, otp string, otpExpiresAt *time.Time,
) order.Snapshot {
	riderID := kernel.NewUUID()
	now := time.Now().UTC().Truncate(time.Millisecond)
	accepted := now.Add(time.Second)

	return order.Snapshot{
		ID:             base.ID(),
		CustomerID:     base.CustomerID(),
		Dropoff:        base.Dropoff(),
		Items:          base.Items(),
		TotalAmount:    base.TotalAmount(),
		PaymentMethod:  base.PaymentMethod(),
		PaymentStatus:  order.PaymentStatusPaid,
		Status:         order.StatusArrived,
		DeliveryStatus: order.DeliveryArrived,
		RiderID:        &riderID,
		AssignmentHistory: []order.AssignmentEntry{
			order.RestoreAssignmentEntry(riderID, order.AssignmentAccepted, now, &accepted, nil, ""),
		},
		DeliveryOtp:  otp,
		OtpExpiresAt: otpExpiresAt,
		Earnings:     base.Earnings(),
		History:      base.History(),
		ArrivedAt:    &accepted,
	}
}

// assertOrderCount verifies the number of orders in the database.
func (suite *OrderRepositoryIntegrationTestSuite) assertOrderCount(expected int) {
	var count int64
	err := suite.db.Model(&orderrepo.OrderDTO{}).Count(&count).Error
	suite.Require().NoError(err)
	suite.Equal(int64(expected), count)
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
