package riderrepo_test

import (
	"context"
	"testing"
	"time"

	"lastmile/internal/adapters/out/postgres/riderrepo"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/rider"
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

// RiderRepositoryIntegrationTestSuite provides integration tests for RiderRepository
// using PostgreSQL containers to verify database persistence behavior.
type RiderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *riderrepo.GormRiderRepository
	tracker    *MockAggregateTracker
}

func (suite *RiderRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&riderrepo.RiderDTO{}))
}

func (suite *RiderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE riders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.repository = riderrepo.NewGormRiderRepository(suite.db, suite.tracker)
}

func (suite *RiderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *RiderRepositoryIntegrationTestSuite) TestAdd_FreshRider_RoundTrip() {
	ctx := context.Background()

	testRider := suite.createTestRider("Ravi")
	suite.tracker.On("TrackAggregate", testRider.ID(), testRider).Once()

	suite.Require().NoError(suite.repository.Add(ctx, testRider))

	retrieved, err := suite.repository.Get(ctx, testRider.ID())
	suite.Require().NoError(err)
	suite.True(testRider.ID().IsEqual(retrieved.ID()))
	suite.Equal("Ravi", retrieved.Name())
	suite.Equal(rider.VehicleScooter, retrieved.Vehicle())
	suite.Equal(rider.DutyOff, retrieved.Duty())
	suite.Nil(retrieved.Location())
	suite.Nil(retrieved.ActiveOrderID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *RiderRepositoryIntegrationTestSuite) TestGet_NonExistentRider_ReturnsNotFoundError() {
	retrieved, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *RiderRepositoryIntegrationTestSuite) TestUpdate_DutyPositionAndActiveOrder() {
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	testRider := suite.createTestRider("Meera")
	suite.tracker.On("TrackAggregate", testRider.ID(), testRider).Times(3)
	suite.Require().NoError(suite.repository.Add(ctx, testRider))

	point, err := kernel.NewGeoPoint(12.9720, 77.5950)
	suite.Require().NoError(err)
	orderID := kernel.NewUUID()

	testRider.GoOnDuty()
	suite.Require().NoError(testRider.UpdateLocation(point, now))
	suite.Require().NoError(testRider.TakeOrder(orderID))
	suite.Require().NoError(suite.repository.Update(ctx, testRider))

	retrieved, err := suite.repository.Get(ctx, testRider.ID())
	suite.Require().NoError(err)
	suite.Equal(rider.DutyOn, retrieved.Duty())
	suite.Require().NotNil(retrieved.Location())
	suite.Require().NotNil(retrieved.ActiveOrderID())
	suite.True(orderID.IsEqual(*retrieved.ActiveOrderID()))

	// Freeing the rider must null the column, not skip it.
	suite.Require().NoError(testRider.CompleteOrder(orderID))
	suite.Require().NoError(suite.repository.Update(ctx, testRider))

	retrieved, err = suite.repository.Get(ctx, testRider.ID())
	suite.Require().NoError(err)
	suite.Nil(retrieved.ActiveOrderID())

	suite.tracker.AssertExpectations(suite.T())
}

func (suite *RiderRepositoryIntegrationTestSuite) TestUpdate_NonExistentRider_ReturnsError() {
	err := suite.repository.Update(context.Background(), suite.createTestRider("Ghost"))
	suite.Require().Error(err)
	suite.Require().ErrorIs(err, gorm.ErrRecordNotFound)
}

func (suite *RiderRepositoryIntegrationTestSuite) TestGetAllAvailable_FiltersDutyAndActiveOrder() {
	ctx := context.Background()
	suite.tracker.On("TrackAggregate", mock.AnythingOfType("kernel.UUID"), mock.Anything).Times(3)

	available := suite.createTestRider("Available")
	available.GoOnDuty()
	suite.Require().NoError(suite.repository.Add(ctx, available))

	offDuty := suite.createTestRider("OffDuty")
	suite.Require().NoError(suite.repository.Add(ctx, offDuty))

	busy := suite.createTestRider("Busy")
	busy.GoOnDuty()
	suite.Require().NoError(busy.TakeOrder(kernel.NewUUID()))
	suite.Require().NoError(suite.repository.Add(ctx, busy))

	riders, err := suite.repository.GetAllAvailable(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(riders, 1)
	suite.True(available.ID().IsEqual(riders[0].ID()))

	suite.tracker.AssertExpectations(suite.T())
}

// createTestRider creates a fresh off-duty rider with the given name.
func (suite *RiderRepositoryIntegrationTestSuite) createTestRider(name string) *rider.Rider {
	testRider, err := rider.NewRider(kernel.NewUUID(), name, "+919876543210", rider.VehicleScooter)
	suite.Require().NoError(err)
	return testRider
}

func TestRiderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(RiderRepositoryIntegrationTestSuite))
}
