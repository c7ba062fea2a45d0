package commands_test

import (
	"context"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/domain/model/cod"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/rider"
	"lastmile/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllAwaitingAssignment(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllActiveByRider(ctx context.Context, riderID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, riderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockRiderRepository struct{ mock.Mock }

func (m *MockRiderRepository) Add(ctx context.Context, r *rider.Rider) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRiderRepository) Update(ctx context.Context, r *rider.Rider) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRiderRepository) Get(ctx context.Context, id kernel.UUID) (*rider.Rider, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*rider.Rider), args.Error(1)
}

func (m *MockRiderRepository) GetAllAvailable(ctx context.Context) ([]*rider.Rider, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*rider.Rider), args.Error(1)
}

type MockCodRepository struct{ mock.Mock }

func (m *MockCodRepository) Add(ctx context.Context, c *cod.Collection) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCodRepository) GetByIdempotencyKey(ctx context.Context, orderID kernel.UUID, key string) (*cod.Collection, error) {
	args := m.Called(ctx, orderID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cod.Collection), args.Error(1)
}

func (m *MockCodRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*cod.Collection, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cod.Collection), args.Error(1)
}

// MockUoW satisfies every unit of work shape the handlers use.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) RiderRepository() ports.RiderRepository {
	args := m.Called()
	return args.Get(0).(ports.RiderRepository)
}

func (m *MockUoW) CodRepository() ports.CodRepository {
	args := m.Called()
	return args.Get(0).(ports.CodRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockRiderUoWFactory struct{ mock.Mock }

func (m *MockRiderUoWFactory) Create() commands.RiderUoW {
	args := m.Called()
	return args.Get(0).(commands.RiderUoW)
}

type MockCodUoWFactory struct{ mock.Mock }

func (m *MockCodUoWFactory) Create() commands.CodUoW {
	args := m.Called()
	return args.Get(0).(commands.CodUoW)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishStatusChanged(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) NotifyOtp(ctx context.Context, orderID, customerID kernel.UUID, code string) error {
	args := m.Called(ctx, orderID, customerID, code)
	return args.Error(0)
}

func (m *MockNotifier) NotifyOffer(ctx context.Context, orderID, riderID kernel.UUID) error {
	args := m.Called(ctx, orderID, riderID)
	return args.Error(0)
}

type MockLocationCache struct{ mock.Mock }

func (m *MockLocationCache) Set(ctx context.Context, riderID kernel.UUID, pos ports.RiderPosition) error {
	args := m.Called(ctx, riderID, pos)
	return args.Error(0)
}

func (m *MockLocationCache) Get(ctx context.Context, riderID kernel.UUID) (ports.RiderPosition, bool, error) {
	args := m.Called(ctx, riderID)
	return args.Get(0).(ports.RiderPosition), args.Bool(1), args.Error(2)
}
