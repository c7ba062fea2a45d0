package commands_test

import (
	"testing"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/rider"
	"lastmile/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAssignRiderCommandHandler_Handle_OffersToNearest(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewAssignRiderCommand()

	o := codOrder(t)
	r := onDutyRider(t)

	orderRepo := new(MockOrderRepository)
	riderRepo := new(MockRiderRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetAllAwaitingAssignment", ctx).Return([]*order.Order{o}, nil).Once(),
		uow.On("RiderRepository").Return(riderRepo).Once(),
		riderRepo.On("GetAllAvailable", ctx).Return([]*rider.Rider{r}, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
	)
	uow.On("Rollback", ctx).Return(nil).Once()
	notifier.On("NotifyOffer", ctx, o.ID(), r.ID()).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignRiderCommandHandler(factory, services.NewOfferDispatcher(), notifier)
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	offer, open := o.OpenOffer()
	require.True(t, open)
	assert.True(t, offer.RiderID().IsEqual(r.ID()))
	notifier.AssertExpectations(t)
}

func TestAssignRiderCommandHandler_Handle_NoCandidatesLeavesOrder(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewAssignRiderCommand()

	o := codOrder(t)

	orderRepo := new(MockOrderRepository)
	riderRepo := new(MockRiderRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetAllAwaitingAssignment", ctx).Return([]*order.Order{o}, nil).Once(),
		uow.On("RiderRepository").Return(riderRepo).Once(),
		riderRepo.On("GetAllAvailable", ctx).Return([]*rider.Rider{}, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignRiderCommandHandler(factory, services.NewOfferDispatcher(), notifier)
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	_, open := o.OpenOffer()
	assert.False(t, open, "order waits for the next pass")
	notifier.AssertNotCalled(t, "NotifyOffer", mock.Anything, mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestAssignRiderCommandHandler_Handle_NothingAwaiting(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewAssignRiderCommand()

	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetAllAwaitingAssignment", ctx).Return([]*order.Order{}, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignRiderCommandHandler(factory, services.NewOfferDispatcher(), new(MockNotifier))
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
}

func TestAssignRiderCommandHandler_Handle_OneRiderTwoOrders(t *testing.T) {
	ctx := t.Context()
	cmd := commands.NewAssignRiderCommand()

	first := codOrder(t)
	second := codOrder(t)
	r := onDutyRider(t)

	orderRepo := new(MockOrderRepository)
	riderRepo := new(MockRiderRepository)
	uow := new(MockUoW)
	notifier := new(MockNotifier)

	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("GetAllAwaitingAssignment", ctx).Return([]*order.Order{first, second}, nil).Once(),
		uow.On("RiderRepository").Return(riderRepo).Once(),
		riderRepo.On("GetAllAvailable", ctx).Return([]*rider.Rider{r}, nil).Once(),
		orderRepo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
	)
	uow.On("Rollback", ctx).Return(nil).Once()
	notifier.On("NotifyOffer", ctx, first.ID(), r.ID()).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	handler := commands.NewAssignRiderCommandHandler(factory, services.NewOfferDispatcher(), notifier)
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	_, firstOpen := first.OpenOffer()
	_, secondOpen := second.OpenOffer()
	assert.True(t, firstOpen)
	assert.False(t, secondOpen, "a rider gets at most one offer per pass")
}
