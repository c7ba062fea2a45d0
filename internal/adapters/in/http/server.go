// Package http exposes the marketplace over a REST API. Handlers translate
// between JSON bodies and application commands/queries; every business rule
// stays behind the command handlers.
package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
}

// Handlers bundles the command and query handlers the server dispatches to.
type Handlers struct {
	CreateOrder          commands.CreateOrderCommandHandler
	MarkOrderPaid        commands.MarkOrderPaidCommandHandler
	ConfirmOrder         commands.ConfirmOrderCommandHandler
	PackOrder            commands.PackOrderCommandHandler
	CancelOrder          commands.CancelOrderCommandHandler
	RespondOffer         commands.RespondOfferCommandHandler
	UpdateDeliveryStatus commands.UpdateDeliveryStatusCommandHandler
	StartDeliveryAttempt commands.StartDeliveryAttemptCommandHandler
	VerifyOtp            commands.VerifyOtpCommandHandler
	CollectCod           commands.CollectCodCommandHandler
	ReportFailedAttempt  commands.ReportFailedAttemptCommandHandler
	CreateRider          commands.CreateRiderCommandHandler
	SetRiderDuty         commands.SetRiderDutyCommandHandler
	PutRiderLocation     commands.PutRiderLocationCommandHandler

	GetAllRiders   queries.GetAllRidersQueryHandler
	GetActiveRoute queries.GetActiveRouteQueryHandler
	GetOrderTrack  queries.GetOrderTrackQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers) *Server {
	return &Server{handlers: handlers}
}

// RegisterRoutes wires every endpoint onto the echo instance. All routes sit
// behind the bearer-token middleware.
func (s *Server) RegisterRoutes(e *echo.Echo, jwtSecret []byte) {
	api := e.Group("/api/v1", AuthMiddleware(jwtSecret))

	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:id/confirm", s.ConfirmOrder)
	api.POST("/orders/:id/pack", s.PackOrder)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/respond", s.RespondOffer)
	api.POST("/orders/:id/status", s.UpdateDeliveryStatus)
	api.POST("/orders/:id/attempt", s.StartDeliveryAttempt)
	api.POST("/orders/:id/verify-otp", s.VerifyOtp)
	api.POST("/orders/:id/cod", s.CollectCod)
	api.POST("/orders/:id/failed-attempt", s.ReportFailedAttempt)
	api.GET("/orders/:id/track", s.TrackOrder)

	api.POST("/payments/:id/confirm", s.ConfirmPayment)

	api.POST("/riders", s.CreateRider)
	api.GET("/riders", s.GetRiders)
	api.PUT("/riders/duty", s.SetDuty)
	api.POST("/riders/location", s.PutLocation)
	api.GET("/riders/route", s.GetActiveRoute)
}

// CreateOrder handles POST /api/v1/orders - places a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	customerID, _ := actorFromContext(ctx)
	orderID := kernel.NewUUID()

	items := make([]commands.OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		items = append(items, commands.OrderItem{
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	cmd, err := commands.NewCreateOrderCommand(
		orderID, customerID,
		req.DropoffLat, req.DropoffLng,
		items, req.PaymentMethod, req.DeliveryFee,
	)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{OrderID: orderID.String()})
}

// ConfirmPayment handles POST /api/v1/payments/:id/confirm - the payment
// provider webhook confirming a prepaid order.
func (s *Server) ConfirmPayment(ctx echo.Context) error {
	_, role := actorFromContext(ctx)
	if role != string(order.RoleSystem) && role != string(order.RoleAdmin) {
		return ctx.JSON(http.StatusForbidden, Error{
			Code:    http.StatusForbidden,
			Message: "payment confirmation is reserved for the payment gateway",
		})
	}

	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	cmd, err := commands.NewMarkOrderPaidCommand(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.MarkOrderPaid.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ConfirmOrder handles POST /api/v1/orders/:id/confirm - dispatcher acceptance.
func (s *Server) ConfirmOrder(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	actorID, role := actorFromContext(ctx)
	cmd, err := commands.NewConfirmOrderCommand(orderID, actorID, role)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.ConfirmOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// PackOrder handles POST /api/v1/orders/:id/pack - marks the order packed.
func (s *Server) PackOrder(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	actorID, role := actorFromContext(ctx)
	cmd, err := commands.NewPackOrderCommand(orderID, actorID, role)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.PackOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var req CancelOrderRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	actorID, role := actorFromContext(ctx)
	cmd, err := commands.NewCancelOrderCommand(orderID, actorID, role, req.Reason)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RespondOffer handles POST /api/v1/orders/:id/respond - the rider's answer
// to a delivery offer.
func (s *Server) RespondOffer(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var req RespondOfferRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	riderID, _ := actorFromContext(ctx)
	cmd, err := commands.NewRespondOfferCommand(orderID, riderID, req.Accepted, req.Reason)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.RespondOffer.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateDeliveryStatus handles POST /api/v1/orders/:id/status - the rider's
// pickup, transit and arrival milestones.
func (s *Server) UpdateDeliveryStatus(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var req UpdateDeliveryStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	riderID, _ := actorFromContext(ctx)
	cmd, err := commands.NewUpdateDeliveryStatusCommand(orderID, riderID, req.Milestone)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.UpdateDeliveryStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// StartDeliveryAttempt handles POST /api/v1/orders/:id/attempt - issues (or
// re-issues) the delivery OTP to the customer. The code never appears in the
// response.
func (s *Server) StartDeliveryAttempt(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	riderID, _ := actorFromContext(ctx)
	cmd, err := commands.NewStartDeliveryAttemptCommand(orderID, riderID)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.StartDeliveryAttempt.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// VerifyOtp handles POST /api/v1/orders/:id/verify-otp - completes the delivery.
func (s *Server) VerifyOtp(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var req VerifyOtpRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	riderID, _ := actorFromContext(ctx)
	cmd, err := commands.NewVerifyOtpCommand(orderID, riderID, req.Code)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.VerifyOtp.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CollectCod handles POST /api/v1/orders/:id/cod - records the cash or UPI
// money taken at the door. Safe to retry with the same idempotency key.
func (s *Server) CollectCod(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var req CollectCodRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	riderID, _ := actorFromContext(ctx)
	cmd, err := commands.NewCollectCodCommand(orderID, riderID, req.Mode, req.IdempotencyKey)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.CollectCod.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReportFailedAttempt handles POST /api/v1/orders/:id/failed-attempt.
func (s *Server) ReportFailedAttempt(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	var req FailedAttemptRequest
	if err = ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	riderID, _ := actorFromContext(ctx)
	cmd, err := commands.NewReportFailedAttemptCommand(orderID, riderID, req.ReasonCode, req.Notes)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.ReportFailedAttempt.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// TrackOrder handles GET /api/v1/orders/:id/track - the customer's live view.
func (s *Server) TrackOrder(ctx echo.Context) error {
	orderID, err := orderIDParam(ctx)
	if err != nil {
		return badRequest(ctx, "invalid order id")
	}

	query, err := queries.NewGetOrderTrackQuery(orderID)
	if err != nil {
		return writeError(ctx, err)
	}

	track, err := s.handlers.GetOrderTrack.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := TrackOrderResponse{
		OrderID:        track.OrderID.String(),
		Status:         track.Status,
		DeliveryStatus: track.DeliveryStatus,
	}
	if track.Rider != nil {
		response.Rider = &RiderTrackResponse{
			Lat:       track.Rider.Point.Lat(),
			Lng:       track.Rider.Point.Lng(),
			Heading:   track.Rider.Heading,
			SpeedKmh:  track.Rider.SpeedKmh,
			UpdatedAt: track.Rider.UpdatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateRider handles POST /api/v1/riders - onboards a new rider.
func (s *Server) CreateRider(ctx echo.Context) error {
	var req CreateRiderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	riderID := kernel.NewUUID()
	cmd, err := commands.NewCreateRiderCommand(riderID, req.Name, req.Phone, req.Vehicle)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.CreateRider.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateRiderResponse{RiderID: riderID.String()})
}

// GetRiders handles GET /api/v1/riders - the dispatch monitoring list.
func (s *Server) GetRiders(ctx echo.Context) error {
	riders, err := s.handlers.GetAllRiders.Handle(ctx.Request().Context(), queries.NewGetAllRidersQuery())
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]RiderResponse, len(riders))
	for i, r := range riders {
		response[i] = RiderResponse{
			ID:      r.ID.String(),
			Name:    r.Name,
			Vehicle: r.Vehicle,
			Duty:    r.Duty,
		}
		if r.Location != nil {
			lat, lng := r.Location.Lat(), r.Location.Lng()
			response[i].Lat = &lat
			response[i].Lng = &lng
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// SetDuty handles PUT /api/v1/riders/duty - the rider toggles availability.
func (s *Server) SetDuty(ctx echo.Context) error {
	var req SetDutyRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	riderID, _ := actorFromContext(ctx)
	cmd, err := commands.NewSetRiderDutyCommand(riderID, req.Duty)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.SetRiderDuty.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// PutLocation handles POST /api/v1/riders/location - one accepted GPS sample
// from the rider's device.
func (s *Server) PutLocation(ctx echo.Context) error {
	var req PutLocationRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}

	riderID, _ := actorFromContext(ctx)
	cmd, err := commands.NewPutRiderLocationCommand(
		riderID, req.Lat, req.Lng, req.Heading, req.SpeedKmh, req.RecordedAt)
	if err != nil {
		return writeError(ctx, err)
	}

	if err = s.handlers.PutRiderLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetActiveRoute handles GET /api/v1/riders/route - the rider's current stops,
// the read model behind the offline route gate.
func (s *Server) GetActiveRoute(ctx echo.Context) error {
	riderID, _ := actorFromContext(ctx)

	query, err := queries.NewGetActiveRouteQuery(riderID)
	if err != nil {
		return writeError(ctx, err)
	}

	route, err := s.handlers.GetActiveRoute.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]RouteStopResponse, len(route))
	for i, stop := range route {
		response[i] = RouteStopResponse{
			OrderID:        stop.OrderID.String(),
			DropoffLat:     stop.Dropoff.Lat(),
			DropoffLng:     stop.Dropoff.Lng(),
			Status:         stop.Status,
			DeliveryStatus: stop.DeliveryStatus,
			PaymentMethod:  stop.PaymentMethod,
			TotalAmount:    stop.TotalAmount,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func orderIDParam(ctx echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param("id"))
}
