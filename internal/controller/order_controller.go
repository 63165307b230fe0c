package controller

import (
	"swiftmart-be/internal/dto"
	"swiftmart-be/internal/pkg/serverutils"
	"swiftmart-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IOrderController interface {
	RegisterRoutes(r fiber.Router)
	Cancel(ctx *fiber.Ctx) error
	Refund(ctx *fiber.Ctx) error
	ListRefunds(ctx *fiber.Ctx) error
}

type orderController struct {
	cancellationService service.ICancellationService
	refundService       service.IRefundService
}

func NewOrderController(cancellationService service.ICancellationService, refundService service.IRefundService) IOrderController {
	return &orderController{
		cancellationService: cancellationService,
		refundService:       refundService,
	}
}

func (c *orderController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/orders")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/cancel", c.Cancel)
	h.Post("/refund", c.Refund)
	h.Get("/:id/refunds", c.ListRefunds)
}

func (c *orderController) Cancel(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CancelOrderRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequest("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.cancellationService.CancelOrder(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Order cancelled", res))
}

func (c *orderController) Refund(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.ProcessRefundRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewBadRequest("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.refundService.ProcessRefund(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Refund processed", res))
}

func (c *orderController) ListRefunds(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	orderId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequest("invalid order id")
	}

	res, err := c.refundService.ListRefunds(ctx.Context(), userId, orderId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list refunds", res))
}
