package controller

import (
	"context"
	"os"

	"swiftmart-be/internal/dto"
	"swiftmart-be/internal/pkg/serverutils"
	"swiftmart-be/internal/repository/unitofwork"
	adminRefund "swiftmart-be/pkg/admin/refund"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetRefunds(ctx *fiber.Ctx) error
	CompleteRefund(ctx *fiber.Ctx) error
	RejectRefund(ctx *fiber.Ctx) error
}

type adminController struct {
	processor  *adminRefund.Processor
	uowFactory unitofwork.RepositoryFactory
}

func NewAdminController(processor *adminRefund.Processor, uowFactory unitofwork.RepositoryFactory) IAdminController {
	return &adminController{
		processor:  processor,
		uowFactory: uowFactory,
	}
}

// adminMiddleware enforces the admin role claim on every admin route.
func (c *adminController) adminMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Missing or invalid authorization header"))
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || token == nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid or expired token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid token claims"))
	}

	role, ok := claims["role"].(string)
	if !ok || role != "admin" {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Access denied: Admins only"))
	}

	if userId, exists := claims["user_id"]; exists {
		ctx.Locals("user_id", userId)
	}
	return ctx.Next()
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(c.adminMiddleware)
	h.Get("/refunds", c.GetRefunds)
	h.Post("/refunds/:id/complete", c.CompleteRefund)
	h.Post("/refunds/:id/reject", c.RejectRefund)
}

func (c *adminController) GetRefunds(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 10)
	status := ctx.Query("status")

	uow := c.uowFactory.NewUnitOfWork(ctx.Context())
	refunds, err := c.processor.GetAll(ctx.Context(), uow, page, limit, status)
	if err != nil {
		return err
	}

	res := make([]*dto.RefundListItemResponse, 0, len(refunds))
	for _, r := range refunds {
		res = append(res, &dto.RefundListItemResponse{
			Id:            r.Id,
			OrderId:       r.OrderId,
			Amount:        r.Amount,
			Status:        string(r.Status),
			RefundMethod:  string(r.RefundMethod),
			Reason:        r.Reason,
			Notes:         r.Notes,
			FailureReason: r.FailureReason,
			CompletedAt:   r.CompletedAt,
			CreatedAt:     r.CreatedAt,
		})
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list refunds", res))
}

func (c *adminController) CompleteRefund(ctx *fiber.Ctx) error {
	return c.settle(ctx, c.processor.Complete)
}

func (c *adminController) RejectRefund(ctx *fiber.Ctx) error {
	return c.settle(ctx, c.processor.Reject)
}

func (c *adminController) settle(
	ctx *fiber.Ctx,
	op func(c context.Context, uow unitofwork.UnitOfWork, refundId uuid.UUID, req dto.AdminSettleRefundRequest) (*adminRefund.SettleResult, error),
) error {
	refundId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.NewBadRequest("invalid refund id")
	}

	var req dto.AdminSettleRefundRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return serverutils.NewBadRequest("invalid request body")
		}
	}

	uow := c.uowFactory.NewUnitOfWork(ctx.Context())
	result, err := op(ctx.Context(), uow, refundId, req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Refund settled", &dto.AdminSettleRefundResponse{
		RefundId:    result.RefundId,
		Status:      string(result.Status),
		Amount:      result.Amount,
		ProcessedAt: result.ProcessedAt,
	}))
}
