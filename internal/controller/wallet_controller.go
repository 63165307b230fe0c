package controller

import (
	"swiftmart-be/internal/pkg/serverutils"
	"swiftmart-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IWalletController interface {
	RegisterRoutes(r fiber.Router)
	Balance(ctx *fiber.Ctx) error
	Transactions(ctx *fiber.Ctx) error
}

type walletController struct {
	walletService service.IWalletService
}

func NewWalletController(walletService service.IWalletService) IWalletController {
	return &walletController{
		walletService: walletService,
	}
}

func (c *walletController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/wallet")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.Balance)
	h.Get("/transactions", c.Transactions)
}

func (c *walletController) Balance(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.walletService.GetBalance(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show balance", res))
}

func (c *walletController) Transactions(ctx *fiber.Ctx) error {
	userId, err := serverutils.CurrentUserId(ctx)
	if err != nil {
		return err
	}

	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.walletService.GetTransactions(ctx.Context(), userId, limit, offset)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list transactions", res))
}
