package controller

import (
	"bolt-sync-be/internal/pkg/serverutils"
	"bolt-sync-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	GetLogs(ctx *fiber.Ctx) error
}

type adminController struct {
	adminService service.IAdminService
}

func NewAdminController(adminService service.IAdminService) IAdminController {
	return &adminController{
		adminService: adminService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/v1")
	h.Use(serverutils.AdminJwtMiddleware)
	h.Get("logs", c.GetLogs)
}

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	page := ctx.QueryInt("page", 1)
	limit := ctx.QueryInt("limit", 50)
	level := ctx.Query("level")

	res, err := c.adminService.GetSystemLogs(ctx.Context(), page, limit, level)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("System logs", res))
}
