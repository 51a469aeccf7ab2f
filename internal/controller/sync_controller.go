package controller

import (
	"bolt-sync-be/internal/dto"
	"bolt-sync-be/internal/pkg/serverutils"
	"bolt-sync-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISyncController interface {
	RegisterRoutes(r fiber.Router)
	SyncFiles(ctx *fiber.Ctx) error
}

type syncController struct {
	syncService service.ISyncService
}

func NewSyncController(syncService service.ISyncService) ISyncController {
	return &syncController{
		syncService: syncService,
	}
}

func (c *syncController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/sync")
	h.Post("files", c.SyncFiles)
}

func (c *syncController) SyncFiles(ctx *fiber.Ctx) error {
	var req dto.SyncFilesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.syncService.SyncFiles(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Files synced", res))
}
