package controller

import (
	"bolt-sync-be/internal/dto"
	"bolt-sync-be/internal/pkg/serverutils"
	"bolt-sync-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDeployController interface {
	RegisterRoutes(r fiber.Router)
	Deploy(ctx *fiber.Ctx) error
	ListVersions(ctx *fiber.Ctx) error
}

type deployController struct {
	deployService service.IDeployService
}

func NewDeployController(deployService service.IDeployService) IDeployController {
	return &deployController{
		deployService: deployService,
	}
}

func (c *deployController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/deploy/v1")
	h.Post("", c.Deploy)
	h.Get("versions/:projectId", c.ListVersions)
}

func (c *deployController) Deploy(ctx *fiber.Ctx) error {
	var req dto.DeployRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.deployService.Deploy(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Project deployed", res))
}

func (c *deployController) ListVersions(ctx *fiber.Ctx) error {
	projectId, err := uuid.Parse(ctx.Params("projectId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid project id")
	}

	res, err := c.deployService.ListVersions(ctx.Context(), projectId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Project versions", res))
}
