package controller

import (
	"litsearch-be/internal/dto"
	"litsearch-be/internal/pkg/serverutils"
	"litsearch-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPipelineController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Retry(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	Results(ctx *fiber.Ctx) error
	Duplicates(ctx *fiber.Ctx) error
	DomainGroups(ctx *fiber.Ctx) error
}

type pipelineController struct {
	pipelineService service.IPipelineService
}

func NewPipelineController(pipelineService service.IPipelineService) IPipelineController {
	return &pipelineController{
		pipelineService: pipelineService,
	}
}

func (c *pipelineController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/pipeline/v1/sessions/:sessionId")
	h.Post("/process", c.Start)
	h.Post("/process/retry", c.Retry)
	h.Post("/process/cancel", c.Cancel)
	h.Get("/process/status", c.Status)
	h.Get("/results", c.Results)
	h.Get("/duplicates", c.Duplicates)
	h.Get("/results/domains", c.DomainGroups)
}

func sessionIdParam(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("sessionId"))
	if err != nil {
		return uuid.Nil, serverutils.NewBadRequest("invalid search session id")
	}
	return id, nil
}

func (c *pipelineController) Start(ctx *fiber.Ctx) error {
	searchSessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.pipelineService.Start(ctx.Context(), searchSessionId)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).
		JSON(serverutils.SuccessResponse("Processing started", res))
}

func (c *pipelineController) Retry(ctx *fiber.Ctx) error {
	searchSessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.pipelineService.Retry(ctx.Context(), searchSessionId)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).
		JSON(serverutils.SuccessResponse("Processing retry started", res))
}

func (c *pipelineController) Cancel(ctx *fiber.Ctx) error {
	searchSessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	if err := c.pipelineService.Cancel(ctx.Context(), searchSessionId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Processing cancellation requested", nil))
}

func (c *pipelineController) Status(ctx *fiber.Ctx) error {
	searchSessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.pipelineService.Status(ctx.Context(), searchSessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get processing status", res))
}

func (c *pipelineController) Results(ctx *fiber.Ctx) error {
	searchSessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	var query dto.ResultsQuery
	if err := ctx.QueryParser(&query); err != nil {
		return serverutils.NewBadRequest("invalid query parameters")
	}
	if err := serverutils.ValidateRequest(query); err != nil {
		return err
	}

	res, err := c.pipelineService.Results(ctx.Context(), searchSessionId, query)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get processed results", res))
}

func (c *pipelineController) Duplicates(ctx *fiber.Ctx) error {
	searchSessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.pipelineService.Duplicates(ctx.Context(), searchSessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get duplicate relationships", res))
}

func (c *pipelineController) DomainGroups(ctx *fiber.Ctx) error {
	searchSessionId, err := sessionIdParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.pipelineService.DomainGroups(ctx.Context(), searchSessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get domain groups", res))
}
