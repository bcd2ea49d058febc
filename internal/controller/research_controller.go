package controller

import (
	"bill-research-be/internal/dto"
	"bill-research-be/internal/pkg/serverutils"
	"bill-research-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IResearchController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetAllSessions(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
	SendResearch(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
}

type researchController struct {
	service service.IResearchService
}

func NewResearchController(service service.IResearchService) IResearchController {
	return &researchController{service: service}
}

func (c *researchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/research/v1")
	h.Post("/session", c.CreateSession)
	h.Get("/session", c.GetAllSessions)
	h.Get("/session/:id/history", c.GetChatHistory)
	h.Delete("/session", c.DeleteSession)
	h.Post("/send", c.SendResearch)
}

func (c *researchController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.service.CreateSession(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create research session", res))
}

func (c *researchController) GetAllSessions(ctx *fiber.Ctx) error {
	res, err := c.service.GetAllSessions(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all research sessions", res))
}

func (c *researchController) GetChatHistory(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.service.GetChatHistory(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *researchController) SendResearch(ctx *fiber.Ctx) error {
	var req dto.SendResearchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendResearch(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success run research", res))
}

func (c *researchController) DeleteSession(ctx *fiber.Ctx) error {
	var req dto.DeleteSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.DeleteSession(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete research session", nil))
}
