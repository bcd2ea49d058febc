package controller

import (
	"bill-research-be/internal/dto"
	"bill-research-be/internal/pkg/serverutils"
	"bill-research-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBillController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type billController struct {
	service service.IIngestService
}

func NewBillController(service service.IIngestService) IBillController {
	return &billController{service: service}
}

func (c *billController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/bill/v1")
	h.Post("", c.Ingest)
	h.Get("", c.GetAll)
	h.Delete(":id", c.Delete)
}

func (c *billController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestBillRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.IngestBill(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest bill", res))
}

func (c *billController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAllBills(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all bills", res))
}

func (c *billController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid bill id")
	}

	if err := c.service.DeleteBill(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete bill", nil))
}
