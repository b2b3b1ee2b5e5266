package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	autherror "github.com/opspulse/leadfunnel/internal/errors"
	"github.com/opspulse/leadfunnel/internal/lead/domain"
	"github.com/opspulse/leadfunnel/internal/lead/dto"
	"github.com/opspulse/leadfunnel/internal/lead/service"
	"github.com/opspulse/leadfunnel/internal/metrics"
)

type LeadHandler struct {
	leadService *service.LeadService
	validate    *validator.Validate
}

func NewLeadHandler(leadService *service.LeadService) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
		validate:    validator.New(),
	}
}

// Submit is the public funnel endpoint.
func (h *LeadHandler) Submit(c *fiber.Ctx) error {
	var input dto.SubmitLeadInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	input.SourceIP = c.IP()

	lead, err := h.leadService.Submit(c.Context(), input)
	if err != nil {
		log.WithError(err).Error("lead submission failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "an error occurred"})
	}

	metrics.LeadSubmissionsTotal.WithLabelValues(string(lead.RiskLevel)).Inc()

	return c.Status(fiber.StatusCreated).JSON(dto.FromLead(lead))
}

func (h *LeadHandler) List(c *fiber.Ctx) error {
	filter := domain.ListFilter{
		Status:    domain.LeadStatus(c.Query("status")),
		RiskLevel: domain.RiskLevel(c.Query("risk_level")),
		Page:      c.QueryInt("page", 1),
		PerPage:   c.QueryInt("per_page", 20),
	}

	if filter.Status != "" && !filter.Status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid status filter"})
	}
	if filter.RiskLevel != "" && !filter.RiskLevel.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid risk level filter"})
	}

	leads, total, err := h.leadService.List(c.Context(), filter)
	if err != nil {
		log.WithError(err).Error("lead listing failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "an error occurred"})
	}

	out := dto.LeadListOutput{
		Leads:   make([]dto.LeadOutput, 0, len(leads)),
		Total:   total,
		Page:    filter.Page,
		PerPage: filter.PerPage,
	}
	for _, lead := range leads {
		out.Leads = append(out.Leads, dto.FromLead(lead))
	}

	return c.Status(fiber.StatusOK).JSON(out)
}

func (h *LeadHandler) Get(c *fiber.Ctx) error {
	lead, err := h.leadService.Get(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, autherror.ErrLeadNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "lead not found"})
		}
		log.WithError(err).Error("lead lookup failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "an error occurred"})
	}

	return c.Status(fiber.StatusOK).JSON(dto.FromLead(lead))
}

func (h *LeadHandler) UpdateStatus(c *fiber.Ctx) error {
	var input dto.UpdateStatusInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}
	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid input"})
	}

	err := h.leadService.UpdateStatus(c.Context(), c.Params("id"), domain.LeadStatus(input.Status))
	if err != nil {
		if errors.Is(err, autherror.ErrLeadNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "lead not found"})
		}
		log.WithError(err).Error("lead status update failed")

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "an error occurred"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}
