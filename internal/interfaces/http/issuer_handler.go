package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tuo-utente/fattura-pro/internal/application/billing"
	"github.com/tuo-utente/fattura-pro/internal/application/dto"
	"github.com/tuo-utente/fattura-pro/internal/domain"
)

// IssuerHandler gestisce il profilo cedente/prestatore (solo admin).
type IssuerHandler struct {
	uc *billing.IssuerUseCase
}

// NewIssuerHandler costruisce l'handler.
func NewIssuerHandler(uc *billing.IssuerUseCase) *IssuerHandler {
	return &IssuerHandler{uc: uc}
}

// Get restituisce il profilo configurato.
// GET /api/issuer
func (h *IssuerHandler) Get(c *fiber.Ctx) error {
	profile, err := h.uc.Get()
	if err != nil {
		if err == domain.ErrMissingIssuer {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "CEDENTE_MANCANTE", Message: "profilo cedente/prestatore non configurato"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(profile)
}

// Save crea o sostituisce il profilo.
// PUT /api/issuer
func (h *IssuerHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveIssuerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "body non valido"})
	}
	profile, err := h.uc.Save(in)
	if err != nil {
		if err == domain.ErrInvalidInput {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "denominazione e partita IVA sono obbligatori"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(profile)
}
