package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bakery-stock-api/internal/application/dto"
	"github.com/jhoicas/bakery-stock-api/internal/domain"
	"github.com/jhoicas/bakery-stock-api/pkg/logger"
)

// respondError traduce errores de dominio a respuestas HTTP.
//
//	ValidationError con INSUFFICIENT_STOCK → 409
//	ValidationError / ErrInvalidInput      → 422
//	ErrNotFound                            → 404
//	ErrDuplicate / ErrConflict             → 409
//	ErrForbidden                           → 403
//	resto                                  → 500 (se registra)
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	if verr, ok := domain.AsValidation(err); ok {
		if errors.Is(err, domain.ErrInsufficientStock) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: domain.CodeInsufficientStock, Message: "stock insuficiente", Fields: verr.Fields})
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: verr.Fields})
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func badQuery(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de consulta inválidos"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}

// parseBody decodifica el JSON y valida. false si ya se respondió con error.
func parseBody(c *fiber.Ctx, log *logger.Logger, in any) (bool, error) {
	if err := c.BodyParser(in); err != nil {
		return false, badBody(c)
	}
	if err := validateRequest(in); err != nil {
		return false, respondError(c, log, err)
	}
	return true, nil
}

// parseQuery decodifica los parámetros de consulta y valida.
func parseQuery(c *fiber.Ctx, log *logger.Logger, in any) (bool, error) {
	if err := c.QueryParser(in); err != nil {
		return false, badQuery(c)
	}
	if err := validateRequest(in); err != nil {
		return false, respondError(c, log, err)
	}
	return true, nil
}
