package http

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/pkg/logger"
)

// Códigos de error de la API.
const (
	CodeValidation   = "VALIDATION"
	CodeInvalidBody  = "INVALID_BODY"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeMissingToken = "MISSING_TOKEN"
	CodeInvalidToken = "INVALID_TOKEN"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL"
)

const internalErrorMessage = "Erro interno do servidor"

// errInvalidBody body que no es JSON válido para el destino.
var errInvalidBody = errors.New("Corpo da requisição inválido")

func errorJSON(c *fiber.Ctx, status int, code, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Error: msg, Code: code})
}

// handleError traduce errores de dominio a status + ErrorResponse.
// Lo que no es de dominio se devuelve tal cual y lo resuelve ErrorHandler (500 redactado).
func handleError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.Is(err, errInvalidBody):
		return errorJSON(c, fiber.StatusBadRequest, CodeInvalidBody, errInvalidBody.Error())
	case errors.As(err, &verr):
		return errorJSON(c, fiber.StatusBadRequest, CodeValidation, verr.Message)
	case errors.Is(err, domain.ErrInvalidInput):
		return errorJSON(c, fiber.StatusBadRequest, CodeValidation, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return errorJSON(c, fiber.StatusUnauthorized, CodeUnauthorized, domain.ErrUnauthorized.Error())
	case errors.Is(err, domain.ErrForbidden):
		return errorJSON(c, fiber.StatusForbidden, CodeForbidden, domain.ErrForbidden.Error())
	case errors.Is(err, domain.ErrProductNotFound):
		return errorJSON(c, fiber.StatusNotFound, CodeNotFound, domain.ErrProductNotFound.Error())
	case errors.Is(err, domain.ErrUserNotFound):
		return errorJSON(c, fiber.StatusNotFound, CodeNotFound, domain.ErrUserNotFound.Error())
	case errors.Is(err, domain.ErrNotFound):
		return errorJSON(c, fiber.StatusNotFound, CodeNotFound, domain.ErrNotFound.Error())
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return errorJSON(c, fiber.StatusConflict, CodeConflict, domain.ErrEmailAlreadyExists.Error())
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return errorJSON(c, fiber.StatusConflict, CodeConflict, err.Error())
	}
	return err
}

// ErrorHandler respuesta final para errores no mapeados y panics recuperados.
// Los *fiber.Error (404 de ruta, 405, ...) conservan su status; el resto es 500 y se loguea.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code != fiber.StatusInternalServerError {
			code := CodeValidation
			switch fe.Code {
			case fiber.StatusNotFound:
				code = CodeNotFound
			case fiber.StatusUnauthorized:
				code = CodeUnauthorized
			case fiber.StatusForbidden:
				code = CodeForbidden
			}
			return errorJSON(c, fe.Code, code, fe.Message)
		}
		log.Error().
			Err(err).
			Str("request_id", GetRequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error interno")
		return errorJSON(c, fiber.StatusInternalServerError, CodeInternal, internalErrorMessage)
	}
}

// parseBody decodifica el JSON del body; un body vacío deja out en su valor cero.
func parseBody(c *fiber.Ctx, out any) error {
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := c.App().Config().JSONDecoder(body, out); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return nil
}

// paramID lee :id como entero positivo.
func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("ID inválido")
	}
	return id, nil
}
