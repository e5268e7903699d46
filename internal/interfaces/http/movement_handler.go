package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/application/inventory"
	"github.com/jhoicas/mercado-api/internal/domain"
)

// MovementHandler maneja el registro y el historial de movimientos de stock.
type MovementHandler struct {
	record *inventory.RecordMovementUseCase
	list   *inventory.ListMovementsUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(record *inventory.RecordMovementUseCase, list *inventory.ListMovementsUseCase) *MovementHandler {
	return &MovementHandler{record: record, list: list}
}

// Record godoc
// @Summary      Registrar movimiento (entry/exit)
// @Description  Ajusta la cantidad del producto y guarda el movimiento en una sola transacción.
// @Tags         movimentacoes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "product_id, kind, quantity, timestamp?, note?"
// @Success      200   {object}  dto.RecordMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /movimentacoes [post]
func (h *MovementHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := parseBody(c, &in); err != nil {
		return handleError(c, err)
	}
	out, err := h.record.RecordMovement(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Historial de movimientos
// @Tags         movimentacoes
// @Produce      json
// @Param        produto_id  query  int  false  "Filtra por producto (alias: product_id)"
// @Success      200  {array}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /movimentacoes [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Query("produto_id"))
	if raw == "" {
		raw = strings.TrimSpace(c.Query("product_id"))
	}
	var productID *int64
	if raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return handleError(c, domain.Invalid("produto_id inválido"))
		}
		productID = &id
	}
	out, err := h.list.List(c.UserContext(), productID)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
