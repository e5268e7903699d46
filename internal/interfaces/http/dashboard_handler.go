package http

import (
	"github.com/gofiber/fiber/v2"
	appanalytics "github.com/jhoicas/mercado-api/internal/application/analytics"
)

// DashboardHandler maneja el resumen del inventario.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary devuelve la foto del stock y los movimientos del día y del mes en curso.
// @Summary      Resumo do estoque
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /dashboard/resumo [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.uc.GetSummary(c.UserContext())
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(summary)
}
