package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

// DefaultReplenishmentWindow ventana de salidas usada para priorizar.
const DefaultReplenishmentWindow = 30 * 24 * time.Hour

// ReplenishmentUseCase genera la lista de reposición: productos bajo el mínimo,
// priorizados por déficit y por volumen de salidas reciente.
type ReplenishmentUseCase struct {
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
	window       time.Duration
	now          func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		window:       DefaultReplenishmentWindow,
		now:          time.Now,
	}
}

// GenerateReplenishmentList devuelve los productos bajo el mínimo con la cantidad sugerida de pedido.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context) ([]dto.ReplenishmentSuggestionDTO, error) {
	products, err := uc.productRepo.List(ctx, "")
	if err != nil {
		return nil, err
	}
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, p := range products {
		if !p.BelowMinimum() {
			continue
		}
		ideal := (p.MinimumThreshold*3 + 1) / 2
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:         p.ID,
			ProductName:       p.Name,
			CurrentStock:      p.Quantity,
			MinimumThreshold:  p.MinimumThreshold,
			IdealStock:        ideal,
			SuggestedOrderQty: ideal - p.Quantity,
		})
	}
	if len(suggestions) == 0 {
		return suggestions, nil
	}

	outs, err := uc.movementRepo.ExitTotalsSince(ctx, uc.now().Add(-uc.window))
	if err != nil {
		return nil, err
	}
	for i := range suggestions {
		suggestions[i].UnitsOutLastDays = outs[suggestions[i].ProductID]
	}

	// Primero mayor déficit bajo el mínimo, luego mayor salida reciente, luego nombre.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		defA, defB := a.MinimumThreshold-a.CurrentStock, b.MinimumThreshold-b.CurrentStock
		if defA != defB {
			return defA > defB
		}
		if a.UnitsOutLastDays != b.UnitsOutLastDays {
			return a.UnitsOutLastDays > b.UnitsOutLastDays
		}
		return a.ProductName < b.ProductName
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
