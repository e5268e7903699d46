package inventory

import (
	"context"

	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

// ListMovementsUseCase historial de movimientos, más recientes primero.
type ListMovementsUseCase struct {
	repo repository.MovementRepository
}

// NewListMovementsUseCase construye el caso de uso.
func NewListMovementsUseCase(repo repository.MovementRepository) *ListMovementsUseCase {
	return &ListMovementsUseCase{repo: repo}
}

// List devuelve los movimientos; productID nil lista todos.
func (uc *ListMovementsUseCase) List(ctx context.Context, productID *int64) ([]dto.MovementResponse, error) {
	list, err := uc.repo.List(ctx, entity.MovementFilter{ProductID: productID})
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.NewMovementDetailResponse(d))
	}
	return out, nil
}
