package repository

import (
	"context"
	"time"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para movimientos de stock.
// No hay Update ni Delete: los movimientos son inmutables.
type MovementRepository interface {
	// Create inserta el movimiento; Timestamp cero significa "ahora" (lo asigna la base).
	Create(ctx context.Context, movement *entity.Movement) error
	List(ctx context.Context, filter entity.MovementFilter) ([]*entity.MovementDetail, error)
	// ExitTotalsSince suma las salidas por producto desde la fecha dada (productID -> unidades).
	ExitTotalsSince(ctx context.Context, since time.Time) (map[int64]int64, error)
}
