package inventory

import (
	"context"

	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad entre el ajuste de stock y el registro del movimiento.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		movements repository.MovementRepository,
	) error) error
}

// MovementObserver recibe cada movimiento confirmado (métricas).
type MovementObserver interface {
	ObserveMovement(kind string, belowMinimum bool)
}

type nopObserver struct{}

func (nopObserver) ObserveMovement(string, bool) {}
