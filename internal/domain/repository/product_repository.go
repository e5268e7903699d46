package repository

import (
	"context"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
)

// ProductPatch cambios parciales sobre un producto: nil conserva el valor almacenado.
type ProductPatch struct {
	Name             *string
	Quantity         *int64
	MinimumThreshold *int64
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Get/Update/Delete devuelven domain.ErrProductNotFound cuando el id no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	List(ctx context.Context, nameFilter string) ([]*entity.Product, error)
	Update(ctx context.Context, id int64, patch ProductPatch) (*entity.Product, error)
	Delete(ctx context.Context, id int64) error
	// ApplyDelta suma delta a la cantidad con bloqueo de fila y devuelve la fila actualizada.
	ApplyDelta(ctx context.Context, id int64, delta int64) (*entity.Product, error)
}
