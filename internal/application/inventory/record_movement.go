package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

// Options reglas configurables del registro de movimientos.
type Options struct {
	// LenientQuantity toma el valor absoluto de la cantidad en vez de rechazar negativos.
	LenientQuantity bool
}

// RecordMovementUseCase registra entradas y salidas de forma transaccional:
// ajusta la cantidad del producto (UPDATE con bloqueo de fila) e inserta el movimiento en la misma tx.
type RecordMovementUseCase struct {
	txRunner TxRunner
	observer MovementObserver
	opts     Options
}

// NewRecordMovementUseCase construye el caso de uso. observer puede ser nil.
func NewRecordMovementUseCase(txRunner TxRunner, observer MovementObserver, opts Options) *RecordMovementUseCase {
	if observer == nil {
		observer = nopObserver{}
	}
	return &RecordMovementUseCase{txRunner: txRunner, observer: observer, opts: opts}
}

// RecordMovement valida la entrada, aplica el delta y guarda el movimiento. actorUserID es el usuario
// autenticado; si el body trae user_id distinto devuelve ErrForbidden.
// Si el producto no existe no queda ningún efecto (rollback).
func (uc *RecordMovementUseCase) RecordMovement(ctx context.Context, actorUserID int64, in dto.RecordMovementRequest) (*dto.RecordMovementResponse, error) {
	if actorUserID <= 0 {
		return nil, domain.ErrUnauthorized
	}
	movement, err := uc.buildMovement(actorUserID, in)
	if err != nil {
		return nil, err
	}

	var product *entity.Product
	err = uc.txRunner.Run(ctx, func(products repository.ProductRepository, movements repository.MovementRepository) error {
		updated, err := products.ApplyDelta(ctx, movement.ProductID, entity.SignedDelta(movement.Kind, movement.Quantity))
		if err != nil {
			return err
		}
		if err := movements.Create(ctx, movement); err != nil {
			return err
		}
		product = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.observer.ObserveMovement(movement.Kind, product.BelowMinimum())
	return &dto.RecordMovementResponse{
		Movement: dto.NewMovementResponse(movement),
		Product:  dto.NewProductResponse(product),
	}, nil
}

func (uc *RecordMovementUseCase) buildMovement(actorUserID int64, in dto.RecordMovementRequest) (*entity.Movement, error) {
	if !in.ProductID.Present || !in.Quantity.Present || strings.TrimSpace(in.Kind) == "" {
		return nil, domain.Invalid("Campos obrigatórios: product_id, kind, quantity")
	}
	if !in.ProductID.Valid || in.ProductID.Value <= 0 {
		return nil, domain.Invalid("product_id inválido")
	}
	kind, ok := entity.NormalizeMovementKind(in.Kind)
	if !ok {
		return nil, domain.Invalid("Tipo deve ser 'entry' ou 'exit'")
	}
	if !in.Quantity.Valid {
		return nil, domain.Invalid("Quantidade inválida")
	}
	quantity := in.Quantity.Value
	if uc.opts.LenientQuantity && quantity < 0 {
		quantity = -quantity
	}
	if quantity == 0 {
		return nil, domain.Invalid("Campos obrigatórios: product_id, kind, quantity")
	}
	if quantity < 0 {
		return nil, domain.Invalid("Quantidade deve ser positiva")
	}
	if in.UserID.Present {
		if !in.UserID.Valid {
			return nil, domain.Invalid("user_id inválido")
		}
		if in.UserID.Value != actorUserID {
			return nil, domain.ErrForbidden
		}
	}

	m := &entity.Movement{
		ProductID: in.ProductID.Value,
		UserID:    actorUserID,
		Kind:      kind,
		Quantity:  quantity,
	}
	if in.Timestamp != nil {
		m.Timestamp = *in.Timestamp
	}
	if in.Note != nil {
		if note := strings.TrimSpace(*in.Note); note != "" {
			m.Note = &note
		}
	}
	return m, nil
}
