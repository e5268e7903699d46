package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

func TestRun_RollbackConservaEscriturasExternas(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := &entity.Product{Name: "Arroz", Quantity: 10}
	require.NoError(t, s.Products().Create(ctx, base))

	started := make(chan struct{})
	done := make(chan error, 1)
	errFallo := errors.New("fallo")

	err := s.Run(ctx, func(products repository.ProductRepository, _ repository.MovementRepository) error {
		if _, err := products.ApplyDelta(ctx, base.ID, 5); err != nil {
			return err
		}
		go func() {
			close(started)
			done <- s.Products().Create(ctx, &entity.Product{Name: "Feijão", Quantity: 3})
		}()
		<-started
		// la escritura externa queda esperando a que termine la transacción
		select {
		case err := <-done:
			t.Errorf("escritura externa terminó dentro de la transacción: %v", err)
		case <-time.After(50 * time.Millisecond):
		}
		return errFallo
	})
	require.ErrorIs(t, err, errFallo)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("escritura externa bloqueada")
	}

	list, err := s.Products().List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Arroz", list[0].Name)
	assert.Equal(t, int64(10), list[0].Quantity, "delta revertido")
	assert.Equal(t, "Feijão", list[1].Name)
}

func TestRun_CommitAplicaCambios(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	user := &entity.User{Name: "Ana", Email: "ana@mercado.com", PasswordHash: "x"}
	require.NoError(t, s.Users().Create(ctx, user))
	p := &entity.Product{Name: "Sal", Quantity: 1}
	require.NoError(t, s.Products().Create(ctx, p))

	err := s.Run(ctx, func(products repository.ProductRepository, movements repository.MovementRepository) error {
		if _, err := products.ApplyDelta(ctx, p.ID, 4); err != nil {
			return err
		}
		return movements.Create(ctx, &entity.Movement{ProductID: p.ID, UserID: user.ID, Kind: entity.MovementKindEntry, Quantity: 4})
	})
	require.NoError(t, err)

	got, err := s.Products().GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.Quantity)
	movs, err := s.Movements().List(ctx, entity.MovementFilter{})
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestProductList_OrdenAlfabeticoPtBR(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	for _, name := range []string{"Óleo", "feijão", "Arroz", "banana", "arroz"} {
		require.NoError(t, s.Products().Create(ctx, &entity.Product{Name: name}))
	}

	list, err := s.Products().List(ctx, "")
	require.NoError(t, err)
	names := make([]string, len(list))
	for i, p := range list {
		names[i] = p.Name
	}
	// "Arroz" y "arroz" empatan; desempata el ID
	assert.Equal(t, []string{"Arroz", "arroz", "banana", "feijão", "Óleo"}, names)
}
