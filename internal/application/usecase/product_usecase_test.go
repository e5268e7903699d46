package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/application/usecase"
	"github.com/jhoicas/mercado-api/internal/domain"
	"github.com/jhoicas/mercado-api/internal/infrastructure/memory"
)

func decode[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

func TestProductCreate_ValoresPorDefecto(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products())
	ctx := context.Background()

	out, err := uc.Create(ctx, decode[dto.CreateProductRequest](t, `{"name":"Arroz"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Quantity)
	assert.Equal(t, int64(0), out.MinimumThreshold)
	assert.False(t, out.BelowMinimum)

	out, err = uc.Create(ctx, decode[dto.CreateProductRequest](t, `{"name":"Sal","quantity":"abc","minimum_threshold":null}`))
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Quantity)

	out, err = uc.Create(ctx, decode[dto.CreateProductRequest](t, `{"name":"Feijão","quantity":"10","minimum_threshold":5}`))
	require.NoError(t, err)
	assert.Equal(t, int64(10), out.Quantity)
	assert.Equal(t, int64(5), out.MinimumThreshold)
}

func TestProductCreate_NombreObligatorio(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products())
	_, err := uc.Create(context.Background(), dto.CreateProductRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestProductUpdate_MergeParcial(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products())
	ctx := context.Background()
	created, err := uc.Create(ctx, decode[dto.CreateProductRequest](t, `{"name":"Feijão","quantity":10,"minimum_threshold":5}`))
	require.NoError(t, err)

	out, err := uc.Update(ctx, created.ID, decode[dto.UpdateProductRequest](t, `{"quantity":3}`))
	require.NoError(t, err)
	assert.Equal(t, "Feijão", out.Name)
	assert.Equal(t, int64(3), out.Quantity)
	assert.Equal(t, int64(5), out.MinimumThreshold)
	assert.True(t, out.BelowMinimum)

	out, err = uc.Update(ctx, created.ID, decode[dto.UpdateProductRequest](t, `{"name":null,"minimum_threshold":null}`))
	require.NoError(t, err)
	assert.Equal(t, "Feijão", out.Name)
	assert.Equal(t, int64(5), out.MinimumThreshold)
}

func TestProductUpdate_CampoInvalido(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products())
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Feijão"})
	require.NoError(t, err)

	_, err = uc.Update(ctx, created.ID, decode[dto.UpdateProductRequest](t, `{"name":"  "}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, created.ID, decode[dto.UpdateProductRequest](t, `{"quantity":"muitos"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, 999, decode[dto.UpdateProductRequest](t, `{"quantity":1}`))
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductList_FiltroYOrden(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products())
	ctx := context.Background()
	for _, name := range []string{"Feijão", "Arroz", "Farinha"} {
		_, err := uc.Create(ctx, dto.CreateProductRequest{Name: name})
		require.NoError(t, err)
	}

	all, err := uc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Arroz", all[0].Name)

	filtered, err := uc.List(ctx, "  fa ")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Farinha", filtered[0].Name)
}

func TestProductDelete(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewStore().Products())
	ctx := context.Background()
	created, err := uc.Create(ctx, dto.CreateProductRequest{Name: "Feijão"})
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, created.ID))
	assert.ErrorIs(t, uc.Delete(ctx, created.ID), domain.ErrProductNotFound)
	_, err = uc.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}
