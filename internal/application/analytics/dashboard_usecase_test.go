package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/mercado-api/internal/application/analytics"
	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
	"github.com/jhoicas/mercado-api/internal/infrastructure/memory"
)

func TestGetSummary(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.October, 17, 15, 0, 0, 0, time.UTC)
	store := memory.NewStore()

	u := &entity.User{Name: "Ana", Email: "ana@x.com", PasswordHash: "h"}
	require.NoError(t, store.Users().Create(ctx, u))
	feijao := &entity.Product{Name: "Feijão", Quantity: 2, MinimumThreshold: 5}
	arroz := &entity.Product{Name: "Arroz", Quantity: 20, MinimumThreshold: 5}
	require.NoError(t, store.Products().Create(ctx, feijao))
	require.NoError(t, store.Products().Create(ctx, arroz))

	mov := func(p *entity.Product, kind string, q int64, ts time.Time) {
		require.NoError(t, store.Movements().Create(ctx, &entity.Movement{
			ProductID: p.ID, UserID: u.ID, Kind: kind, Quantity: q, Timestamp: ts,
		}))
	}
	// hoy
	mov(feijao, entity.MovementKindExit, 8, now.Add(-time.Hour))
	mov(arroz, entity.MovementKindEntry, 10, now.Add(-2*time.Hour))
	// resto del mes y mes anterior
	mov(arroz, entity.MovementKindExit, 3, time.Date(2026, 10, 2, 9, 0, 0, 0, time.UTC))
	mov(arroz, entity.MovementKindExit, 50, time.Date(2026, 9, 30, 9, 0, 0, 0, time.UTC))

	uc := analytics.NewDashboardUseCase(store.Analytics()).WithClock(func() time.Time { return now })
	out, err := uc.GetSummary(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(2), out.ProductCount)
	assert.Equal(t, int64(1), out.BelowMinimumCount)
	assert.Equal(t, int64(22), out.TotalUnits)

	assert.Equal(t, int64(2), out.Today.Movements)
	assert.Equal(t, int64(10), out.Today.EntryUnits)
	assert.Equal(t, int64(8), out.Today.ExitUnits)

	assert.Equal(t, int64(3), out.Month.Movements)
	assert.Equal(t, int64(11), out.Month.ExitUnits)

	require.Len(t, out.TopExits, 2)
	assert.Equal(t, "Feijão", out.TopExits[0].ProductName)
	assert.Equal(t, int64(8), out.TopExits[0].UnitsOut)
	assert.Equal(t, int64(3), out.TopExits[1].UnitsOut)
	assert.Equal(t, "outubro de 2026", out.DateLabel)
}

func TestGetSummary_Vacio(t *testing.T) {
	out, err := analytics.NewDashboardUseCase(memory.NewStore().Analytics()).GetSummary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, out.ProductCount)
	assert.NotNil(t, out.TopExits)
	assert.Empty(t, out.TopExits)
}

type failingAnalytics struct{ repository.AnalyticsRepository }

func (failingAnalytics) GetStockSnapshot(context.Context) (repository.StockSnapshot, error) {
	return repository.StockSnapshot{}, errors.New("conexión perdida")
}

func (failingAnalytics) GetMovementTotals(context.Context, time.Time, time.Time) (repository.MovementTotals, error) {
	return repository.MovementTotals{}, nil
}

func (failingAnalytics) GetTopExits(context.Context, time.Time, time.Time, int) ([]repository.TopExitResult, error) {
	return nil, nil
}

func TestGetSummary_PropagaError(t *testing.T) {
	_, err := analytics.NewDashboardUseCase(failingAnalytics{}).GetSummary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conexión perdida")
}
