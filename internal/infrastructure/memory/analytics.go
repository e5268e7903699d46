package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// Analytics devuelve el repositorio de analítica.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{s: s} }

// AnalyticsRepo consultas de resumen en memoria.
type AnalyticsRepo struct{ s *Store }

// GetStockSnapshot recorre los productos.
func (r *AnalyticsRepo) GetStockSnapshot(_ context.Context) (repository.StockSnapshot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var snap repository.StockSnapshot
	for _, p := range r.s.st.products {
		snap.ProductCount++
		snap.TotalUnits += p.Quantity
		if p.BelowMinimum() {
			snap.BelowMinimumCount++
		}
	}
	return snap, nil
}

// GetMovementTotals suma los movimientos en [startDate, endDate).
func (r *AnalyticsRepo) GetMovementTotals(_ context.Context, startDate, endDate time.Time) (repository.MovementTotals, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var t repository.MovementTotals
	for _, m := range r.s.st.movements {
		if m.Timestamp.Before(startDate) || !m.Timestamp.Before(endDate) {
			continue
		}
		t.Count++
		if m.Kind == entity.MovementKindExit {
			t.ExitUnits += m.Quantity
		} else {
			t.EntryUnits += m.Quantity
		}
	}
	return t, nil
}

// GetTopExits agrupa salidas por producto.
func (r *AnalyticsRepo) GetTopExits(_ context.Context, startDate, endDate time.Time, limit int) ([]repository.TopExitResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	units := make(map[int64]int64)
	for _, m := range r.s.st.movements {
		if m.Kind != entity.MovementKindExit || m.Timestamp.Before(startDate) || !m.Timestamp.Before(endDate) {
			continue
		}
		units[m.ProductID] += m.Quantity
	}
	results := make([]repository.TopExitResult, 0, len(units))
	for id, n := range units {
		results = append(results, repository.TopExitResult{
			ProductID:   id,
			ProductName: r.s.st.products[id].Name,
			UnitsOut:    n,
		})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].UnitsOut != results[j].UnitsOut {
			return results[i].UnitsOut > results[j].UnitsOut
		}
		return results[i].ProductName < results[j].ProductName
	})
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
