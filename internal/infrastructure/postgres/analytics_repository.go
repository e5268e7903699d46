package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/mercado-api/internal/domain/entity"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de solo lectura para el resumen del inventario.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetStockSnapshot cuenta productos, los que están bajo el mínimo y el total de unidades.
func (r *AnalyticsRepo) GetStockSnapshot(ctx context.Context) (repository.StockSnapshot, error) {
	var s repository.StockSnapshot
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE quantidade < estoque_minimo),
		       COALESCE(SUM(quantidade), 0)::bigint
		  FROM produtos`,
	).Scan(&s.ProductCount, &s.BelowMinimumCount, &s.TotalUnits)
	if err != nil {
		return s, fmt.Errorf("analytics.GetStockSnapshot: %w", err)
	}
	return s, nil
}

// GetMovementTotals suma entradas y salidas del período.
func (r *AnalyticsRepo) GetMovementTotals(ctx context.Context, startDate, endDate time.Time) (repository.MovementTotals, error) {
	var t repository.MovementTotals
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(quantidade) FILTER (WHERE tipo = $3), 0)::bigint,
		       COALESCE(SUM(quantidade) FILTER (WHERE tipo = $4), 0)::bigint
		  FROM movimentacoes
		 WHERE data_movimentacao >= $1 AND data_movimentacao < $2`,
		startDate, endDate, entity.MovementKindEntry, entity.MovementKindExit,
	).Scan(&t.Count, &t.EntryUnits, &t.ExitUnits)
	if err != nil {
		return t, fmt.Errorf("analytics.GetMovementTotals: %w", err)
	}
	return t, nil
}

// GetTopExits ranking de productos por unidades salidas.
func (r *AnalyticsRepo) GetTopExits(ctx context.Context, startDate, endDate time.Time, limit int) ([]repository.TopExitResult, error) {
	rows, err := r.q.Query(ctx, `
		SELECT p.id_produto, p.nome, SUM(m.quantidade)::bigint AS unidades
		  FROM movimentacoes m
		  JOIN produtos p ON p.id_produto = m.produto_id
		 WHERE m.tipo = $1
		   AND m.data_movimentacao >= $2 AND m.data_movimentacao < $3
		 GROUP BY p.id_produto, p.nome
		 ORDER BY unidades DESC, p.nome ASC
		 LIMIT $4`,
		entity.MovementKindExit, startDate, endDate, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("analytics.GetTopExits: %w", err)
	}
	defer rows.Close()

	results := make([]repository.TopExitResult, 0, limit)
	for rows.Next() {
		var row repository.TopExitResult
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.UnitsOut); err != nil {
			return nil, fmt.Errorf("analytics.GetTopExits scan: %w", err)
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
