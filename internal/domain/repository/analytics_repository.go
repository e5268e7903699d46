package repository

import (
	"context"
	"time"
)

// StockSnapshot foto del inventario actual.
type StockSnapshot struct {
	ProductCount      int64
	BelowMinimumCount int64
	TotalUnits        int64 // suma de cantidades; puede incluir negativos
}

// MovementTotals unidades movidas en un período.
type MovementTotals struct {
	Count      int64
	EntryUnits int64
	ExitUnits  int64
}

// TopExitResult producto con más unidades salidas en un período.
type TopExitResult struct {
	ProductID   int64
	ProductName string
	UnitsOut    int64
}

// AnalyticsRepository consultas read-only para el resumen del inventario.
type AnalyticsRepository interface {
	GetStockSnapshot(ctx context.Context) (StockSnapshot, error)

	// GetMovementTotals considera movimientos con fecha en [startDate, endDate).
	GetMovementTotals(ctx context.Context, startDate, endDate time.Time) (MovementTotals, error)

	// GetTopExits devuelve hasta limit productos ordenados por unidades salidas desc, luego nombre.
	GetTopExits(ctx context.Context, startDate, endDate time.Time, limit int) ([]TopExitResult, error)
}
