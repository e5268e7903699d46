package dto

// DashboardSummaryDTO respuesta de GET /dashboard/resumo.
// Foto del stock actual más los movimientos del día y del mes en curso.
type DashboardSummaryDTO struct {
	ProductCount      int64 `json:"product_count"`
	BelowMinimumCount int64 `json:"below_minimum_count"`
	TotalUnits        int64 `json:"total_units"`

	Today MovementTotalsDTO `json:"today"` // 00:00 de hoy hasta ahora
	Month MovementTotalsDTO `json:"month"` // día 1 hasta ahora

	// Top 5 productos por unidades salidas en el mes
	TopExits []TopExitDTO `json:"top_exits"`

	DateLabel string `json:"date_label"` // ej: "outubro de 2026"
}

// MovementTotalsDTO unidades movidas en un período.
type MovementTotalsDTO struct {
	Movements  int64 `json:"movements"`
	EntryUnits int64 `json:"entry_units"`
	ExitUnits  int64 `json:"exit_units"`
}

// TopExitDTO producto del ranking de salidas.
type TopExitDTO struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitsOut    int64  `json:"units_out"`
}
