// Package analytics contiene el resumen del inventario para el dashboard.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/mercado-api/internal/application/dto"
	"github.com/jhoicas/mercado-api/internal/domain/repository"
)

const dashboardTopExits = 5 // productos en el ranking de salidas

// DashboardUseCase genera el resumen del stock y de los movimientos del día y del mes.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// WithClock fija el reloj (tests).
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro consultas en paralelo:
//  1. GetStockSnapshot          → conteos y unidades
//  2. GetMovementTotals(hoy)    → Today
//  3. GetMovementTotals(mes)    → Month
//  4. GetTopExits(mes, top 5)   → TopExits
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// Hoy: [00:00, mañana 00:00); mes: [día 1, mañana 00:00)
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type snapshotResult struct {
		snap repository.StockSnapshot
		err  error
	}
	type totalsResult struct {
		totals repository.MovementTotals
		err    error
	}
	type topResult struct {
		top []repository.TopExitResult
		err error
	}

	snapCh := make(chan snapshotResult, 1)
	todayCh := make(chan totalsResult, 1)
	monthCh := make(chan totalsResult, 1)
	topCh := make(chan topResult, 1)

	go func() {
		s, err := uc.analyticsRepo.GetStockSnapshot(ctx)
		snapCh <- snapshotResult{s, err}
	}()
	go func() {
		t, err := uc.analyticsRepo.GetMovementTotals(ctx, todayStart, end)
		todayCh <- totalsResult{t, err}
	}()
	go func() {
		t, err := uc.analyticsRepo.GetMovementTotals(ctx, monthStart, end)
		monthCh <- totalsResult{t, err}
	}()
	go func() {
		top, err := uc.analyticsRepo.GetTopExits(ctx, monthStart, end, dashboardTopExits)
		topCh <- topResult{top, err}
	}()

	snap := <-snapCh
	today := <-todayCh
	month := <-monthCh
	top := <-topCh

	if snap.err != nil {
		return nil, fmt.Errorf("dashboard: stock: %w", snap.err)
	}
	if today.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos del mes: %w", month.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: top salidas: %w", top.err)
	}

	topExits := make([]dto.TopExitDTO, 0, len(top.top))
	for _, t := range top.top {
		topExits = append(topExits, dto.TopExitDTO{ProductID: t.ProductID, ProductName: t.ProductName, UnitsOut: t.UnitsOut})
	}

	return &dto.DashboardSummaryDTO{
		ProductCount:      snap.snap.ProductCount,
		BelowMinimumCount: snap.snap.BelowMinimumCount,
		TotalUnits:        snap.snap.TotalUnits,
		Today:             toTotalsDTO(today.totals),
		Month:             toTotalsDTO(month.totals),
		TopExits:          topExits,
		DateLabel:         monthLabel(now),
	}, nil
}

func toTotalsDTO(t repository.MovementTotals) dto.MovementTotalsDTO {
	return dto.MovementTotalsDTO{Movements: t.Count, EntryUnits: t.EntryUnits, ExitUnits: t.ExitUnits}
}

// monthLabel devuelve una etiqueta legible del mes, ej: "outubro de 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"janeiro", "fevereiro", "março", "abril", "maio", "junho",
		"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
	}
	return fmt.Sprintf("%s de %d", months[t.Month()-1], t.Year())
}
