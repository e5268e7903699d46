package entity

import (
	"strings"
	"time"
)

// Tipos de movimiento de stock.
const (
	MovementKindEntry = "entry" // entrada: suma al stock
	MovementKindExit  = "exit"  // salida: resta del stock
)

// Movement registra un cambio de cantidad sobre un producto. Es inmutable una vez creado.
// Quantity siempre es la magnitud; la dirección la define Kind.
type Movement struct {
	ID        int64
	ProductID int64
	UserID    int64
	Kind      string
	Quantity  int64
	Timestamp time.Time
	Note      *string
}

// MovementDetail agrega los nombres del producto y del responsable para listados.
type MovementDetail struct {
	Movement
	ProductName string
	UserName    string
}

// MovementFilter filtros para el listado de movimientos.
type MovementFilter struct {
	ProductID *int64
}

// NormalizeMovementKind devuelve el tipo canónico (sin distinguir mayúsculas) y si es válido.
func NormalizeMovementKind(kind string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case MovementKindEntry:
		return MovementKindEntry, true
	case MovementKindExit:
		return MovementKindExit, true
	}
	return "", false
}

// SignedDelta devuelve +q para entradas y -q para salidas.
func SignedDelta(kind string, quantity int64) int64 {
	if kind == MovementKindExit {
		return -quantity
	}
	return quantity
}
