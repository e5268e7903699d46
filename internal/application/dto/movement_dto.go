package dto

import "time"

// RecordMovementRequest body para POST /movimentacoes.
// UserID es opcional; si viene debe coincidir con el usuario del token.
type RecordMovementRequest struct {
	ProductID FlexInt    `json:"product_id"`
	UserID    FlexInt    `json:"user_id"`
	Kind      string     `json:"kind"`
	Quantity  FlexInt    `json:"quantity"`
	Timestamp *time.Time `json:"timestamp"`
	Note      *string    `json:"note"`
}

// MovementResponse salida de un movimiento; los nombres sólo vienen en listados.
type MovementResponse struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	UserID      int64     `json:"user_id"`
	UserName    string    `json:"user_name,omitempty"`
	Kind        string    `json:"kind"`
	Quantity    int64     `json:"quantity"`
	Timestamp   time.Time `json:"timestamp"`
	Note        *string   `json:"note"`
}

// RecordMovementResponse movimiento creado y producto con la cantidad actualizada.
type RecordMovementResponse struct {
	Movement MovementResponse `json:"movement"`
	Product  ProductResponse  `json:"product"`
}
