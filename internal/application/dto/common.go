package dto

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// MessageResponse confirmación simple (p.ej. al eliminar).
type MessageResponse struct {
	Message string `json:"message"`
}

// FlexInt entero JSON tolerante: acepta números y strings numéricos.
// Present indica que la clave vino con un valor distinto de null; Valid que se pudo interpretar.
type FlexInt struct {
	Value   int64
	Present bool
	Valid   bool
}

// UnmarshalJSON nunca falla: un valor no numérico queda como Present && !Valid.
func (f *FlexInt) UnmarshalJSON(b []byte) error {
	*f = FlexInt{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	f.Present = true
	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		f.Value, f.Valid = n, true
		return nil
	}
	// 3.0 o 1e2 son enteros válidos; 2.5 no
	if x, err := strconv.ParseFloat(raw, 64); err == nil && x == math.Trunc(x) && math.Abs(x) < 1<<53 {
		f.Value, f.Valid = int64(x), true
	}
	return nil
}

// Ptr devuelve el valor si es válido, nil si no vino.
func (f FlexInt) Ptr() *int64 {
	if !f.Present || !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

// OrZero devuelve el valor o 0 si no vino o no es numérico.
func (f FlexInt) OrZero() int64 {
	if f.Valid {
		return f.Value
	}
	return 0
}
