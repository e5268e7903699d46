package entity

import "time"

// User representa un integrante del equipo del mercado que opera el inventario.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string // bcrypt; la contraseña en claro nunca se persiste
	CreatedAt    time.Time
}
