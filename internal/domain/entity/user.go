package entity

import "time"

// User representa un usuario registrado. Inmutable después del registro.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	CreatedAt    time.Time
}
