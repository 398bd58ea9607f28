package entity

import "time"

// Role es el conjunto cerrado de roles del sistema. Se usa un tipo propio en
// lugar de strings sueltos para que la comparación exacta quede en un solo
// lugar y los errores de tipeo no pasen a runtime.
type Role string

const (
	RoleAdministrador Role = "Administrador"
	RoleCliente       Role = "Cliente"
)

// ParseRole valida un rol recibido como string. La comparación es exacta y
// sensible a mayúsculas: "administrador" no es un rol válido.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdministrador, RoleCliente:
		return Role(s), true
	}
	return "", false
}

// Valid informa si el rol pertenece al conjunto cerrado.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

func (r Role) String() string { return string(r) }

// User representa un usuario del sistema (credenciales + rol de autorización).
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt, nunca en claro después de persistir
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
