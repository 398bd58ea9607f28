package entity

import "time"

// Session es el registro de identidad de un usuario autenticado. Se crea en el
// login, se destruye en el logout y expira por inactividad: una sesión cuyo
// LastSeenAt quedó más atrás que el timeout configurado deja de ser válida.
type Session struct {
	ID         string
	UserID     string
	Username   string
	Role       Role
	CreatedAt  time.Time
	LastSeenAt time.Time
}

// IdleExpired informa si la sesión superó el tiempo máximo de inactividad.
func (s *Session) IdleExpired(now time.Time, idle time.Duration) bool {
	return now.Sub(s.LastSeenAt) > idle
}
