package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tiendasol/presupuestos-api/internal/application/dto"
	"github.com/tiendasol/presupuestos-api/internal/domain"
	"github.com/tiendasol/presupuestos-api/internal/domain/entity"
	"github.com/tiendasol/presupuestos-api/internal/domain/repository"
	pkgjwt "github.com/tiendasol/presupuestos-api/pkg/jwt"
)

// Config parámetros de emisión de tokens y expiración de sesión.
type Config struct {
	JWTSecret   string
	JWTExpMin   int
	Issuer      string
	IdleTimeout time.Duration // inactividad máxima antes de invalidar la sesión
}

// Identity es la identidad resuelta de una petición. Un puntero nil representa
// "sin identidad": todos los chequeos devuelven false sobre él.
type Identity struct {
	SessionID string
	UserID    string
	Username  string
	Role      entity.Role
}

// Authenticated informa si hay una identidad válida asociada.
func (i *Identity) Authenticated() bool {
	return i != nil && i.Username != ""
}

// HasAccessLevel compara el rol almacenado con el requerido: coincidencia
// exacta, y false incondicional si no hay identidad.
func (i *Identity) HasAccessLevel(role entity.Role) bool {
	if !i.Authenticated() {
		return false
	}
	return i.Role == role
}

// HasAnyRole informa si la identidad tiene alguno de los roles dados.
func (i *Identity) HasAnyRole(roles ...entity.Role) bool {
	for _, r := range roles {
		if i.HasAccessLevel(r) {
			return true
		}
	}
	return false
}

// AuthUseCase login, logout y resolución de identidad por sesión.
type AuthUseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	cfg      Config
	now      func() time.Time
}

// NewAuthUseCase construye el caso de uso de autenticación.
func NewAuthUseCase(users repository.UserRepository, sessions repository.SessionRepository, cfg Config) *AuthUseCase {
	return &AuthUseCase{users: users, sessions: sessions, cfg: cfg, now: time.Now}
}

// Login verifica usuario y contraseña. Si las credenciales son correctas crea
// una sesión y devuelve un token que la nombra; si no, devuelve
// ErrUnauthenticated sin tocar ninguna sesión existente.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	user, err := uc.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthenticated
	}

	now := uc.now()
	session := &entity.Session{
		ID:         uuid.New().String(),
		UserID:     user.ID,
		Username:   user.Username,
		Role:       user.Role,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	if err := uc.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	token, err := pkgjwt.Generate(uc.cfg.JWTSecret, pkgjwt.Claims{
		SessionID: session.ID,
		UserID:    user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
	}, uc.cfg.Issuer, uc.cfg.JWTExpMin)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token: token,
		User: dto.UserResponse{
			ID:        user.ID,
			Username:  user.Username,
			Role:      string(user.Role),
			CreatedAt: user.CreatedAt,
		},
	}, nil
}

// Logout destruye la sesión. Después del logout la identidad deja de existir:
// Authenticated() y HasAccessLevel() sobre esa sesión dan false.
func (uc *AuthUseCase) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrUnauthenticated
	}
	if _, err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	return nil
}

// Authenticate resuelve la identidad de una sesión: la sesión debe existir y
// no haber superado el tiempo de inactividad. Una sesión vencida se elimina y
// se rechaza con ErrSessionExpired; el resto de fallas son ErrUnauthenticated.
func (uc *AuthUseCase) Authenticate(ctx context.Context, sessionID string) (*Identity, error) {
	if sessionID == "" {
		return nil, domain.ErrUnauthenticated
	}
	session, err := uc.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, domain.ErrUnauthenticated
	}

	now := uc.now()
	if session.IdleExpired(now, uc.cfg.IdleTimeout) {
		_, _ = uc.sessions.Delete(ctx, session.ID)
		return nil, domain.ErrSessionExpired
	}
	if err := uc.sessions.Touch(ctx, session.ID, now); err != nil {
		return nil, err
	}

	return &Identity{
		SessionID: session.ID,
		UserID:    session.UserID,
		Username:  session.Username,
		Role:      session.Role,
	}, nil
}
