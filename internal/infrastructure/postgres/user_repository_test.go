package postgres_test

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/tiendasol/presupuestos-api/internal/domain"
	"github.com/tiendasol/presupuestos-api/internal/domain/entity"
	"github.com/tiendasol/presupuestos-api/internal/infrastructure/postgres"
)

type userRepositorySuite struct {
	suite.Suite

	pool     *pgxpool.Pool
	users    *postgres.UserRepo
	sessions *postgres.SessionRepo
}

func TestUserRepositorySuite(t *testing.T) {
	suite.Run(t, new(userRepositorySuite))
}

func (suite *userRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.NoError(err)

	suite.users = postgres.NewUserRepository(suite.pool)
	suite.sessions = postgres.NewSessionRepository(suite.pool)
}

func (suite *userRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *userRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE users, sessions CASCADE")
	suite.NoError(err)
}

func (suite *userRepositorySuite) TestCreateAndLookup() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	u := randomUser(entity.RoleAdministrador)
	require.NoError(t, suite.users.Create(ctx, u))
	require.NotEmpty(t, u.ID)

	byName, err := suite.users.GetByUsername(ctx, u.Username)
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, u.ID, byName.ID)
	assert.Equal(t, u.PasswordHash, byName.PasswordHash)
	assert.Equal(t, entity.RoleAdministrador, byName.Role)

	byID, err := suite.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, u.Username, byID.Username)
}

func (suite *userRepositorySuite) TestDuplicateUsername() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	u := randomUser(entity.RoleCliente)
	require.NoError(t, suite.users.Create(ctx, u))

	dup := randomUser(entity.RoleCliente)
	dup.Username = u.Username
	err := suite.users.Create(ctx, dup)
	require.ErrorIs(t, err, domain.ErrDuplicate)
}

func (suite *userRepositorySuite) TestLookupMissing() {
	t := suite.T()
	ctx := t.Context()

	got, err := suite.users.GetByUsername(ctx, gofakeit.Username())
	require.NoError(t, err)
	assert.Nil(t, got)

	gotSess, err := suite.sessions.GetByID(ctx, gofakeit.UUID())
	require.NoError(t, err)
	assert.Nil(t, gotSess)
}

func (suite *userRepositorySuite) TestSessionLifecycle() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	u := randomUser(entity.RoleCliente)
	require.NoError(t, suite.users.Create(ctx, u))

	now := time.Now().UTC().Truncate(time.Millisecond)
	sess := &entity.Session{
		ID:         uuid.New().String(),
		UserID:     u.ID,
		Username:   u.Username,
		Role:       u.Role,
		CreatedAt:  now,
		LastSeenAt: now,
	}
	require.NoError(t, suite.sessions.Create(ctx, sess))

	got, err := suite.sessions.GetByID(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.UserID)
	assert.Equal(t, entity.RoleCliente, got.Role)

	seen := now.Add(10 * time.Minute)
	require.NoError(t, suite.sessions.Touch(ctx, sess.ID, seen))

	got, err = suite.sessions.GetByID(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.LastSeenAt.After(now))

	deleted, err := suite.sessions.Delete(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = suite.sessions.Delete(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func randomUser(role entity.Role) *entity.User {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &entity.User{
		Username:     gofakeit.Username(),
		PasswordHash: gofakeit.UUID(),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
