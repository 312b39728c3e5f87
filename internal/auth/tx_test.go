package auth

import (
	"context"
	"testing"

	"github.com/angelmondragon/shopfront-backend/internal/carts"
	"github.com/angelmondragon/shopfront-backend/internal/users"
	"github.com/angelmondragon/shopfront-backend/pkg/db"
	"github.com/angelmondragon/shopfront-backend/pkg/db/dbtest"
	"github.com/angelmondragon/shopfront-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/shopfront-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type duplicateUsers struct {
	users.Repository
}

func (duplicateUsers) Create(context.Context, users.CreateUserDTO) (*models.User, error) {
	return nil, db.ErrDuplicate
}

// duplicateOnCreate runs the real transaction but rejects the user insert.
type duplicateOnCreate struct {
	inner Transactor
}

func (d duplicateOnCreate) InTx(ctx context.Context, fn func(users.Repository, carts.Repository) error) error {
	return d.inner.InTx(ctx, func(u users.Repository, c carts.Repository) error {
		return fn(duplicateUsers{u}, c)
	})
}

func newTransactionalService(t *testing.T, wrap func(Transactor) Transactor) (Service, *db.Client, *stubCartService) {
	t.Helper()
	client := dbtest.NewSQLite(t)
	var tx Transactor = NewGormTransactor(client)
	if wrap != nil {
		tx = wrap(tx)
	}
	fallback := &stubCartService{}
	svc, err := NewService(ServiceParams{
		Users:          users.NewGormRepository(client.DB()),
		Carts:          fallback,
		PasswordConfig: testPasswordConfig,
		Transactor:     tx,
	})
	require.NoError(t, err)
	return svc, client, fallback
}

func countCarts(t *testing.T, client *db.Client) int64 {
	t.Helper()
	var n int64
	require.NoError(t, client.DB().Model(&models.Cart{}).Count(&n).Error)
	return n
}

func TestRegisterInTransactionCommitsCartAndUser(t *testing.T) {
	svc, client, fallback := newTransactionalService(t, nil)
	ctx := context.Background()

	identity, err := svc.Register(ctx, RegisterRequest{FirstName: "Ada", LastName: "L", Email: "ada@example.com", Password: "pw", Age: 30})
	require.NoError(t, err)
	require.NotNil(t, identity.CartID)

	assert.Equal(t, int64(1), countCarts(t, client))
	cart, err := carts.NewGormRepository(client.DB()).FindByID(ctx, *identity.CartID)
	require.NoError(t, err)
	assert.Equal(t, *identity.CartID, cart.ID)
	assert.Empty(t, fallback.created, "transactional registration must not use the plain cart service")
}

func TestRegisterInTransactionRollsBackCart(t *testing.T) {
	svc, client, fallback := newTransactionalService(t, func(inner Transactor) Transactor {
		return duplicateOnCreate{inner: inner}
	})

	_, err := svc.Register(context.Background(), RegisterRequest{FirstName: "A", LastName: "B", Email: "late@example.com", Password: "pw"})
	require.ErrorIs(t, err, ErrNoIdentity)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict))

	assert.Zero(t, countCarts(t, client), "rolled back registration left a cart behind")
	assert.Empty(t, fallback.deleted)
}
