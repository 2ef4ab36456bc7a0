package repositories

import (
	"context"
	"testing"
	"time"

	"clientback/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, repo UserRepository, email string, phone *string) *models.User {
	t.Helper()
	now := time.Now()
	u := &models.User{Name: "N", Surname: "S", Email: email, PasswordHash: "h", MobilePhone: phone, CreationDate: now, ModificationDate: now}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestMemoryUsers_UniqueConstraints(t *testing.T) {
	store := NewMemoryStore()
	users := store.Users()
	phone := "555"

	a := seedUser(t, users, "a@x.com", &phone)
	assert.Equal(t, int64(1), a.ID)

	err := users.Create(context.Background(), &models.User{Email: "a@x.com"})
	assert.True(t, IsConstraintViolation(err, ConstraintUserEmail))

	samePhone := "555"
	err = users.Create(context.Background(), &models.User{Email: "b@x.com", MobilePhone: &samePhone})
	assert.True(t, IsConstraintViolation(err, ConstraintUserMobilePhone))

	// users without phones never collide on it
	seedUser(t, users, "c@x.com", nil)
	seedUser(t, users, "d@x.com", nil)
}

func TestMemoryUsers_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	users := store.Users()
	phone := "555"
	seedUser(t, users, "a@x.com", &phone)

	got, err := users.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	*got.MobilePhone = "999"
	got.Name = "changed"

	again, err := users.FindByID(context.Background(), got.ID)
	require.NoError(t, err)
	assert.Equal(t, "555", *again.MobilePhone)
	assert.Equal(t, "N", again.Name)
}

func TestMemoryUsers_UpdateKeepsCreationDate(t *testing.T) {
	store := NewMemoryStore()
	users := store.Users()
	u := seedUser(t, users, "a@x.com", nil)
	created := u.CreationDate

	u.Name = "New"
	u.CreationDate = time.Time{}
	require.NoError(t, users.Update(context.Background(), u))

	got, err := users.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, created, got.CreationDate)

	assert.ErrorIs(t, users.Update(context.Background(), &models.User{ID: 42}), ErrNotFound)
}

func TestMemoryUsers_DeleteCascadesClients(t *testing.T) {
	store := NewMemoryStore()
	users, clients := store.Users(), store.Clients()
	u := seedUser(t, users, "a@x.com", nil)
	require.NoError(t, clients.Create(context.Background(), &models.Client{UserID: u.ID, IDType: "CC", IDNumber: "1"}))

	require.NoError(t, users.DeleteByID(context.Background(), u.ID))

	list, err := clients.FindByUserEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.ErrorIs(t, users.DeleteByID(context.Background(), u.ID), ErrNotFound)
}

func TestMemoryClients_OwnerScoping(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	users, clients := store.Users(), store.Clients()
	a := seedUser(t, users, "a@x.com", nil)
	b := seedUser(t, users, "b@x.com", nil)

	ca := &models.Client{UserID: a.ID, Name: "Juan", IDType: "CC", IDNumber: "123"}
	require.NoError(t, clients.Create(ctx, ca))
	// same identification under another owner is allowed
	require.NoError(t, clients.Create(ctx, &models.Client{UserID: b.ID, Name: "Otro", IDType: "CC", IDNumber: "123"}))

	err := clients.Create(ctx, &models.Client{UserID: a.ID, IDType: "CC", IDNumber: "123"})
	assert.True(t, IsConstraintViolation(err, ConstraintClientIdentification))

	got, err := clients.FindByIdentificationAndUserEmail(ctx, "CC", "123", "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Otro", got.Name)
	assert.Equal(t, "b@x.com", got.OwnerEmail)

	_, err = clients.FindByIDAndUserEmail(ctx, ca.ID, "b@x.com")
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := clients.ExistsByIDAndUserEmail(ctx, ca.ID, "b@x.com")
	require.NoError(t, err)
	assert.False(t, exists)

	deleted, err := clients.DeleteByIDAndUserEmail(ctx, ca.ID, "b@x.com")
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = clients.DeleteByIDAndUserEmail(ctx, ca.ID, "a@x.com")
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestMemoryClients_UpdateByUserEmail(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	users, clients := store.Users(), store.Clients()
	a := seedUser(t, users, "a@x.com", nil)
	created := time.Now().Add(-time.Hour)

	c := &models.Client{UserID: a.ID, Name: "Juan", Surname: "Perez", IDType: "CC", IDNumber: "123", CreationDate: created}
	require.NoError(t, clients.Create(ctx, c))
	other := &models.Client{UserID: a.ID, Name: "Eva", IDType: "CE", IDNumber: "9"}
	require.NoError(t, clients.Create(ctx, other))

	upd := &models.Client{ID: c.ID, Name: "Juan", Surname: "Gomez", IDType: "CC", IDNumber: "123"}
	require.NoError(t, clients.UpdateByUserEmail(ctx, upd, "a@x.com"))
	assert.Equal(t, "Gomez", upd.Surname)
	assert.Equal(t, created, upd.CreationDate)
	assert.Equal(t, a.ID, upd.UserID)

	clash := &models.Client{ID: other.ID, Name: "Eva", IDType: "CC", IDNumber: "123"}
	assert.True(t, IsConstraintViolation(clients.UpdateByUserEmail(ctx, clash, "a@x.com"), ConstraintClientIdentification))

	assert.ErrorIs(t, clients.UpdateByUserEmail(ctx, &models.Client{ID: c.ID}, "b@x.com"), ErrNotFound)
}

func TestMemoryClients_CreateUnknownOwner(t *testing.T) {
	store := NewMemoryStore()
	err := store.Clients().Create(context.Background(), &models.Client{UserID: 77})
	assert.ErrorIs(t, err, ErrDatabaseError)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	store := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Users().FindByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = store.Clients().FindByUserEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryClients_ListOrderedByID(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	a := seedUser(t, store.Users(), "a@x.com", nil)
	for _, n := range []string{"3", "1", "2"} {
		require.NoError(t, store.Clients().Create(ctx, &models.Client{UserID: a.ID, IDType: "CC", IDNumber: n}))
	}

	list, err := store.Clients().FindByUserEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
}
