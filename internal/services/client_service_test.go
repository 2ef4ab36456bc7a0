package services

import (
	"context"
	"testing"

	"clientback/internal/models"
	"clientback/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clientFixture struct {
	store   *repositories.MemoryStore
	svc     ClientService
	a, b    models.Principal
	clientA *models.Client
}

// newClientFixture registers users A and B and gives A one client.
func newClientFixture(t *testing.T) clientFixture {
	t.Helper()
	accounts := newAccountFixture(t)
	register(t, accounts.svc, "a@x.com", "secret1")
	register(t, accounts.svc, "b@x.com", "secret1")

	svc := NewClientService(accounts.store.Clients(), accounts.store.Users())
	a := models.NewPrincipal("a@x.com")
	c, err := svc.Create(context.Background(), a, ClientRequest{Name: "Juan", Surname: "Perez", IDType: "CC", IDNumber: "123"})
	require.NoError(t, err)

	return clientFixture{store: accounts.store, svc: svc, a: a, b: models.NewPrincipal("b@x.com"), clientA: c}
}

func TestClientCreate_OwnerIsPrincipal(t *testing.T) {
	f := newClientFixture(t)
	assert.NotZero(t, f.clientA.ID)
	assert.Equal(t, "a@x.com", f.clientA.OwnerEmail)
	assert.True(t, f.clientA.OwnedBy(f.a))
	assert.False(t, f.clientA.OwnedBy(f.b))
	assert.False(t, f.clientA.CreationDate.IsZero())
}

func TestClientCreate_DuplicateIdentification(t *testing.T) {
	f := newClientFixture(t)

	_, err := f.svc.Create(context.Background(), f.a, ClientRequest{IDType: "CC", IDNumber: "123"})
	assert.ErrorIs(t, err, ErrClientAlreadyExists)

	c, err := f.svc.Create(context.Background(), f.b, ClientRequest{IDType: "CC", IDNumber: "123"})
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", c.OwnerEmail)
}

func TestClientCreate_PrincipalWithoutUser(t *testing.T) {
	f := newClientFixture(t)
	_, err := f.svc.Create(context.Background(), models.NewPrincipal("ghost@x.com"), ClientRequest{IDType: "CC", IDNumber: "1"})
	assert.ErrorIs(t, err, ErrPrincipalNotFound)
}

func TestClientOperations_RequirePrincipal(t *testing.T) {
	f := newClientFixture(t)
	ctx := context.Background()

	_, err := f.svc.ListAll(ctx, models.Principal{})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	_, err = f.svc.GetByIdentification(ctx, models.Principal{}, "CC", "123")
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	_, err = f.svc.Create(ctx, models.Principal{}, ClientRequest{})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	_, err = f.svc.Update(ctx, models.Principal{}, f.clientA.ID, ClientRequest{})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
	_, err = f.svc.Delete(ctx, models.Principal{}, f.clientA.ID)
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestClientIsolation_BetweenUsers(t *testing.T) {
	f := newClientFixture(t)
	ctx := context.Background()

	listB, err := f.svc.ListAll(ctx, f.b)
	require.NoError(t, err)
	assert.NotNil(t, listB)
	assert.Empty(t, listB)

	_, err = f.svc.GetByIdentification(ctx, f.b, "CC", "123")
	assert.ErrorIs(t, err, ErrClientNotFound)

	_, err = f.svc.Update(ctx, f.b, f.clientA.ID, ClientRequest{Name: "Hacked", IDType: "CC", IDNumber: "123"})
	assert.ErrorIs(t, err, ErrClientNotFound)

	deleted, err := f.svc.Delete(ctx, f.b, f.clientA.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	// A's client is untouched
	got, err := f.svc.GetByIdentification(ctx, f.a, "CC", "123")
	require.NoError(t, err)
	assert.Equal(t, "Juan", got.Name)
}

func TestClientListAll(t *testing.T) {
	f := newClientFixture(t)
	_, err := f.svc.Create(context.Background(), f.a, ClientRequest{Name: "Eva", IDType: "CE", IDNumber: "9"})
	require.NoError(t, err)

	list, err := f.svc.ListAll(context.Background(), f.a)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, c := range list {
		assert.Equal(t, "a@x.com", c.OwnerEmail)
	}
}

func TestClientUpdate(t *testing.T) {
	f := newClientFixture(t)

	updated, err := f.svc.Update(context.Background(), f.a, f.clientA.ID, ClientRequest{Name: "Juan", Surname: "Gomez", IDType: "CC", IDNumber: "123"})
	require.NoError(t, err)
	assert.Equal(t, "Gomez", updated.Surname)
	assert.Equal(t, "a@x.com", updated.OwnerEmail)
	assert.Equal(t, f.clientA.CreationDate, updated.CreationDate)
	assert.False(t, updated.ModificationDate.Before(f.clientA.ModificationDate))

	_, err = f.svc.Update(context.Background(), f.a, 999, ClientRequest{IDType: "CC", IDNumber: "1"})
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestClientUpdate_IdentificationClash(t *testing.T) {
	f := newClientFixture(t)
	other, err := f.svc.Create(context.Background(), f.a, ClientRequest{IDType: "CE", IDNumber: "9"})
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), f.a, other.ID, ClientRequest{IDType: "CC", IDNumber: "123"})
	assert.ErrorIs(t, err, ErrClientAlreadyExists)
}

func TestClientDelete(t *testing.T) {
	f := newClientFixture(t)
	ctx := context.Background()

	deleted, err := f.svc.Delete(ctx, f.a, 999)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = f.svc.Delete(ctx, f.a, f.clientA.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = f.svc.GetByIdentification(ctx, f.a, "CC", "123")
	assert.ErrorIs(t, err, ErrClientNotFound)

	deleted, err = f.svc.Delete(ctx, f.a, f.clientA.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestClientCreateAndUpdate_BlankIdentification(t *testing.T) {
	f := newClientFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.a, ClientRequest{IDType: "   ", IDNumber: "  "})
	assert.ErrorIs(t, err, ErrInvalidClient)
	_, err = f.svc.Create(ctx, f.a, ClientRequest{IDType: "CC", IDNumber: " "})
	assert.ErrorIs(t, err, ErrInvalidClient)

	_, err = f.svc.Update(ctx, f.a, f.clientA.ID, ClientRequest{IDType: " ", IDNumber: "123"})
	assert.ErrorIs(t, err, ErrInvalidClient)

	list, err := f.svc.ListAll(ctx, f.a)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "CC", list[0].IDType)
}
