package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihsaan797/InvoiceME/internal/models"
	"github.com/ihsaan797/InvoiceME/internal/testutil"
)

func TestClientService_CRUD(t *testing.T) {
	database := testutil.SetupTestDB(t, "testdb_client_service", clientsCollection)
	svc := NewClientService(database)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.Client{Name: "Zeta Corp", Email: "zeta@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	var vErr *ValidationError
	_, err = svc.Create(ctx, models.Client{Email: "anon@example.com"})
	assert.ErrorAs(t, err, &vErr)

	batch, err := svc.CreateMany(ctx, []models.Client{
		{Name: "Alpha Ltd", Email: "alpha@example.com"},
		{Name: "Beta Pvt", Email: "beta@example.com"},
	})
	require.NoError(t, err)
	assert.Len(t, batch, 2)
	assert.NotEmpty(t, batch[0].ID)

	_, err = svc.CreateMany(ctx, []models.Client{{Name: "Ok"}, {Name: ""}})
	assert.ErrorAs(t, err, &vErr)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Alpha Ltd", list[0].Name)

	updated, err := svc.Update(ctx, created.ID, models.Client{Name: "Zeta Corporation", Email: "zeta@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Zeta Corporation", updated.Name)

	_, err = svc.Update(ctx, "missing", models.Client{Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrNotFound)
}
