package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihsaan797/InvoiceME/internal/models"
	"github.com/ihsaan797/InvoiceME/internal/testutil"
)

func TestCatalogService_CRUD(t *testing.T) {
	database := testutil.SetupTestDB(t, "testdb_catalog_service", catalogCollection)
	svc := NewCatalogService(database)
	ctx := context.Background()

	created, err := svc.Create(ctx, models.CatalogItem{Description: "Drone session", UnitPrice: 50})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	var vErr *ValidationError
	_, err = svc.Create(ctx, models.CatalogItem{UnitPrice: 10})
	assert.ErrorAs(t, err, &vErr)
	_, err = svc.Create(ctx, models.CatalogItem{Description: "Bad", UnitPrice: -1})
	assert.ErrorAs(t, err, &vErr)

	_, err = svc.Create(ctx, models.CatalogItem{Description: "Album", UnitPrice: 25.50})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Album", list[0].Description)

	updated, err := svc.Update(ctx, created.ID, models.CatalogItem{Description: "Drone session (1hr)", UnitPrice: 60})
	require.NoError(t, err)
	assert.Equal(t, 60.0, updated.UnitPrice)

	_, err = svc.Update(ctx, "missing", models.CatalogItem{Description: "X", UnitPrice: 1})
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), ErrNotFound)
}
