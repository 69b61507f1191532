package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihsaan797/InvoiceME/internal/testutil"
)

func TestBusinessService_GetSeedsDefaults(t *testing.T) {
	database := testutil.SetupTestDB(t, "testdb_business_service_get", businessCollection)
	svc := NewBusinessService(database)
	ctx := context.Background()

	profile, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, businessProfileID, profile.ID)
	assert.Equal(t, "MVR", profile.Currency)
	assert.Equal(t, "INV", profile.InvoicePrefix)
	assert.Equal(t, "QT", profile.QuotationPrefix)
	assert.Equal(t, 8.0, profile.TaxPercentage)

	// Second read returns the stored record, not a fresh seed.
	again, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, profile, again)
}

func TestBusinessService_UpdateValidation(t *testing.T) {
	database := testutil.SetupTestDB(t, "testdb_business_service_update_validation", businessCollection)
	svc := NewBusinessService(database)
	ctx := context.Background()

	var vErr *ValidationError

	bad := defaultProfile()
	bad.Name = ""
	_, err := svc.Update(ctx, bad)
	assert.ErrorAs(t, err, &vErr)

	bad = defaultProfile()
	bad.TaxPercentage = 120
	_, err = svc.Update(ctx, bad)
	assert.ErrorAs(t, err, &vErr)

	bad = defaultProfile()
	bad.QuotationPrefix = ""
	_, err = svc.Update(ctx, bad)
	assert.ErrorAs(t, err, &vErr)
}

func TestBusinessService_UpdateAndLogo(t *testing.T) {
	database := testutil.SetupTestDB(t, "testdb_business_service_update", businessCollection)
	svc := NewBusinessService(database)
	ctx := context.Background()

	_, err := svc.Get(ctx)
	require.NoError(t, err)

	edited := defaultProfile()
	edited.Name = "New Name"
	edited.TaxPercentage = 12.5
	updated, err := svc.Update(ctx, edited)
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, 12.5, updated.TaxPercentage)

	require.NoError(t, svc.SetLogoKey(ctx, "logos/acme.png"))
	profile, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "logos/acme.png", profile.LogoKey)

	// A profile update leaves the logo alone.
	_, err = svc.Update(ctx, edited)
	require.NoError(t, err)
	profile, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "logos/acme.png", profile.LogoKey)

	require.NoError(t, svc.SetLogoKey(ctx, ""))
	profile, err = svc.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, profile.LogoKey)
}
