package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihsaan797/InvoiceME/internal/db"
	"github.com/ihsaan797/InvoiceME/internal/testutil"
)

func TestUserService_CreateAndAuthenticate(t *testing.T) {
	database := testutil.SetupTestDB(t, "testdb_user_service", usersCollection, documentsCollection)
	require.NoError(t, db.EnsureIndexes(context.Background(), database))
	svc := NewUserService(database)
	ctx := context.Background()

	user, err := svc.Create(ctx, "admin@example.com", "Admin", "sup3r-secret", true)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.True(t, user.IsAdmin)
	assert.NotEqual(t, "sup3r-secret", user.PasswordHash)

	var vErr *ValidationError
	_, err = svc.Create(ctx, "", "NoMail", "sup3r-secret", false)
	assert.ErrorAs(t, err, &vErr)
	_, err = svc.Create(ctx, "short@example.com", "Short", "tiny", false)
	assert.ErrorAs(t, err, &vErr)

	// Unique index turns a duplicate email into a validation error.
	_, err = svc.Create(ctx, "admin@example.com", "Clone", "sup3r-secret", false)
	assert.ErrorAs(t, err, &vErr)

	found, err := svc.FindByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)
	_, err = svc.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "admin@example.com", all[0].Email)

	authed, err := svc.Authenticate(ctx, "admin@example.com", "sup3r-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)

	_, err = svc.Authenticate(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody@example.com", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
