package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goto/finder/core/metadata"
	"github.com/goto/finder/internal/store/postgres"
	"github.com/goto/finder/internal/testutils"
	"github.com/goto/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeRepository(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t, log.NewNoop())

	repo, err := postgres.NewDescribeRepository(client)
	require.NoError(t, err)

	t.Run("should describe columns in order", func(t *testing.T) {
		desc, err := repo.DescribeObject(ctx, "Contact")
		require.NoError(t, err)

		testutils.AssertEqualDiff(t, metadata.ObjectDescription{
			Name: "contact",
			Fields: []metadata.Field{
				{Name: "id", Type: "text", Nillable: false},
				{Name: "first_name", Type: "text", Nillable: true},
				{Name: "last_name", Type: "text", Nillable: false},
				{Name: "email", Type: "text", Nillable: true},
				{Name: "account_id", Type: "text", Nillable: true},
			},
		}, desc)
	})

	t.Run("should return not found for unknown objects", func(t *testing.T) {
		_, err := repo.DescribeObject(ctx, "Opportunity")
		assert.True(t, errors.Is(err, metadata.ErrObjectNotFound))
	})

	t.Run("should report installed namespaces", func(t *testing.T) {
		installed, err := repo.NamespaceInstalled(ctx, "public")
		require.NoError(t, err)
		assert.True(t, installed)

		installed, err = repo.NamespaceInstalled(ctx, "npsp")
		require.NoError(t, err)
		assert.False(t, installed)
	})

	t.Run("should return the database and current user", func(t *testing.T) {
		org, err := repo.Organization(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, org.ID)
		assert.Equal(t, testutils.PGName, org.Name)
		assert.Equal(t, testutils.PGUsername, org.UserName)
	})
}

func TestNewDescribeRepository(t *testing.T) {
	_, err := postgres.NewDescribeRepository(nil)
	assert.Error(t, err)
}
