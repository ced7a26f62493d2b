package postgres_test

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/goto/finder/core/search"
	"github.com/goto/finder/internal/store/postgres"
	"github.com/goto/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRepository(t *testing.T) {
	ctx := context.Background()
	logger := log.NewNoop()
	client := newTestClient(t, logger)

	repo, err := postgres.NewSearchRepository(client, logger, nil)
	require.NoError(t, err)

	t.Run("should return one group per object typed by table", func(t *testing.T) {
		groups, err := repo.Execute(ctx, "FIND 'acme' IN ALL FIELDS RETURNING Account (Id, Name), Contact (Id, Email)")
		require.NoError(t, err)
		require.Len(t, groups, 2)

		ids := make([]string, 0, len(groups[0]))
		for _, rec := range groups[0] {
			assert.Equal(t, "Account", rec.Type)
			ids = append(ids, rec.ID)
		}
		sort.Strings(ids)
		assert.Equal(t, []string{"001A", "001B", "001C"}, ids)

		require.Len(t, groups[1], 1)
		assert.Equal(t, search.Record{
			Type:   "Contact",
			ID:     "003A",
			Fields: map[string]interface{}{"Id": "003A", "Email": "wile@acme.test"},
		}, groups[1][0])
	})

	t.Run("should apply scope condition and limit", func(t *testing.T) {
		groups, err := repo.Execute(ctx, "FIND 'acme' IN NAME FIELDS RETURNING Account (Id WHERE type = 'Customer' LIMIT 5)")
		require.NoError(t, err)
		require.Len(t, groups, 1)
		require.Len(t, groups[0], 1)
		assert.Equal(t, "001A", groups[0][0].ID)
	})

	t.Run("should return empty group when scope has no column", func(t *testing.T) {
		groups, err := repo.Execute(ctx, "FIND 'acme' IN EMAIL FIELDS RETURNING Account (Id)")
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Empty(t, groups[0])
	})

	t.Run("should fail for unknown tables", func(t *testing.T) {
		_, err := repo.Execute(ctx, "FIND 'acme' IN ALL FIELDS RETURNING Opportunity (Id)")

		var execErr search.ExecutionError
		require.True(t, errors.As(err, &execErr))
		assert.Equal(t, "Opportunity", execErr.Object)
	})

	t.Run("should fail on invalid conditions", func(t *testing.T) {
		_, err := repo.Execute(ctx, "FIND 'acme' IN ALL FIELDS RETURNING Account (Id WHERE no_such_column = 1)")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "undefined column")
	})

	t.Run("should run searches composed by the query builder", func(t *testing.T) {
		b := search.NewQueryBuilder(repo)
		require.NoError(t, b.SetSearchScope(search.ScopeSidebarFields))
		require.NoError(t, b.SetSearchObjects("Account", "Contact"))
		require.NoError(t, b.SetFieldsForObject(ctx, "Contact", "last_name"))
		require.NoError(t, b.SetLimitForObject("Account", 1))

		ok, err := b.Find(ctx, "runner")
		require.NoError(t, err)
		require.True(t, ok, b.LastError())

		assert.Nil(t, b.ResultsForObject("Account"))
		contacts := b.ResultsForObject("Contact")
		require.Len(t, contacts, 1)
		assert.Equal(t, "003B", contacts[0].ID)
	})
}
