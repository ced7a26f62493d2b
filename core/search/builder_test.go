package search_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/goto/finder/core/metadata"
	metadatamocks "github.com/goto/finder/core/metadata/mocks"
	"github.com/goto/finder/core/search"
	"github.com/goto/finder/core/search/mocks"
	"github.com/goto/finder/pkg/statsd"
	"github.com/goto/salt/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newBuilder(t *testing.T, exec search.Executor, opts ...search.Option) *search.QueryBuilder {
	t.Helper()
	opts = append([]search.Option{search.WithLogger(log.NewNoop())}, opts...)
	return search.NewQueryBuilder(exec, opts...)
}

func TestQueryBuilder_SetSearchObjects(t *testing.T) {
	ctx := context.Background()

	t.Run("should fail on empty list", func(t *testing.T) {
		b := newBuilder(t, mocks.NewExecutor(t))
		err := b.SetSearchObjects()
		assert.ErrorIs(t, err, search.ErrInvalidArgument)
	})

	t.Run("should fail on blank name", func(t *testing.T) {
		b := newBuilder(t, mocks.NewExecutor(t))
		err := b.SetSearchObjects("Account", " ")
		assert.ErrorIs(t, err, search.ErrInvalidArgument)
	})

	t.Run("should collapse duplicate names", func(t *testing.T) {
		b := newBuilder(t, mocks.NewExecutor(t))
		require.NoError(t, b.SetSearchObjects("Contact", "Account", "Contact"))
		assert.Equal(t, []string{"Account", "Contact"}, b.SearchObjects())
	})

	t.Run("should keep names case sensitive", func(t *testing.T) {
		b := newBuilder(t, mocks.NewExecutor(t))
		require.NoError(t, b.SetSearchObjects("Account", "account"))
		assert.Len(t, b.SearchObjects(), 2)
	})

	t.Run("should reset options of every object on re-registration", func(t *testing.T) {
		b := newBuilder(t, mocks.NewExecutor(t))
		require.NoError(t, b.SetSearchObjects("Account", "Contact"))
		require.NoError(t, b.SetFieldsForObject(ctx, "Account", "Name"))
		require.NoError(t, b.SetConditionForObject("Account", "Name != null"))
		require.NoError(t, b.SetLimitForObject("Account", 5))
		require.NoError(t, b.SetLimitForObject("Contact", 5))

		require.NoError(t, b.SetSearchObjects("Account", "Lead"))

		opts, err := b.Options("Account")
		require.NoError(t, err)
		assert.Equal(t, search.ObjectOptions{Fields: []string{"Id"}}, opts)

		_, err = b.Options("Contact")
		assert.ErrorAs(t, err, &search.UnknownObjectError{})
		assert.Equal(t, []string{"Account", "Lead"}, b.SearchObjects())
	})

	t.Run("should return equal sets when called twice", func(t *testing.T) {
		b := newBuilder(t, mocks.NewExecutor(t))
		require.NoError(t, b.SetSearchObjects("Lead", "Account", "Contact"))
		assert.Equal(t, b.SearchObjects(), b.SearchObjects())
	})
}

func TestQueryBuilder_SetFieldsForObject(t *testing.T) {
	ctx := context.Background()

	type testCase struct {
		Description string
		Fields      []string
		Expected    []string
	}

	var testCases = []testCase{
		{
			Description: "should put identifier first",
			Fields:      []string{"Name", "BillingCity"},
			Expected:    []string{"Id", "Name", "BillingCity"},
		},
		{
			Description: "should skip identifier given in another casing and position",
			Fields:      []string{"Name", "ID", "Email", "id"},
			Expected:    []string{"Id", "Name", "Email"},
		},
		{
			Description: "should skip repeated and blank fields",
			Fields:      []string{"Name", "", "name", "Phone"},
			Expected:    []string{"Id", "Name", "Phone"},
		},
		{
			Description: "should keep only identifier for empty input",
			Fields:      nil,
			Expected:    []string{"Id"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			b := newBuilder(t, mocks.NewExecutor(t))
			require.NoError(t, b.SetSearchObjects("Account"))
			require.NoError(t, b.SetFieldsForObject(ctx, "Account", tc.Fields...))

			opts, err := b.Options("Account")
			require.NoError(t, err)
			if diff := cmp.Diff(tc.Expected, opts.Fields); diff != "" {
				t.Errorf("unexpected fields (-want +got):\n%s", diff)
			}
		})
	}

	t.Run("should replace fields set earlier", func(t *testing.T) {
		b := newBuilder(t, mocks.NewExecutor(t))
		require.NoError(t, b.SetSearchObjects("Account"))
		require.NoError(t, b.SetFieldsForObject(ctx, "Account", "Name", "Phone"))
		require.NoError(t, b.SetFieldsForObject(ctx, "Account", "Id", "Website"))

		opts, err := b.Options("Account")
		require.NoError(t, err)
		assert.Equal(t, []string{"Id", "Website"}, opts.Fields)
	})

	t.Run("should fail for unregistered object", func(t *testing.T) {
		b := newBuilder(t, mocks.NewExecutor(t))
		require.NoError(t, b.SetSearchObjects("Account"))

		err := b.SetFieldsForObject(ctx, "Contact", "Email")
		assert.EqualError(t, err, `unknown search object: "Contact"`)
	})
}

func TestQueryBuilder_SetFieldsForObjectWithDescriber(t *testing.T) {
	ctx := context.Background()
	account := metadata.ObjectDescription{
		Name: "Account",
		Fields: []metadata.Field{
			{Name: "Id"},
			{Name: "Name"},
			{Name: "BillingCity", Nillable: true},
		},
	}

	t.Run("should accept known fields ignoring case", func(t *testing.T) {
		d := metadatamocks.NewDescriber(t)
		d.EXPECT().DescribeObject(ctx, "Account").Return(account, nil)

		b := newBuilder(t, mocks.NewExecutor(t), search.WithDescriber(d))
		require.NoError(t, b.SetSearchObjects("Account"))
		assert.NoError(t, b.SetFieldsForObject(ctx, "Account", "name", "BillingCity", "ID"))
	})

	t.Run("should reject unknown field and keep previous fields", func(t *testing.T) {
		d := metadatamocks.NewDescriber(t)
		d.EXPECT().DescribeObject(ctx, "Account").Return(account, nil)

		b := newBuilder(t, mocks.NewExecutor(t), search.WithDescriber(d))
		require.NoError(t, b.SetSearchObjects("Account"))

		err := b.SetFieldsForObject(ctx, "Account", "Name", "Revenue")
		assert.Equal(t, search.UnknownFieldError{Object: "Account", Field: "Revenue"}, err)

		opts, err := b.Options("Account")
		require.NoError(t, err)
		assert.Equal(t, []string{"Id"}, opts.Fields)
	})

	t.Run("should wrap describer error", func(t *testing.T) {
		d := metadatamocks.NewDescriber(t)
		d.EXPECT().DescribeObject(ctx, "Account").Return(metadata.ObjectDescription{}, metadata.NotFoundError{Object: "Account"})

		b := newBuilder(t, mocks.NewExecutor(t), search.WithDescriber(d))
		require.NoError(t, b.SetSearchObjects("Account"))

		err := b.SetFieldsForObject(ctx, "Account", "Name")
		assert.ErrorIs(t, err, metadata.ErrObjectNotFound)
	})
}

func TestQueryBuilder_SetLimitForObject(t *testing.T) {
	for _, limit := range []int{0, -5} {
		b := newBuilder(t, mocks.NewExecutor(t))
		require.NoError(t, b.SetSearchObjects("Account"))

		err := b.SetLimitForObject("Account", limit)
		assert.ErrorIs(t, err, search.ErrInvalidArgument)
	}

	b := newBuilder(t, mocks.NewExecutor(t))
	require.NoError(t, b.SetSearchScope(search.ScopeAllFields))
	require.NoError(t, b.SetSearchObjects("Account"))
	require.NoError(t, b.SetLimitForObject("Account", 25))

	q, err := b.Query("Acme")
	require.NoError(t, err)
	assert.Equal(t, "FIND 'Acme' IN ALL FIELDS RETURNING Account (Id LIMIT 25)", q)

	err = b.SetLimitForObject("Contact", 25)
	assert.ErrorAs(t, err, &search.UnknownObjectError{})
}

func TestQueryBuilder_SetConditionForObject(t *testing.T) {
	b := newBuilder(t, mocks.NewExecutor(t))
	require.NoError(t, b.SetSearchObjects("Account"))

	err := b.SetConditionForObject("Lead", "Status = 'Open'")
	assert.Equal(t, search.UnknownObjectError{Name: "Lead"}, err)

	require.NoError(t, b.SetConditionForObject("Account", "Name LIKE 'Ac%'"))
	opts, err := b.Options("Account")
	require.NoError(t, err)
	assert.Equal(t, "Name LIKE 'Ac%'", opts.Condition)
}

func TestQueryBuilder_SetSearchScope(t *testing.T) {
	b := newBuilder(t, mocks.NewExecutor(t))
	assert.ErrorIs(t, b.SetSearchScope("EVERYTHING"), search.ErrInvalidArgument)
	assert.Equal(t, search.Scope(""), b.Scope())

	require.NoError(t, b.SetSearchScope(search.ScopeNameFields))
	assert.Equal(t, search.ScopeNameFields, b.Scope())
}

func TestQueryBuilder_Query(t *testing.T) {
	ctx := context.Background()

	type testCase struct {
		Description string
		Setup       func(*testing.T, *search.QueryBuilder)
		Term        string
		Expected    string
		Err         error
	}

	var testCases = []testCase{
		{
			Description: "should fail when nothing is configured",
			Setup:       func(t *testing.T, b *search.QueryBuilder) {},
			Err:         search.ErrNotConfigured,
		},
		{
			Description: "should fail without scope",
			Setup: func(t *testing.T, b *search.QueryBuilder) {
				require.NoError(t, b.SetSearchObjects("Account"))
			},
			Err: search.ErrNotConfigured,
		},
		{
			Description: "should fail without objects",
			Setup: func(t *testing.T, b *search.QueryBuilder) {
				require.NoError(t, b.SetSearchScope(search.ScopeAllFields))
			},
			Err: search.ErrNotConfigured,
		},
		{
			Description: "should render default clause with identifier only",
			Setup: func(t *testing.T, b *search.QueryBuilder) {
				require.NoError(t, b.SetSearchScope(search.ScopeNameFields))
				require.NoError(t, b.SetSearchObjects("Account"))
			},
			Term:     "Acme",
			Expected: "FIND 'Acme' IN NAME FIELDS RETURNING Account (Id)",
		},
		{
			Description: "should omit blank condition",
			Setup: func(t *testing.T, b *search.QueryBuilder) {
				require.NoError(t, b.SetSearchScope(search.ScopeEmailFields))
				require.NoError(t, b.SetSearchObjects("Contact"))
				require.NoError(t, b.SetConditionForObject("Contact", "   "))
			},
			Term:     "jane@example.com",
			Expected: "FIND 'jane@example.com' IN EMAIL FIELDS RETURNING Contact (Id)",
		},
		{
			Description: "should render every clause in registration order",
			Setup: func(t *testing.T, b *search.QueryBuilder) {
				require.NoError(t, b.SetSearchScope(search.ScopeAllFields))
				require.NoError(t, b.SetSearchObjects("Account", "Contact", "Lead"))
				require.NoError(t, b.SetFieldsForObject(ctx, "Account", "Name", "BillingCity"))
				require.NoError(t, b.SetConditionForObject("Account", "CreatedDate <= TODAY"))
				require.NoError(t, b.SetLimitForObject("Account", 25))
				require.NoError(t, b.SetFieldsForObject(ctx, "Contact", "Email"))
				require.NoError(t, b.SetConditionForObject("Lead", "Status = 'Open'"))
			},
			Term: "Acme",
			Expected: "FIND 'Acme' IN ALL FIELDS RETURNING " +
				"Account (Id, Name, BillingCity WHERE CreatedDate <= TODAY LIMIT 25), " +
				"Contact (Id, Email), " +
				"Lead (Id WHERE Status = 'Open')",
		},
		{
			Description: "should not escape quotes inside the term",
			Setup: func(t *testing.T, b *search.QueryBuilder) {
				require.NoError(t, b.SetSearchScope(search.ScopeAllFields))
				require.NoError(t, b.SetSearchObjects("Account"))
			},
			Term:     "O'Brien",
			Expected: "FIND 'O'Brien' IN ALL FIELDS RETURNING Account (Id)",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.Description, func(t *testing.T) {
			b := newBuilder(t, mocks.NewExecutor(t))
			tc.Setup(t, b)

			got, err := b.Query(tc.Term)
			if tc.Err != nil {
				assert.ErrorIs(t, err, tc.Err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Expected, got)
		})
	}
}

func TestQueryBuilder_Find(t *testing.T) {
	ctx := context.Background()
	const query = "FIND 'Acme' IN ALL FIELDS RETURNING " +
		"Account (Id, Name, BillingCity WHERE CreatedDate <= TODAY LIMIT 25), Contact (Id, Email)"

	configure := func(t *testing.T, b *search.QueryBuilder) {
		t.Helper()
		require.NoError(t, b.SetSearchScope(search.ScopeAllFields))
		require.NoError(t, b.SetSearchObjects("Account", "Contact"))
		require.NoError(t, b.SetFieldsForObject(ctx, "Account", "Name", "BillingCity"))
		require.NoError(t, b.SetConditionForObject("Account", "CreatedDate <= TODAY"))
		require.NoError(t, b.SetLimitForObject("Account", 25))
		require.NoError(t, b.SetFieldsForObject(ctx, "Contact", "Email"))
	}

	acme := search.Record{
		Type:   "Account",
		ID:     "001",
		Fields: map[string]interface{}{"Name": "Acme", "BillingCity": "Springfield"},
	}

	t.Run("should return not configured before executing", func(t *testing.T) {
		exec := mocks.NewExecutor(t)
		b := newBuilder(t, exec)

		ok, err := b.Find(ctx, "Acme")
		assert.False(t, ok)
		assert.ErrorIs(t, err, search.ErrNotConfigured)
	})

	t.Run("should compose but not find without an executor", func(t *testing.T) {
		b := newBuilder(t, nil)
		configure(t, b)

		got, err := b.Query("Acme")
		require.NoError(t, err)
		assert.Equal(t, query, got)

		ok, err := b.Find(ctx, "Acme")
		assert.False(t, ok)
		assert.ErrorIs(t, err, search.ErrNotConfigured)
		assert.Empty(t, b.LastError())
	})

	t.Run("should partition records by type and drop empty groups", func(t *testing.T) {
		exec := mocks.NewExecutor(t)
		exec.EXPECT().Execute(ctx, query).Return([]search.RecordGroup{{acme}, {}}, nil)

		b := newBuilder(t, exec, search.WithStatsDReporter(&statsd.Reporter{}))
		configure(t, b)

		ok, err := b.Find(ctx, "Acme")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, b.LastError())

		assert.Equal(t, []search.Record{acme}, b.ResultsForObject("Account"))
		assert.Empty(t, b.ResultsForObject("Contact"))
		assert.Len(t, b.Results(), 1)
		_, hasContact := b.Results()["Contact"]
		assert.False(t, hasContact)
	})

	t.Run("should use record type rather than group position", func(t *testing.T) {
		exec := mocks.NewExecutor(t)
		exec.EXPECT().Execute(ctx, query).Return([]search.RecordGroup{
			{{Type: "contact", ID: "003"}},
			{{Type: "Account", ID: "001"}, {Type: "Account", ID: "002"}},
		}, nil)

		b := newBuilder(t, exec)
		configure(t, b)

		ok, err := b.Find(ctx, "Acme")
		require.NoError(t, err)
		require.True(t, ok)

		expected := search.Results{
			"Account": {{Type: "Account", ID: "001"}, {Type: "Account", ID: "002"}},
			"Contact": {{Type: "Contact", ID: "003"}},
		}
		if diff := cmp.Diff(expected, b.Results()); diff != "" {
			t.Errorf("unexpected results (-want +got):\n%s", diff)
		}
	})

	t.Run("should keep previous results and capture error on failure", func(t *testing.T) {
		exec := mocks.NewExecutor(t)
		exec.EXPECT().Execute(ctx, query).Return([]search.RecordGroup{{acme}}, nil).Once()

		b := newBuilder(t, exec)
		configure(t, b)
		ok, err := b.Find(ctx, "Acme")
		require.NoError(t, err)
		require.True(t, ok)
		before := b.Results()

		const failing = "FIND 'x' IN ALL FIELDS RETURNING " +
			"Account (Id, Name, BillingCity WHERE CreatedDate <= TODAY LIMIT 25), Contact (Id, Email)"
		exec.EXPECT().Execute(ctx, failing).Return(nil, errors.New("malformed query")).Once()

		ok, err = b.Find(ctx, "x")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "malformed query", b.LastError())
		assert.Equal(t, before, b.Results())
	})

	t.Run("should clear last error after success", func(t *testing.T) {
		exec := mocks.NewExecutor(t)
		exec.EXPECT().Execute(ctx, query).Return(nil, errors.New("timeout")).Once()
		exec.EXPECT().Execute(ctx, query).Return([]search.RecordGroup{{acme}}, nil).Once()

		b := newBuilder(t, exec)
		configure(t, b)

		ok, err := b.Find(ctx, "Acme")
		require.NoError(t, err)
		require.False(t, ok)
		assert.Equal(t, "timeout", b.LastError())
		assert.Empty(t, b.Results())

		ok, err = b.Find(ctx, "Acme")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Empty(t, b.LastError())
	})

	t.Run("should replace results instead of merging", func(t *testing.T) {
		exec := mocks.NewExecutor(t)
		exec.EXPECT().Execute(ctx, mock.Anything).Return([]search.RecordGroup{{acme}}, nil).Once()
		exec.EXPECT().Execute(ctx, mock.Anything).Return([]search.RecordGroup{{{Type: "Contact", ID: "003"}}}, nil).Once()

		b := newBuilder(t, exec)
		configure(t, b)

		_, err := b.Find(ctx, "Acme")
		require.NoError(t, err)
		_, err = b.Find(ctx, "Jane")
		require.NoError(t, err)

		assert.Nil(t, b.ResultsForObject("Account"))
		assert.Len(t, b.ResultsForObject("Contact"), 1)
	})

	t.Run("should hand out snapshots", func(t *testing.T) {
		exec := mocks.NewExecutor(t)
		exec.EXPECT().Execute(ctx, query).Return([]search.RecordGroup{{acme}}, nil)

		b := newBuilder(t, exec)
		configure(t, b)
		_, err := b.Find(ctx, "Acme")
		require.NoError(t, err)

		snapshot := b.Results()
		snapshot["Account"][0].Fields["Name"] = "changed"
		delete(snapshot, "Account")

		got := b.ResultsForObject("Account")
		require.Len(t, got, 1)
		assert.Equal(t, "Acme", got[0].Fields["Name"])
	})
}
