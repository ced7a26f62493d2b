package postgres_test

import (
	"os"
	"testing"

	"github.com/goto/finder/internal/store/postgres"
	"github.com/goto/finder/internal/testutils"
	"github.com/goto/salt/log"
	_ "github.com/jackc/pgx/v4/stdlib"
)

const integrationEnv = "FINDER_PG_INTEGRATION"

var fixtures = []string{
	`CREATE TABLE account (
		id text PRIMARY KEY,
		name text NOT NULL,
		billing_city varchar(64),
		phone text,
		type text,
		employees integer
	)`,
	`CREATE TABLE contact (
		id text PRIMARY KEY,
		first_name text,
		last_name text NOT NULL,
		email text,
		account_id text REFERENCES account(id)
	)`,
	`INSERT INTO account (id, name, billing_city, phone, type, employees) VALUES
		('001A', 'Acme Corporation', 'Boston', '555-0100', 'Customer', 250),
		('001B', 'Acme Labs', 'Denver', '555-0101', 'Prospect', 12),
		('001C', 'Globex', 'Acme Falls', '555-0102', 'Customer', 900)`,
	`INSERT INTO contact (id, first_name, last_name, email, account_id) VALUES
		('003A', 'Wile', 'Coyote', 'wile@acme.test', '001A'),
		('003B', 'Road', 'Runner', 'road@runner.test', '001C')`,
}

func newTestClient(t *testing.T, logger log.Logger) *postgres.Client {
	t.Helper()

	if os.Getenv(integrationEnv) == "" {
		t.Skipf("set %s to run postgres integration tests", integrationEnv)
	}

	port, err := testutils.RunTestPG(t, logger)
	if err != nil {
		t.Fatal(err)
	}

	pgClient, err := postgres.NewClient(postgres.Config{
		Host:     testutils.PGHost,
		Port:     port,
		Name:     testutils.PGName,
		User:     testutils.PGUsername,
		Password: testutils.PGPassword,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := testutils.SeedTables(t, pgClient, fixtures...); err != nil {
		t.Fatal(err)
	}

	t.Cleanup(func() {
		if err := pgClient.Close(); err != nil {
			t.Fatal(err)
		}
	})

	return pgClient
}
