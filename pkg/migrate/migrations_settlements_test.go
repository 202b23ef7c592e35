package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/deliveryservices/backend/pkg/migrate"
)

func TestSettlementMigrationsContainConstraints(t *testing.T) {
	cases := map[string][]string{
		"*_create_merchant_payouts.sql": {
			"CREATE TABLE IF NOT EXISTS merchant_payouts",
			"CHECK (amount > 0)",
			"FOREIGN KEY (merchant_id) REFERENCES merchants(id) ON DELETE CASCADE",
			"DROP TABLE IF EXISTS merchant_payouts",
		},
		"*_create_driver_salary_payments.sql": {
			"CREATE TABLE IF NOT EXISTS driver_salary_payments",
			"CHECK (amount > 0)",
			"CHECK (deliveries_count >= 0)",
			"FOREIGN KEY (driver_id) REFERENCES drivers(id) ON DELETE CASCADE",
			"DROP TABLE IF EXISTS driver_salary_payments",
		},
	}

	for pattern, checks := range cases {
		matches, err := filepath.Glob(filepath.Join("migrations", pattern))
		if err != nil {
			t.Fatalf("glob %s: %v", pattern, err)
		}
		if len(matches) == 0 {
			t.Fatalf("no migration matches %s", pattern)
		}

		data, err := os.ReadFile(matches[0])
		if err != nil {
			t.Fatalf("read migration file: %v", err)
		}
		content := string(data)

		for _, sub := range checks {
			if !strings.Contains(content, sub) {
				t.Errorf("%s: missing expected statement %q", pattern, sub)
			}
		}
	}
}

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}
