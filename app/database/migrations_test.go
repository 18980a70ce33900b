package database

import (
	"strings"
	"testing"
)

func TestEmbeddedMigrationsPaired(t *testing.T) {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) == 0 {
		t.Fatal("Expected embedded migration files")
	}

	ups := make(map[string]bool)
	downs := make(map[string]bool)
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("Unexpected migration file '%s'", name)
		}
	}

	for base := range ups {
		if !downs[base] {
			t.Errorf("Migration '%s' has no down counterpart", base)
		}
	}
	for base := range downs {
		if !ups[base] {
			t.Errorf("Migration '%s' has no up counterpart", base)
		}
	}
}

func TestInitialSchemaConstraints(t *testing.T) {
	data, err := migrationFS.ReadFile("migrations/000001_init.up.sql")
	if err != nil {
		t.Fatal(err)
	}
	schema := string(data)

	// Name uniqueness the service layer relies on.
	for _, constraint := range []string{
		"uq_folder_owner_name UNIQUE (userid, name)",
		"uq_subscription_folder_name UNIQUE (folderid, name)",
	} {
		if !strings.Contains(schema, constraint) {
			t.Errorf("Expected initial schema to declare '%s'", constraint)
		}
	}
}
