package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the schema for the catalog and the key-value slots.
var Migrations = migrate.NewMigrations()
