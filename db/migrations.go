package db

import "embed"

// Migrations holds the goose SQL migrations compiled into the binary.
//
//go:embed migrations/*.sql
var Migrations embed.FS

const MigrationsDir = "migrations"
