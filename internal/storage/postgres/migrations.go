package postgres

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// Migrations holds the schema migrations in golang-migrate file naming.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the SQL files.
const MigrationsDir = "migrations"

// UpScripts returns the contents of every *.up.sql migration in version order.
//
// Postcondition: Returns at least one script or a non-nil error.
func UpScripts() ([]string, error) {
	names, err := fs.Glob(Migrations, MigrationsDir+"/*.up.sql")
	if err != nil {
		return nil, fmt.Errorf("listing migrations: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no up migrations embedded")
	}
	sort.Strings(names)

	scripts := make([]string, 0, len(names))
	for _, name := range names {
		data, err := Migrations.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", name, err)
		}
		scripts = append(scripts, strings.TrimSpace(string(data)))
	}
	return scripts, nil
}
