package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrations_AreIdempotent(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Migrations {
		assert.False(t, seen[m.Name], "duplicate migration %s", m.Name)
		seen[m.Name] = true
		assert.Contains(t, strings.ToUpper(m.Query), "IF NOT EXISTS", m.Name)
	}
	assert.Equal(t, "create_compile_jobs", Migrations[0].Name)
}
