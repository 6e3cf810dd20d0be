package persistence

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_EmbeddedAndOrdered(t *testing.T) {
	names, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}

	content, err := migrationFS.ReadFile("migrations/" + names[0])
	require.NoError(t, err)
	for _, table := range []string{"admin_users", "grievances", "assignment_history", "activity_logs", "notifications"} {
		assert.True(t, strings.Contains(string(content), table), "missing table %s", table)
	}
}
