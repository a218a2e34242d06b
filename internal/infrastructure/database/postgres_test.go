package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationSource(t *testing.T) {
	found, err := MigrationSource().FindMigrations()

	require.NoError(t, err)
	require.NotEmpty(t, found)
	assert.Equal(t, "001_create_processing_runs.sql", found[0].Id)
	assert.NotEmpty(t, found[0].Up)
	assert.NotEmpty(t, found[0].Down)
}
