package database

import (
	"Inkwell/internal/api/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenDialector(t *testing.T) {
	d, err := openDialector(&config.DBConfig{DSN: "user:pass@tcp(localhost:3306)/inkwell"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	d, err = openDialector(&config.DBConfig{Driver: "postgres", DSN: "host=localhost user=inkwell dbname=inkwell"})
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	_, err = openDialector(&config.DBConfig{Driver: "sqlite"})
	assert.Error(t, err)
}
