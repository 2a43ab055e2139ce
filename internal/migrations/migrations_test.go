// AngelaMos | 2026
// migrations_test.go

package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreAnnotated(t *testing.T) {
	entries, err := fs.ReadDir(files, dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		body, err := fs.ReadFile(files, dir+"/"+e.Name())
		require.NoError(t, err)
		assert.Contains(t, string(body), "-- +goose Up", e.Name())
		assert.Contains(t, string(body), "-- +goose Down", e.Name())
	}
}

func TestSchemaCarriesConstraintsRepositoriesRely(t *testing.T) {
	var all strings.Builder
	entries, err := fs.ReadDir(files, dir)
	require.NoError(t, err)
	for _, e := range entries {
		body, err := fs.ReadFile(files, dir+"/"+e.Name())
		require.NoError(t, err)
		all.Write(body)
	}

	schema := all.String()
	assert.Contains(t, schema, "CONSTRAINT products_slug_key UNIQUE (slug)")
	assert.Contains(t, schema, "UNIQUE (user_id, product_id)")
	assert.Contains(t, schema, "REFERENCES video_assets (id) ON DELETE RESTRICT")
	assert.Contains(t, schema, "CREATE TABLE webhook_events")
}

func TestPurchasesOutliveTheirParents(t *testing.T) {
	body, err := fs.ReadFile(files, dir+"/00003_create_purchases.sql")
	require.NoError(t, err)

	schema := string(body)
	assert.Contains(t, schema, "REFERENCES users (id) ON DELETE RESTRICT")
	assert.Contains(t, schema, "REFERENCES products (id) ON DELETE RESTRICT")
	assert.NotContains(t, schema, "CASCADE")
}
