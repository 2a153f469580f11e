package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tenant_id: t1
products:
  - id: p1
    name: ERP Cloud
    target_activity_codes: ["62"]
    target_sectors: ["Serviços"]
  - id: p2
    name: Legacy Suite
    active: false
`), 0o644))

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "t1", f.TenantID)
	require.Len(t, f.Products, 2)
	// Omitted flag defaults to active; an explicit false stays false.
	assert.True(t, f.Products[0].Active)
	assert.False(t, f.Products[1].Active)
	assert.Equal(t, []string{"62"}, f.Products[0].TargetActivityCodes)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/catalog.yaml")
	assert.Error(t, err)
}
