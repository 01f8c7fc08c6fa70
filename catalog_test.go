package gfxtrace

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestCatalog(t *testing.T) (*Catalog, []string) {
	t.Helper()
	data, err := os.ReadFile("testdata/catalog.yaml")
	require.NoError(t, err)
	cat, warnings, err := LoadCatalogBytes(data, NewGenOptions())
	require.NoError(t, err)
	return cat, warnings
}

func TestLoadCatalogBytes_Bins(t *testing.T) {
	cat, _ := loadTestCatalog(t)

	require.Len(t, cat.StateClasses, 1)
	sc := cat.StateClasses[0]
	assert.Equal(t, "ContextState", sc.Name)
	assert.Len(t, sc.Members, 5)
	assert.Len(t, sc.Data, 1)
	assert.Equal(t, "OwnerThread", sc.Data[0].Name)

	assert.NotEmpty(t, cat.Actions)
	assert.Len(t, cat.Unsupported, 1)
	assert.Equal(t, "glBegin", cat.Unsupported[0].Name)
	assert.False(t, cat.Unsupported[0].Supported)
}

func TestLoadCatalogBytes_SortedByName(t *testing.T) {
	cat, _ := loadTestCatalog(t)
	all := cat.AllEntriesSorted()
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Name, all[i].Name)
	}
}

func TestLoadCatalogBytes_DuplicateEntryIsFatal(t *testing.T) {
	data := []byte(`
actions:
  entries:
    - name: glFoo
      args: ["GLenum_x"]
unsupported:
  entries:
    - name: glFoo
      args: ["GLenum_x"]
`)
	_, _, err := LoadCatalogBytes(data, NewGenOptions())
	require.Error(t, err)
	var catErr CatalogError
	require.ErrorAs(t, err, &catErr)
	assert.Contains(t, catErr.Names, "glFoo")
}

func TestLoadCatalogBytes_NestedStateClassUnderActionsIsFatal(t *testing.T) {
	data := []byte(`
actions:
  state_classes:
    - name: Bogus
      entries:
        - name: glFoo
          args: ["GLenum_x"]
`)
	_, _, err := LoadCatalogBytes(data, NewGenOptions())
	require.Error(t, err)
}

func TestLoadCatalogBytes_MultiStateUnknownControllingArgIsFatal(t *testing.T) {
	data := []byte(`
actions:
  entries:
    - name: glLight
      args: ["GLenum_light", "GLenum_pname", "GLfloat_ptr_params"]
      multi_state:
        controlling_arg: notAnArg
        default_ctype: GLfloat
`)
	_, _, err := LoadCatalogBytes(data, NewGenOptions())
	require.Error(t, err)
}

func TestLoadCatalogBytes_AliasToUnknownEntryWarns(t *testing.T) {
	data := []byte(`
actions:
  entries:
    - name: glFoo
      alias: glDoesNotExist
      args: ["GLenum_x"]
`)
	_, warnings, err := LoadCatalogBytes(data, NewGenOptions())
	require.NoError(t, err)
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0], "glDoesNotExist")
}

func TestLoadCatalogBytes_ManualStateWithoutRestoreWarns(t *testing.T) {
	_, warnings, err := loadCatalogForWarningCheck(t)
	require.NoError(t, err)
	found := false
	for _, w := range warnings {
		if strings.Contains(w, "glBindTexture") && strings.Contains(w, "manual_state") {
			found = true
		}
	}
	assert.True(t, found)
}

func loadCatalogForWarningCheck(t *testing.T) (*Catalog, []string, error) {
	t.Helper()
	data, err := os.ReadFile("testdata/catalog.yaml")
	require.NoError(t, err)
	return LoadCatalogBytes(data, NewGenOptions())
}
