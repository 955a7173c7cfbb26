package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"kitflip/internal/infrastructure/catalog"
)

func TestLoadWeaponNames(t *testing.T) {
	rq := require.New(t)

	names, err := catalog.LoadWeaponNames(filepath.Join("testdata", "weapons.txt"))
	rq.NoError(err)
	rq.Equal([]string{"Scattergun", "Rocket Launcher", "Minigun", "Scattergun"}, names)

	_, err = catalog.LoadWeaponNames(filepath.Join("testdata", "missing.txt"))
	rq.Error(err)
}

func TestLoadSchema(t *testing.T) {
	rq := require.New(t)

	schema, err := catalog.LoadSchema(filepath.Join("testdata", "schema.json"))
	rq.NoError(err)
	rq.Equal(5, schema.Len())

	testCases := map[string]string{
		"Killstreak Rocket Launcher":              "205;6;kt-1",
		"Non-Craftable Killstreak Scattergun Kit": "6527;6;uncraftable;kt-1;td-200",
		"Strange Specialized Killstreak Minigun":  "202;11;kt-2",
		"Festive Rocket Launcher":                 "658;6",
	}

	for name, want := range testCases {
		got, err := schema.ParseName(name)
		rq.NoError(err, name)
		rq.Equal(want, got, name)
	}
}

func TestLoadSchemaFlatItems(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "schema.json")
	rq.NoError(os.WriteFile(path, []byte(`{"items":[{"defindex":205,"name":"x","item_name":"Rocket Launcher"}]}`), 0o600))

	schema, err := catalog.LoadSchema(path)
	rq.NoError(err)
	rq.Equal(1, schema.Len())
}

func TestLoadSchemaErrors(t *testing.T) {
	rq := require.New(t)

	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.json")
	rq.NoError(os.WriteFile(empty, []byte(`{"result":{"items":[]}}`), 0o600))

	broken := filepath.Join(dir, "broken.json")
	rq.NoError(os.WriteFile(broken, []byte(`{"result":`), 0o600))

	for _, path := range []string{empty, broken, filepath.Join(dir, "missing.json")} {
		_, err := catalog.LoadSchema(path)
		rq.Error(err, path)
	}
}
