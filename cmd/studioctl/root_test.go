package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, *App, error) {
	t.Helper()

	app := &App{}
	cmd := newRootCmd(app)
	out := &bytes.Buffer{}

	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), app, err
}

func findSubcommand(root *cobra.Command, name string) *cobra.Command {
	for _, c := range root.Commands() {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

func TestRootHasCommands(t *testing.T) {
	root := newRootCmd(&App{})

	for _, name := range []string{"migrate", "create-admin", "create-client", "seed"} {
		assert.NotNil(t, findSubcommand(root, name), name)
	}

	assert.NotNil(t, root.PersistentFlags().Lookup("dsn"))
	assert.NotNil(t, root.PersistentFlags().Lookup("bcrypt-cost"))
}

func TestMigrateCreatesDataDir(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "nested", "studio.db")

	out, _, err := run(t, "migrate", "--dsn", dsn)
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")
	assert.DirExists(t, filepath.Dir(dsn[len("file:"):]))
}

func TestCreateAdmin(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "studio.db")

	out, app, err := run(t, "create-admin", "--dsn", dsn, "--bcrypt-cost", "4",
		"--email", "Owner@Example.com", "--name", "Owner", "--password", "correct-horse")
	require.NoError(t, err)
	assert.Contains(t, out, "created admin owner@example.com")

	profile, err := app.profileService.Authenticate("owner@example.com", "correct-horse")
	require.NoError(t, err)
	assert.True(t, profile.IsAdmin())
}

func TestCreateAdminRequiresStrongPassword(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "studio.db")

	_, _, err := run(t, "create-admin", "--dsn", dsn, "--email", "a@example.com", "--name", "A", "--password", "short")
	assert.Error(t, err)
}

func TestCreateClient(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "studio.db")

	out, app, err := run(t, "create-client", "--dsn", dsn, "--name", "The Smiths", "--code", "smith-2026")
	require.NoError(t, err)
	assert.Contains(t, out, "created client The Smiths")

	client, err := app.clientService.GetByPassword("smith-2026")
	require.NoError(t, err)
	assert.Equal(t, "The Smiths", client.Name)
}

func TestCreateClientRequiresCode(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "studio.db")

	_, _, err := run(t, "create-client", "--dsn", dsn, "--name", "The Smiths")
	assert.Error(t, err)
}

func TestSeed(t *testing.T) {
	dir := t.TempDir()
	dsn := filepath.Join(dir, "studio.db")
	seedFile := filepath.Join(dir, "seed.yaml")

	require.NoError(t, os.WriteFile(seedFile, []byte(`
clients:
  - name: The Smiths
    accessCode: smith-2026
shoots:
  - title: Smith Wedding
    client: smith-2026
`), 0o644))

	out, _, err := run(t, "seed", "--dsn", dsn, "--file", seedFile)
	require.NoError(t, err)
	assert.Contains(t, out, "1 clients, 1 shoots")

	out, app, err := run(t, "seed", "--dsn", dsn, "-f", seedFile)
	require.NoError(t, err)
	assert.Contains(t, out, "(2 already present)")

	shoots, err := app.shootService.ListAll()
	require.NoError(t, err)
	assert.Len(t, shoots, 1)
}

func TestSeedMissingFile(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "studio.db")

	_, _, err := run(t, "seed", "--dsn", dsn, "--file", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
