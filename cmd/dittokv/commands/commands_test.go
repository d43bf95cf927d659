package commands

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/dittokv/pkg/api"
	"github.com/marmos91/dittokv/pkg/registry"
	"github.com/marmos91/dittokv/pkg/storage"
	"github.com/marmos91/dittokv/pkg/storage/heap"
)

const testConfig = `
api:
  enabled: false
stores:
  sessions:
    key_type: string
    value_type: string
  counters:
    key_type: int64
    value_type: int64
    heap:
      concurrency: 8
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		cfgFile = ""
		storesOutput = "table"
		versionShort = false
		initForce = false
		statusOutput = "table"
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dittokv "+Version)
	assert.Contains(t, out, runtime.Version())
}

func TestVersionShort(t *testing.T) {
	out, err := execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestStoresListJSON(t *testing.T) {
	path := writeConfig(t, testConfig)

	out, err := execute(t, "--config", path, "stores", "list", "--output", "json")
	require.NoError(t, err)

	var infos []registry.StoreInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 2)

	assert.Equal(t, "counters", infos[0].Alias)
	assert.Equal(t, "int64", infos[0].KeyType)
	assert.Equal(t, "int64", infos[0].ValueType)
	assert.Equal(t, "heap", infos[0].Tier)
	assert.Equal(t, "sessions", infos[1].Alias)
	assert.Equal(t, "string", infos[1].KeyType)
	assert.Zero(t, infos[1].Size)
}

func TestStoresListTable(t *testing.T) {
	path := writeConfig(t, testConfig)

	out, err := execute(t, "--config", path, "stores", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ALIAS")
	assert.Contains(t, out, "sessions")
	assert.Contains(t, out, "counters")
}

func TestStoresDescribe(t *testing.T) {
	path := writeConfig(t, testConfig)

	out, err := execute(t, "--config", path, "stores", "describe", "sessions", "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "alias: sessions")
	assert.Contains(t, out, "key_type: string")
}

func TestStoresDescribeUnknown(t *testing.T) {
	path := writeConfig(t, testConfig)

	_, err := execute(t, "--config", path, "stores", "describe", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"missing"`)
}

func TestStoresInvalidOutput(t *testing.T) {
	path := writeConfig(t, testConfig)

	_, err := execute(t, "--config", path, "stores", "list", "-o", "xml")
	assert.Error(t, err)
}

func TestStoresMissingConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	_, err := execute(t, "--config", path, "stores", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration file not found")
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dittokv", "config.yaml")

	out, err := execute(t, "--config", path, "init")
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	_, err = execute(t, "--config", path, "init")
	assert.Error(t, err)

	_, err = execute(t, "--config", path, "init", "--force")
	assert.NoError(t, err)
}

func TestInitThenList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	_, err := execute(t, "--config", path, "init")
	require.NoError(t, err)

	out, err := execute(t, "--config", path, "stores", "list", "-o", "json")
	require.NoError(t, err)

	var infos []registry.StoreInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 1)
	assert.Equal(t, "sessions", infos[0].Alias)
}

func newAPIServer(t *testing.T, start bool) string {
	t.Helper()

	reg := registry.New(heap.NewFactory(), map[string]storage.StoreConfig{
		"sessions": heap.NewConfig[string, string](),
	})
	t.Cleanup(reg.Shutdown)
	if start {
		require.NoError(t, reg.Start(t.Context()).Wait(t.Context()))
	}

	server := httptest.NewServer(api.NewRouter(reg, nil))
	t.Cleanup(server.Close)
	return server.URL
}

func TestStatusHealthy(t *testing.T) {
	url := newAPIServer(t, true)

	out, err := execute(t, "status", "--api-url", url, "-o", "json")
	require.NoError(t, err)

	var status ServerStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.True(t, status.Running)
	assert.True(t, status.Healthy)
	assert.Equal(t, "STARTED", status.State)
	require.Len(t, status.Stores, 1)
	assert.Equal(t, "sessions", status.Stores[0].Alias)
}

func TestStatusNotReady(t *testing.T) {
	url := newAPIServer(t, false)

	out, err := execute(t, "status", "--api-url", url)
	require.NoError(t, err)
	assert.Contains(t, out, "Running (not ready)")
	assert.Contains(t, out, "UNINITIALIZED")
}

func TestStatusNotRunning(t *testing.T) {
	server := httptest.NewServer(nil)
	url := server.URL
	server.Close()

	out, err := execute(t, "status", "--api-url", url, "-o", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "running: false")
	assert.Contains(t, out, "Server is not running")
}
