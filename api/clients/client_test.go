package clients

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearmark/ip-registry-backend/httpserver"
	"github.com/clearmark/ip-registry-backend/registry"
	"github.com/clearmark/ip-registry-backend/storage"
)

// startTestServer runs the real router over a real engine, no ledger.
func startTestServer(t *testing.T) *RegistryClient {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := registry.NewFileStore(filepath.Join(t.TempDir(), "registry.json"), logger)
	require.NoError(t, err)
	engine := registry.NewEngine(store, logger)

	uploader, err := storage.NewFileBackend(t.TempDir(), logger)
	require.NoError(t, err)

	handler := httpserver.NewHandler(engine, uploader, nil, "https://ipfs.filebase.io/ipfs", logger)
	srv, err := httpserver.New(&httpserver.HTTPServerConfig{ListenAddr: "127.0.0.1:0", Log: logger}, handler)
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return &RegistryClient{ServerAddr: ts.URL, Client: ts.Client()}
}

func TestClientRoundTrip(t *testing.T) {
	client := startTestServer(t)

	registered, err := client.Register("Blueprint A", "Test doc", "0xabc", "a.pdf", []byte("content"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), registered.Record.ID)
	assert.False(t, registered.IsDuplicate)

	// Re-registering the same bytes is a no-op returning the original.
	duplicate, err := client.Register("Other title", "", "0xother", "b.pdf", []byte("content"))
	require.NoError(t, err)
	assert.True(t, duplicate.IsDuplicate)
	assert.Equal(t, registered.Record.ID, duplicate.Record.ID)

	found, err := client.Search("blueprint")
	require.NoError(t, err)
	require.Len(t, found.Results, 1)

	got, err := client.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Blueprint A", got.Record.Title)

	transferred, err := client.Transfer(1, "0x999", "Sale")
	require.NoError(t, err)
	assert.Equal(t, "0x999", transferred.Record.Owner)

	licensed, err := client.SetLicense(1, "100", "30")
	require.NoError(t, err)
	require.Len(t, licensed.Record.Licenses, 1)
	assert.Equal(t, "100", licensed.Record.Licenses[0].Price.String())
}

func TestClientSurfacesServerErrors(t *testing.T) {
	client := startTestServer(t)

	_, err := client.Get(9999)
	assert.ErrorContains(t, err, "404")

	_, err = client.Transfer(1, "", "")
	assert.ErrorContains(t, err, "400")
}
