package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clearmark/ip-registry-backend/api"
	"github.com/clearmark/ip-registry-backend/interfaces"
	"github.com/clearmark/ip-registry-backend/ledger"
	"github.com/clearmark/ip-registry-backend/registry"
	"github.com/clearmark/ip-registry-backend/storage"
)

const testGatewayBase = "https://ipfs.filebase.io/ipfs"

// setupTestServer wires a real engine and file upload backend behind the
// router, with a mock ledger.
func setupTestServer(t *testing.T) (http.Handler, *ledger.MockLedger) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := registry.NewFileStore(filepath.Join(t.TempDir(), "registry.json"), logger)
	require.NoError(t, err)
	engine := registry.NewEngine(store, logger)

	uploader, err := storage.NewFileBackend(t.TempDir(), logger)
	require.NoError(t, err)

	mockLedger := new(ledger.MockLedger)

	handler := NewHandler(engine, uploader, mockLedger, testGatewayBase, logger)
	srv, err := New(&HTTPServerConfig{ListenAddr: "127.0.0.1:0", Log: logger}, handler)
	require.NoError(t, err)

	return srv.Router(), mockLedger
}

func multipartRequest(t *testing.T, target string, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func registerFields() map[string]string {
	return map[string]string{
		"title":       "Blueprint A",
		"description": "Test doc",
		"owner":       "0xabc",
	}
}

func TestHandleRegister_Success(t *testing.T) {
	router, mockLedger := setupTestServer(t)

	content := []byte("the blueprint")
	digest := interfaces.ComputeDigest(content)
	wantGateway := fmt.Sprintf("%s/%s", testGatewayBase, digest.String())

	mockLedger.On("MirrorRegistration", mock.Anything, digest.String(), wantGateway).
		Return(&interfaces.MirrorReceipt{TxHash: "0xdeadbeef"}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/ip/register", registerFields(), "a.pdf", content))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp api.RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Record.ID)
	assert.Equal(t, "Blueprint A", resp.Record.Title)
	assert.Equal(t, digest.String(), resp.Record.IPHash)
	assert.Equal(t, "0xabc", resp.Record.Owner)
	assert.False(t, resp.IsDuplicate)
	assert.Equal(t, wantGateway, resp.GatewayURL)
	require.NotNil(t, resp.Onchain)
	assert.Equal(t, "0xdeadbeef", resp.Onchain.TxHash)
	assert.Empty(t, resp.Warnings)

	mockLedger.AssertExpectations(t)
}

func TestHandleRegister_Duplicate(t *testing.T) {
	router, mockLedger := setupTestServer(t)

	content := []byte("the blueprint")
	mockLedger.On("MirrorRegistration", mock.Anything, mock.Anything, mock.Anything).
		Return(&interfaces.MirrorReceipt{TxHash: "0x1"}, nil).Once()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/ip/register", registerFields(), "a.pdf", content))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Same bytes with different metadata: the original record comes back.
	fields := registerFields()
	fields["title"] = "Someone else's blueprint"
	fields["owner"] = "0xother"

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/ip/register", fields, "b.pdf", content))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsDuplicate)
	assert.Equal(t, int64(1), resp.Record.ID)
	assert.Equal(t, "Blueprint A", resp.Record.Title)
	assert.Equal(t, "0xabc", resp.Record.Owner)
	assert.Nil(t, resp.Onchain)

	// Duplicates are never mirrored a second time.
	mockLedger.AssertNumberOfCalls(t, "MirrorRegistration", 1)
}

func TestHandleRegister_MissingFile(t *testing.T) {
	router, _ := setupTestServer(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/ip/register", registerFields(), "", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "file is required")
}

func TestHandleRegister_MissingTitleOrOwner(t *testing.T) {
	router, _ := setupTestServer(t)

	fields := registerFields()
	delete(fields, "owner")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/ip/register", fields, "a.pdf", []byte("x")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title and owner are required")
}

func TestHandleRegister_UploadFailureDegrades(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := registry.NewFileStore(filepath.Join(t.TempDir(), "registry.json"), logger)
	require.NoError(t, err)
	engine := registry.NewEngine(store, logger)

	failing := new(storage.MockBackend)
	failing.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return("", interfaces.ErrBackendUnavailable)

	handler := NewHandler(engine, failing, nil, testGatewayBase, logger)
	srv, err := New(&HTTPServerConfig{ListenAddr: "127.0.0.1:0", Log: logger}, handler)
	require.NoError(t, err)
	router := srv.Router()

	content := []byte("unreachable gateway")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/ip/register", registerFields(), "a.pdf", content))

	// Registration still succeeds with a placeholder identifier.
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp api.RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Record.FileCID, storage.PlaceholderPrefix))
	assert.Empty(t, resp.GatewayURL)
	assert.NotEmpty(t, resp.Warnings)
}

func TestHandleSearch(t *testing.T) {
	router, mockLedger := setupTestServer(t)
	mockLedger.On("MirrorRegistration", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/ip/register", registerFields(), "a.pdf", []byte("one")))
	require.Equal(t, http.StatusCreated, rec.Code)

	// Empty query short-circuits to an empty result set.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ip/search", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.SearchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Results)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ip/search?q=blueprint", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "Blueprint A", resp.Results[0].Title)
}

func TestHandleGet(t *testing.T) {
	router, mockLedger := setupTestServer(t)
	mockLedger.On("MirrorRegistration", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/ip/register", registerFields(), "a.pdf", []byte("one")))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ip/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.RecordResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Record.ID)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ip/9999", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// A non-numeric or non-positive id can never name a record.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ip/abc", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ip/-1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleTransfer(t *testing.T) {
	router, mockLedger := setupTestServer(t)
	mockLedger.On("MirrorRegistration", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil)
	mockLedger.On("MirrorTransfer", mock.Anything, int64(1), "0x999", "Sale").
		Return(&interfaces.MirrorReceipt{TxHash: "0xfeed"}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/ip/register", registerFields(), "a.pdf", []byte("one")))
	require.Equal(t, http.StatusCreated, rec.Code)

	body := strings.NewReader(`{"newOwner":"0x999","note":"Sale"}`)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ip/1/transfer", body))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.MutationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "0x999", resp.Record.Owner)
	require.Len(t, resp.Record.Transfers, 1)
	assert.Equal(t, "0xabc", resp.Record.Transfers[0].From)
	require.NotNil(t, resp.Onchain)
	assert.Equal(t, "0xfeed", resp.Onchain.TxHash)
}

func TestHandleTransfer_Validation(t *testing.T) {
	router, mockLedger := setupTestServer(t)
	mockLedger.On("MirrorRegistration", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/ip/register", registerFields(), "a.pdf", []byte("one")))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ip/1/transfer", strings.NewReader(`{"note":"x"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "newOwner is required")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ip/42/transfer", strings.NewReader(`{"newOwner":"0x1"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSetLicense(t *testing.T) {
	router, mockLedger := setupTestServer(t)
	mockLedger.On("MirrorRegistration", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil)
	mockLedger.On("MirrorLicense", mock.Anything, int64(1), "100", "30").
		Return(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/ip/register", registerFields(), "a.pdf", []byte("one")))
	require.Equal(t, http.StatusCreated, rec.Code)

	// JSON numbers are preserved verbatim.
	body := strings.NewReader(`{"price":100,"durationDays":"30"}`)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ip/1/license", body))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp api.MutationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Record.Licenses, 1)
	assert.Equal(t, "100", resp.Record.Licenses[0].Price.String())
	assert.Equal(t, "30", resp.Record.Licenses[0].DurationDays.String())
	assert.Nil(t, resp.Onchain)
}

func TestHandleSetLicense_Validation(t *testing.T) {
	router, mockLedger := setupTestServer(t)
	mockLedger.On("MirrorRegistration", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/ip/register", registerFields(), "a.pdf", []byte("one")))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ip/1/license", strings.NewReader(`{"price":"100"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "price and durationDays are required")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/ip/9/license", strings.NewReader(`{"price":"1","durationDays":"2"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLedgerFailureNeverFailsTheRequest(t *testing.T) {
	router, mockLedger := setupTestServer(t)
	mockLedger.On("MirrorRegistration", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, assert.AnError)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/ip/register", registerFields(), "a.pdf", []byte("one")))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp api.RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp.Onchain)
	assert.Contains(t, resp.Warnings, "on-chain registration mirroring failed")
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := setupTestServer(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
