// Package clients provides a Go client for the registry HTTP API, used by
// the command-line tools and integration tests.
package clients

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/clearmark/ip-registry-backend/api"
)

// RegistryClient talks to a registry server over HTTP.
type RegistryClient struct {
	// ServerAddr is the base URL of the registry server.
	ServerAddr string

	// Client overrides http.DefaultClient when set.
	Client *http.Client
}

func (c *RegistryClient) httpClient() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return http.DefaultClient
}

// Register uploads file content with its metadata. Both a fresh registration
// and a duplicate are successful responses; inspect IsDuplicate.
func (c *RegistryClient) Register(title, description, owner, filename string, content []byte) (*api.RegisterResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for key, value := range map[string]string{
		"title":       title,
		"description": description,
		"owner":       owner,
	} {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("could not build register form: %w", err)
		}
	}

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("could not build register form: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("could not build register form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("could not build register form: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.ServerAddr+"/api/ip/register", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var parsed api.RegisterResponse
	if err := c.do(req, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// Search returns records matching query.
func (c *RegistryClient) Search(query string) (*api.SearchResponse, error) {
	req, err := http.NewRequest(http.MethodGet,
		fmt.Sprintf("%s/api/ip/search?q=%s", c.ServerAddr, url.QueryEscape(query)), nil)
	if err != nil {
		return nil, err
	}

	var parsed api.SearchResponse
	if err := c.do(req, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// Get fetches one record by ID.
func (c *RegistryClient) Get(id int64) (*api.RecordResponse, error) {
	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/api/ip/%d", c.ServerAddr, id), nil)
	if err != nil {
		return nil, err
	}

	var parsed api.RecordResponse
	if err := c.do(req, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

// Transfer changes a record's owner.
func (c *RegistryClient) Transfer(id int64, newOwner, note string) (*api.MutationResponse, error) {
	return c.postJSON(fmt.Sprintf("%s/api/ip/%d/transfer", c.ServerAddr, id),
		api.TransferRequest{NewOwner: newOwner, Note: note})
}

// SetLicense appends license terms to a record.
func (c *RegistryClient) SetLicense(id int64, price, durationDays string) (*api.MutationResponse, error) {
	return c.postJSON(fmt.Sprintf("%s/api/ip/%d/license", c.ServerAddr, id),
		api.LicenseRequest{Price: api.FlexibleNumber(price), DurationDays: api.FlexibleNumber(durationDays)})
}

func (c *RegistryClient) postJSON(url string, payload any) (*api.MutationResponse, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var parsed api.MutationResponse
	if err := c.do(req, &parsed); err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (c *RegistryClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("could not reach registry server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		bodyBytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("registry server returned error %d", resp.StatusCode)
		}
		return fmt.Errorf("registry server returned error %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not parse registry response: %w", err)
	}
	return nil
}
