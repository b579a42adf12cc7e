package datasync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

type Profile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Role struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Perms []string `json:"perms"`
}

// DataCore is the university data core holding the source-of-truth
// profiles and roles.
type DataCore interface {
	FetchProfiles(ctx context.Context, userIDs []string) ([]Profile, error)
	FetchRoles(ctx context.Context) ([]Role, error)
}

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string, httpClient *http.Client) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

func DefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

type profilesRequest struct {
	UserIDs []string `json:"user_ids"`
}

func (c *HTTPClient) FetchProfiles(ctx context.Context, userIDs []string) ([]Profile, error) {
	body, err := json.Marshal(profilesRequest{UserIDs: userIDs})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/profiles", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out []Profile
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) FetchRoles(ctx context.Context) ([]Role, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/roles", nil)
	if err != nil {
		return nil, err
	}
	var out []Role
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("data core %s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("data core %s: decode: %w", req.URL.Path, err)
	}
	return nil
}
