// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package assetstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/cpd-tools/swenv/pkg/swenvconfig"
	"github.com/cpd-tools/swenv/pkg/utils"
)

var ErrAssetNotFound = fmt.Errorf("asset not found")

// apiVersion is the date-versioned catalog API revision requested on every
// call.
const apiVersion = "2021-06-01"

type Client struct {
	conn *Connection
	http *http.Client
}

func NewClient(conn *Connection) *Client {
	return &Client{conn: conn, http: http.DefaultClient}
}

// NewClientWithHTTP is for tests that stub the catalog.
func NewClientWithHTTP(conn *Connection, httpClient *http.Client) *Client {
	return &Client{conn: conn, http: httpClient}
}

// Asset is one catalog search hit.
type Asset struct {
	ID          string
	Name        string
	Href        string
	LastUpdated string
}

type searchResponse struct {
	Results []struct {
		Metadata struct {
			AssetID string `json:"asset_id"`
			Name    string `json:"name"`
			Usage   struct {
				LastUpdatedAt string `json:"last_updated_at"`
			} `json:"usage"`
		} `json:"metadata"`
		Href string `json:"href"`
	} `json:"results"`
}

type assetResponse struct {
	Attachments []struct {
		ID string `json:"id"`
	} `json:"attachments"`
}

type attachmentResponse struct {
	URL string `json:"url"`
}

// Search queries the catalog for assets of assetType matching name exactly.
func (c *Client) Search(ctx context.Context, assetType, name string) ([]Asset, error) {
	body, err := json.Marshal(map[string]string{
		"query": "asset.name:" + escapeQueryTerm(name),
	})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/v2/asset_types/%s/search", strings.TrimSuffix(c.conn.BaseURL, "/"), url.PathEscape(assetType))
	var parsed searchResponse
	if err := c.doJSON(ctx, http.MethodPost, endpoint, body, &parsed); err != nil {
		return nil, fmt.Errorf("searching for asset %q: %w", name, err)
	}

	assets := make([]Asset, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		assets = append(assets, Asset{
			ID:          r.Metadata.AssetID,
			Name:        r.Metadata.Name,
			Href:        r.Href,
			LastUpdated: r.Metadata.Usage.LastUpdatedAt,
		})
	}
	return assets, nil
}

// Lookup returns the catalog hit for name. When the name is not unique the
// most recently updated revision wins. The usage timestamps are ISO 8601,
// so string comparison orders them.
func (c *Client) Lookup(ctx context.Context, assetType, name string) (*Asset, error) {
	assets, err := c.Search(ctx, assetType, name)
	if err != nil {
		return nil, err
	}
	if len(assets) == 0 {
		return nil, fmt.Errorf("%w: no %s named %q", ErrAssetNotFound, assetType, name)
	}
	latest := lo.MaxBy(assets, func(a, b Asset) bool {
		return a.LastUpdated > b.LastUpdated
	})
	return &latest, nil
}

// Download fetches the asset's first attachment and writes it to destPath,
// creating parent directories as needed.
func (c *Client) Download(ctx context.Context, asset *Asset, destPath string) error {
	href := asset.Href
	if href == "" {
		href = "/v2/assets/" + url.PathEscape(asset.ID)
	}

	var detail assetResponse
	if err := c.doJSON(ctx, http.MethodGet, c.absoluteURL(href), nil, &detail); err != nil {
		return fmt.Errorf("fetching asset %q: %w", asset.Name, err)
	}
	if len(detail.Attachments) == 0 {
		return fmt.Errorf("asset %q has no attachments", asset.Name)
	}

	attachmentURL := fmt.Sprintf("%s/v2/assets/%s/attachments/%s",
		strings.TrimSuffix(c.conn.BaseURL, "/"), url.PathEscape(asset.ID), url.PathEscape(detail.Attachments[0].ID))
	var attachment attachmentResponse
	if err := c.doJSON(ctx, http.MethodGet, attachmentURL, nil, &attachment); err != nil {
		return fmt.Errorf("fetching attachment of asset %q: %w", asset.Name, err)
	}
	if attachment.URL == "" {
		return fmt.Errorf("attachment of asset %q has no download url", asset.Name)
	}

	contents, err := c.fetchBytes(ctx, c.absoluteURL(attachment.URL))
	if err != nil {
		return fmt.Errorf("downloading asset %q: %w", asset.Name, err)
	}

	if err := utils.EnsureDirs(filepath.Dir(destPath)); err != nil {
		return err
	}
	return os.WriteFile(destPath, contents, 0o644)
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body []byte, out any) error {
	contents, err := c.do(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	return json.Unmarshal(contents, out)
}

func (c *Client) fetchBytes(ctx context.Context, endpoint string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("version", apiVersion)
	key, value := c.conn.scopeParam()
	q.Set(key, value)
	u.RawQuery = q.Encode()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.conn.Token)
	req.Header.Set("User-Agent", swenvconfig.GetAssistantUserAgent())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	contents, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s: %s: %s", method, u.Path, resp.Status, strings.TrimSpace(string(contents)))
	}
	return contents, nil
}

// absoluteURL resolves catalog-relative hrefs against the base URL.
func (c *Client) absoluteURL(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimSuffix(c.conn.BaseURL, "/") + "/" + strings.TrimPrefix(href, "/")
}

// escapeQueryTerm escapes the characters the catalog's query syntax treats
// specially in a bare term.
func escapeQueryTerm(name string) string {
	r := strings.NewReplacer(" ", `\ `, "/", `\/`, ":", `\:`)
	return r.Replace(name)
}
