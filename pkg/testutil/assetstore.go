// Copyright (c) 2026 CPD Tools contributors. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/cpd-tools/swenv/pkg/assetstore"
	"github.com/cpd-tools/swenv/pkg/swenvconfig"
)

// FakeAssetStore serves the subset of the catalog API the asset-store
// client uses: name search, asset details, attachment details and the
// attachment download itself.
type FakeAssetStore struct {
	Server *httptest.Server

	mu     sync.Mutex
	assets map[string]fakeAsset
	nextID int
}

type fakeAsset struct {
	id, assetType, name string
	updatedAt           string
	content             []byte
}

func StartAssetStore(t *testing.T) *FakeAssetStore {
	f := &FakeAssetStore{assets: map[string]fakeAsset{}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/asset_types/{type}/search", f.search)
	mux.HandleFunc("GET /v2/assets/{id}", f.assetDetails)
	mux.HandleFunc("GET /v2/assets/{id}/attachments/{attachment}", f.attachmentDetails)
	mux.HandleFunc("GET /download/{id}", f.download)

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Server.Close)
	return f
}

// Add registers an asset in the fake catalog.
func (f *FakeAssetStore) Add(assetType, name string, content []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("asset-%d", f.nextID)
	f.assets[id] = fakeAsset{
		id:        id,
		assetType: assetType,
		name:      name,
		updatedAt: fmt.Sprintf("2026-01-01T00:00:%02dZ", f.nextID),
		content:   content,
	}
}

// Connection returns a connection pointed at the fake server with dummy
// credentials.
func (f *FakeAssetStore) Connection() *assetstore.Connection {
	return &assetstore.Connection{
		BaseURL: f.Server.URL,
		Token:   "test-token",
		SpaceID: "space-1",
	}
}

// SetupEnv exports the platform contract variables so production code picks
// up the fake server through the environment.
func (f *FakeAssetStore) SetupEnv(t *testing.T) {
	t.Setenv(swenvconfig.PlatformURLEnvVar, f.Server.URL)
	t.Setenv(swenvconfig.UserAccessTokenEnvVar, "test-token")
	t.Setenv(swenvconfig.SpaceIDEnvVar, "space-1")
}

func (f *FakeAssetStore) search(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}

	var body struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	name := unescapeQueryTerm(strings.TrimPrefix(body.Query, "asset.name:"))

	type result struct {
		Metadata struct {
			AssetID string `json:"asset_id"`
			Name    string `json:"name"`
			Usage   struct {
				LastUpdatedAt string `json:"last_updated_at"`
			} `json:"usage"`
		} `json:"metadata"`
		Href string `json:"href"`
	}
	results := []result{}

	f.mu.Lock()
	for _, a := range f.assets {
		if a.assetType != r.PathValue("type") || a.name != name {
			continue
		}
		res := result{Href: "/v2/assets/" + a.id}
		res.Metadata.AssetID = a.id
		res.Metadata.Name = a.name
		res.Metadata.Usage.LastUpdatedAt = a.updatedAt
		results = append(results, res)
	}
	f.mu.Unlock()

	writeJSON(w, map[string]any{"results": results})
}

func (f *FakeAssetStore) assetDetails(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	a, ok := f.lookup(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]any{
		"attachments": []map[string]string{{"id": "attachment-" + a.id}},
	})
}

func (f *FakeAssetStore) attachmentDetails(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	a, ok := f.lookup(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, map[string]string{"url": "/download/" + a.id})
}

func (f *FakeAssetStore) download(w http.ResponseWriter, r *http.Request) {
	if !f.authorized(w, r) {
		return
	}
	a, ok := f.lookup(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	_, _ = w.Write(a.content)
}

func (f *FakeAssetStore) lookup(id string) (fakeAsset, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assets[id]
	return a, ok
}

func (f *FakeAssetStore) authorized(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("Authorization") != "Bearer test-token" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return false
	}
	if r.URL.Query().Get("version") == "" {
		http.Error(w, "missing version parameter", http.StatusBadRequest)
		return false
	}
	if r.URL.Query().Get("space_id") == "" && r.URL.Query().Get("project_id") == "" {
		http.Error(w, "missing scope parameter", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func unescapeQueryTerm(term string) string {
	r := strings.NewReplacer(`\ `, " ", `\/`, "/", `\:`, ":")
	return r.Replace(term)
}
