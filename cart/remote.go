package cart

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"time"
)

// RemoteClient talks to the per-account cart service. The contract is narrow:
// GET /cart?userKey=<key> returns {"items": [...]} and POST /cart with
// {"userKey": ..., "items": [...]} fully replaces the stored record.
//
// Every failure mode (network error, non-2xx status, malformed body) is
// reported as "unavailable" rather than an error: callers must treat an
// unavailable remote exactly like a remote with no cart stored.
type RemoteClient struct {
	BaseURL string
	Client  *http.Client
}

func NewRemoteClient(baseURL string) *RemoteClient {
	return &RemoteClient{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether a cart service is configured. The storefront runs
// fine without one; carts just stay device-local.
func (rc *RemoteClient) Enabled() bool {
	return rc != nil && rc.BaseURL != ""
}

// Fetch loads the remote cart for userKey. The bool is false when the remote
// is unavailable in any way.
func (rc *RemoteClient) Fetch(ctx context.Context, userKey string) (Items, bool) {
	if !rc.Enabled() {
		return nil, false
	}

	endpoint := rc.BaseURL + "/cart?userKey=" + url.QueryEscape(userKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false
	}
	req.Header.Set("Accept", "application/json")

	resp, err := rc.Client.Do(req)
	if err != nil {
		log.Printf("cart: remote fetch failed for %s: %v", userKey, err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("cart: remote fetch for %s returned status %d", userKey, resp.StatusCode)
		return nil, false
	}

	var body struct {
		Items Items `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("cart: remote fetch for %s returned malformed body: %v", userKey, err)
		return nil, false
	}

	return normalize(body.Items), true
}

// Upsert replaces the remote record for userKey with items. The bool reports
// whether the write was acknowledged; callers never block the user on it.
func (rc *RemoteClient) Upsert(ctx context.Context, userKey string, items Items) bool {
	if !rc.Enabled() {
		return false
	}

	if items == nil {
		items = Items{}
	}
	payload, err := json.Marshal(struct {
		UserKey string `json:"userKey"`
		Items   Items  `json:"items"`
	}{UserKey: userKey, Items: items})
	if err != nil {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rc.BaseURL+"/cart", bytes.NewReader(payload))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := rc.Client.Do(req)
	if err != nil {
		// Cancelled upserts land here too; superseded writes are expected.
		if ctx.Err() == nil {
			log.Printf("cart: remote upsert failed for %s: %v", userKey, err)
		}
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("cart: remote upsert for %s returned status %d", userKey, resp.StatusCode)
		return false
	}
	return true
}
