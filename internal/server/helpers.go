package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// WaitForHealthy polls /health until the server reports ok or the context is
// cancelled. baseURL is the server's base URL, e.g. "http://localhost:8080".
func WaitForHealthy(ctx context.Context, baseURL string) (HealthData, error) {
	healthURL := baseURL + "/health"
	client := &http.Client{Timeout: 1 * time.Second}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		if health, ok := checkHealth(ctx, client, healthURL); ok {
			return health, nil
		}
		select {
		case <-ctx.Done():
			return HealthData{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func checkHealth(ctx context.Context, client *http.Client, url string) (HealthData, bool) {
	var health HealthData
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return health, false
	}
	resp, err := client.Do(req)
	if err != nil {
		return health, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return health, false
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return health, false
	}
	return health, health.Status == "ok"
}
