package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/amonks/daybook/category"
	"github.com/amonks/daybook/internal/day"
	"github.com/amonks/daybook/summary"
	"github.com/amonks/daybook/task"
)

func getJSON(ctx context.Context, client *http.Client, baseURL, path string, query url.Values, dest any) error {
	target := baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	return doJSON(client, req, dest)
}

func postJSON(ctx context.Context, client *http.Client, baseURL, path string, payload any, dest any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+path, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return doJSON(client, req, dest)
}

func doJSON(client *http.Client, req *http.Request, dest any) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return readErrorResponse(resp)
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}

func readErrorResponse(resp *http.Response) error {
	var payload map[string]string
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(&payload); err == nil {
		if message, ok := payload["error"]; ok {
			return fmt.Errorf("%s", message)
		}
	}
	return fmt.Errorf("daybook server: %s", resp.Status)
}

type snapshotResponse struct {
	Snapshot summary.Snapshot `json:"snapshot"`
}

type categoriesResponse struct {
	Categories []category.Category `json:"categories"`
}

type setRequest struct {
	ID        string `json:"id"`
	Completed bool   `json:"completed"`
}

type setResponse struct {
	Task    task.Instance `json:"task"`
	Changed bool          `json:"changed"`
}

type promoteRequest struct {
	Template string   `json:"template"`
	Priority string   `json:"priority,omitempty"`
	DueDate  day.Date `json:"due_date,omitzero"`
}

type taskResponse struct {
	Task task.Instance `json:"task"`
}
