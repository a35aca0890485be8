// Package mlrisk is a thin client for the external risk-prediction
// service. The model is a black box: it accepts a batch of per-user
// feature rows and returns predicted labels with confidence.
package mlrisk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Prediction is one per-user model output.
type Prediction struct {
	UserID        uint     `json:"user_id"`
	PredictedRisk string   `json:"predicted_risk"`
	Confidence    *float64 `json:"confidence"`
}

// PredictRisk posts the feature rows and returns the predictions keyed by
// user id.
func (c *Client) PredictRisk(users interface{}) (map[uint]Prediction, error) {
	body, err := json.Marshal(map[string]interface{}{"users": users})
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Post(c.baseURL+"/predict-risk", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ml predictor: unexpected status %d", resp.StatusCode)
	}
	var predictions []Prediction
	if err := json.NewDecoder(resp.Body).Decode(&predictions); err != nil {
		return nil, err
	}
	out := make(map[uint]Prediction, len(predictions))
	for _, p := range predictions {
		out[p.UserID] = p
	}
	return out, nil
}
