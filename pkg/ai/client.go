package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client proxies enhancement calls to the external AI service. The service
// is an opaque collaborator: we send text plus options, we get text back.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type EnhanceRequest struct {
	Text     string `json:"text"`
	Tone     string `json:"tone,omitempty"`
	Platform string `json:"platform,omitempty"`
	Advanced bool   `json:"advanced,omitempty"`
}

type EnhanceResponse struct {
	EnhancedText  string   `json:"enhanced_text"`
	Hashtags      []string `json:"hashtags"`
	ViralityScore int      `json:"virality_score"`
}

type HashtagResponse struct {
	Hashtags []string `json:"hashtags"`
}

type EngagementResponse struct {
	Score      int    `json:"score"`
	Prediction string `json:"prediction"`
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) EnhancePost(req EnhanceRequest) (*EnhanceResponse, error) {
	var resp EnhanceResponse
	if err := c.post("/enhance", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SuggestHashtags(text, platform string) (*HashtagResponse, error) {
	var resp HashtagResponse
	payload := map[string]string{"text": text, "platform": platform}
	if err := c.post("/hashtags", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) PredictEngagement(text, platform string) (*EngagementResponse, error) {
	var resp EngagementResponse
	payload := map[string]string{"text": text, "platform": platform}
	if err := c.post("/engagement", payload, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) post(path string, payload interface{}, out interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error marshaling request: %v", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error calling AI service: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response body: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("AI service error: status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("error decoding AI response: %v", err)
	}

	return nil
}
