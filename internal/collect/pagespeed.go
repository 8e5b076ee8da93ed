package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"site-audit/internal/audit"
)

// PageSpeedConfig configures the PageSpeed Insights v5 client.
type PageSpeedConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// PageSpeedClient queries the Google PageSpeed Insights API for the
// lab performance metrics of a URL.
type PageSpeedClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewPageSpeedClient(cfg PageSpeedConfig) *PageSpeedClient {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://www.googleapis.com/pagespeedonline/v5"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &PageSpeedClient{
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type pagespeedResponse struct {
	LighthouseResult struct {
		Categories struct {
			Performance struct {
				Score float64 `json:"score"`
			} `json:"performance"`
		} `json:"categories"`
		Audits map[string]struct {
			NumericValue float64 `json:"numericValue"`
		} `json:"audits"`
	} `json:"lighthouseResult"`
}

// Analyze runs a mobile-strategy analysis and maps the response to the
// performance signal group.
func (c *PageSpeedClient) Analyze(ctx context.Context, targetURL string) (*audit.PerformanceSignals, error) {
	query := url.Values{}
	query.Set("url", targetURL)
	query.Set("strategy", "mobile")
	query.Set("category", "performance")
	if c.apiKey != "" {
		query.Set("key", c.apiKey)
	}
	fullURL := c.baseURL + "/runPagespeed?" + query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build pagespeed request: %w", err)
	}
	response, err := c.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("pagespeed request failed: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("read pagespeed response: %w", err)
	}
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("pagespeed status %d: %s", response.StatusCode, truncateBody(body))
	}

	var decoded pagespeedResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode pagespeed response: %w", err)
	}

	lighthouse := decoded.LighthouseResult
	signals := &audit.PerformanceSignals{
		LabScore: int(lighthouse.Categories.Performance.Score*100 + 0.5),
	}
	if a, ok := lighthouse.Audits["first-contentful-paint"]; ok {
		signals.FirstContentfulMS = a.NumericValue
	}
	if a, ok := lighthouse.Audits["largest-contentful-paint"]; ok {
		signals.LargestContentfulMS = a.NumericValue
	}
	if a, ok := lighthouse.Audits["cumulative-layout-shift"]; ok {
		signals.CumulativeShift = a.NumericValue
	}
	if a, ok := lighthouse.Audits["total-blocking-time"]; ok {
		signals.TotalBlockingMS = a.NumericValue
	}
	if a, ok := lighthouse.Audits["speed-index"]; ok {
		signals.SpeedIndexMS = a.NumericValue
	}
	return signals, nil
}

func truncateBody(body []byte) string {
	const limit = 256
	if len(body) <= limit {
		return string(body)
	}
	return string(body[:limit]) + "..."
}
