// Package loadgen fires concurrent GET requests at a running server.
package loadgen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Config defines a load run
type Config struct {
	// BaseURL is the landing page of the target server
	BaseURL string

	// Requests is the number of GET requests to send
	Requests int

	// Timeout bounds each request (optional)
	Timeout time.Duration

	// Client overrides the HTTP client (optional)
	Client *http.Client

	// Logger (optional)
	Logger logrus.FieldLogger
}

// Report summarizes a load run
type Report struct {
	// StatusCounts maps HTTP status codes to the number of responses
	StatusCounts map[int]int

	// Errors holds transport failures
	Errors []error

	// Duration is the wall-clock time of the whole run
	Duration time.Duration
}

// Succeeded returns the number of 200 responses
func (r *Report) Succeeded() int {
	return r.StatusCounts[http.StatusOK]
}

// Target returns the URL for request i: even indices hit /sleep, odd ones the landing page
func Target(baseURL string, i int) string {
	if i%2 == 0 {
		return strings.TrimRight(baseURL, "/") + "/sleep"
	}
	return baseURL
}

// Run sends cfg.Requests GET requests at once and waits for all of them
func Run(ctx context.Context, cfg Config) (*Report, error) {
	if cfg.Requests < 0 {
		return nil, fmt.Errorf("number of requests must not be negative, got %d", cfg.Requests)
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &http.Transport{DisableKeepAlives: true},
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	report := &Report{StatusCounts: make(map[int]int)}
	var mu sync.Mutex
	var wg sync.WaitGroup

	start := time.Now()
	for i := 0; i < cfg.Requests; i++ {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			status, err := get(ctx, client, url)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Errors = append(report.Errors, err)
				logger.WithError(err).Warnf("GET %s failed", url)
				return
			}
			report.StatusCounts[status]++
			logger.Debugf("GET %s: %d", url, status)
		}(Target(cfg.BaseURL, i))
	}
	wg.Wait()
	report.Duration = time.Since(start)

	logger.Infof("Sent %d requests in %v: %d ok, %d errors",
		cfg.Requests, report.Duration, report.Succeeded(), len(report.Errors))
	return report, nil
}

func get(ctx context.Context, client *http.Client, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request to %s failed: %w", url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
