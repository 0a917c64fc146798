// Package crawlcheck drives a running crawler instance through its
// HTTP trigger and reports what the pass produced. It backs the
// crawlcheck CLI used to smoke-test a deployment.
package crawlcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/easonliu714/ShowNews/internal/domain/types"
)

// Config controls one check run.
type Config struct {
	BaseURL string
	Out     io.Writer
	Client  *http.Client
}

// Run verifies the service is up, triggers one crawl pass and prints
// the resulting summary.
func Run(ctx context.Context, cfg *Config) error {
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}

	if err := checkReady(ctx, client, cfg.BaseURL); err != nil {
		return fmt.Errorf("service not ready: %w", err)
	}
	fmt.Fprintf(cfg.Out, "service at %s is ready\n", cfg.BaseURL)

	sum, err := triggerPass(ctx, client, cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("trigger crawl: %w", err)
	}

	report(cfg.Out, sum)
	return nil
}

func checkReady(ctx context.Context, client *http.Client, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("readiness probe returned %d", resp.StatusCode)
	}
	return nil
}

func triggerPass(ctx context.Context, client *http.Client, baseURL string) (types.Summary, error) {
	var sum types.Summary

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/test-crawl", nil)
	if err != nil {
		return sum, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return sum, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return sum, fmt.Errorf("crawl trigger returned %d: %s", resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(&sum); err != nil {
		return sum, err
	}
	return sum, nil
}

func report(out io.Writer, sum types.Summary) {
	fmt.Fprintf(out, "run %s: success=%v new=%d sent=%d failed=%d\n",
		sum.RunID, sum.Success, sum.NewCount, sum.SentCount, sum.FailedCount)

	platforms := make([]string, 0, len(sum.PlatformStats))
	for name := range sum.PlatformStats {
		platforms = append(platforms, name)
	}
	sort.Strings(platforms)
	for _, name := range platforms {
		st := sum.PlatformStats[name]
		fmt.Fprintf(out, "  %s: discovered=%d new=%d sent=%d failed=%d\n",
			name, st.Discovered, st.New, st.Sent, st.Failed)
	}

	for _, title := range sum.NewTitles {
		fmt.Fprintf(out, "  + %s\n", title)
	}
}
