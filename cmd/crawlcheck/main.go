package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/easonliu714/ShowNews/internal/crawlcheck"
)

// Default configuration constants.
const (
	defaultTimeout = 15 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "Base URL of the service")
		timeout = flag.Duration("timeout", defaultTimeout, "Overall timeout; a full pass can take minutes")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg := &crawlcheck.Config{
		BaseURL: *baseURL,
		Out:     os.Stdout,
		Client:  &http.Client{Timeout: *timeout},
	}

	if err := crawlcheck.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("crawl check failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
