// Benchmark client for the instapfp API: fetches a set of usernames
// repeatedly in JSON mode and reports latency plus cache behaviour.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"
)

// CLI flags
var (
	apiURL = flag.String("api-url", "http://localhost:8080", "instapfp API base URL")
	apiKey = flag.String("api-key", "", "API key for authenticated requests")
	runs   = flag.Int("runs", 3, "Number of runs per username for averaging")
	users  = flag.String("users", "instagram,natgeo,nasa", "Comma-separated usernames to fetch")
	output = flag.String("output", "benchmark-results.json", "JSON output file path")
)

// --- Response types (mirrors models package) ---

type pfpResponse struct {
	Success     bool         `json:"success"`
	URL         string       `json:"url"`
	Source      string       `json:"source"`
	CacheStatus string       `json:"cache_status"`
	Timing      timingInfo   `json:"timing"`
	Error       *errorDetail `json:"error,omitempty"`
}

type timingInfo struct {
	TotalMs  int64 `json:"total_ms"`
	ScrapeMs int64 `json:"scrape_ms"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// --- Benchmark result types ---

type runResult struct {
	Run         int    `json:"run"`
	TotalMs     int64  `json:"total_ms"`
	ScrapeMs    int64  `json:"scrape_ms"`
	WallMs      int64  `json:"wall_ms"`
	CacheStatus string `json:"cache_status"`
	Source      string `json:"source"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

type userResult struct {
	Username string      `json:"username"`
	Runs     []runResult `json:"runs"`
	AvgMs    int64       `json:"avg_ms"`
}

func main() {
	flag.Parse()

	client := &http.Client{Timeout: 180 * time.Second}
	var results []userResult

	for _, username := range strings.Split(*users, ",") {
		username = strings.TrimSpace(username)
		if username == "" {
			continue
		}

		ur := userResult{Username: username}
		var sum int64

		for i := 1; i <= *runs; i++ {
			rr := fetchOnce(client, username, i)
			sum += rr.WallMs
			ur.Runs = append(ur.Runs, rr)
		}
		if len(ur.Runs) > 0 {
			ur.AvgMs = sum / int64(len(ur.Runs))
		}
		results = append(results, ur)
	}

	printTable(results)

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal results: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*output, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *output, err)
		os.Exit(1)
	}
	fmt.Printf("\nresults written to %s\n", *output)
}

func fetchOnce(client *http.Client, username string, run int) runResult {
	rr := runResult{Run: run}

	endpoint := fmt.Sprintf("%s/pfp/%s?format=json", *apiURL, url.PathEscape(username))
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		rr.Error = err.Error()
		return rr
	}
	if *apiKey != "" {
		req.Header.Set("X-API-Key", *apiKey)
	}

	start := time.Now()
	resp, err := client.Do(req)
	rr.WallMs = time.Since(start).Milliseconds()
	if err != nil {
		rr.Error = err.Error()
		return rr
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		rr.Error = err.Error()
		return rr
	}

	var parsed pfpResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		rr.Error = fmt.Sprintf("HTTP %d: %v", resp.StatusCode, err)
		return rr
	}

	rr.Success = parsed.Success
	rr.TotalMs = parsed.Timing.TotalMs
	rr.ScrapeMs = parsed.Timing.ScrapeMs
	rr.CacheStatus = parsed.CacheStatus
	rr.Source = parsed.Source
	if parsed.Error != nil {
		rr.Error = fmt.Sprintf("%s: %s", parsed.Error.Code, parsed.Error.Message)
	}
	return rr
}

func printTable(results []userResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tRUN\tWALL_MS\tSCRAPE_MS\tCACHE\tSOURCE\tOK")
	for _, ur := range results {
		for _, rr := range ur.Runs {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%s\t%s\t%v\n",
				ur.Username, rr.Run, rr.WallMs, rr.ScrapeMs, rr.CacheStatus, rr.Source, rr.Success)
		}
		fmt.Fprintf(w, "%s\tavg\t%d\t\t\t\t\n", ur.Username, ur.AvgMs)
	}
	w.Flush()
}
