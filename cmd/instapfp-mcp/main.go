// Command instapfp-mcp exposes the profile-picture API as an MCP tool over
// stdio, for use from MCP-capable clients.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// pfpResponse mirrors the instapfp API JSON response model.
type pfpResponse struct {
	Success     bool   `json:"success"`
	Username    string `json:"username"`
	URL         string `json:"url"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Source      string `json:"source"`
	CacheStatus string `json:"cache_status"`
	Error       *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func main() {
	apiURL := os.Getenv("PFP_API_URL")
	if apiURL == "" {
		apiURL = "http://127.0.0.1:8080"
	}
	apiKey := os.Getenv("PFP_API_KEY")

	s := server.NewMCPServer(
		"instapfp",
		"0.1.0",
		server.WithToolCapabilities(false),
	)

	fetchTool := mcp.NewTool("fetch_profile_picture",
		mcp.WithDescription("Resolve the highest-resolution profile picture URL for a username. Uses an emulated mobile browser behind the scenes, so expect a few seconds of latency on cache misses."),
		mcp.WithString("username",
			mcp.Required(),
			mcp.Description("The profile username (without @)"),
		),
		mcp.WithString("device",
			mcp.Description("Device emulation preset (default: 'iphone-12-pro')"),
		),
	)
	s.AddTool(fetchTool, handleFetch(apiURL, apiKey))

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func handleFetch(apiURL, apiKey string) server.ToolHandlerFunc {
	client := &http.Client{Timeout: 120 * time.Second}

	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		username, err := request.RequireString("username")
		if err != nil {
			return mcp.NewToolResultError("username is required"), nil
		}
		device := request.GetString("device", "")

		q := url.Values{"format": {"json"}}
		if device != "" {
			q.Set("device", device)
		}
		endpoint := fmt.Sprintf("%s/pfp/%s?%s", apiURL, url.PathEscape(username), q.Encode())

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("create request: %v", err)), nil
		}
		if apiKey != "" {
			req.Header.Set("X-API-Key", apiKey)
		}

		resp, err := client.Do(req)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("API request failed: %v", err)), nil
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("read response: %v", err)), nil
		}

		var parsed pfpResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("parse response: %v", err)), nil
		}
		if !parsed.Success {
			if parsed.Error != nil {
				return mcp.NewToolResultError(fmt.Sprintf("%s: %s", parsed.Error.Code, parsed.Error.Message)), nil
			}
			return mcp.NewToolResultError("fetch failed"), nil
		}

		return mcp.NewToolResultText(string(body)), nil
	}
}
