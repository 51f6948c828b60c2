package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/neilthomass/instaPFP/config"
	"github.com/neilthomass/instaPFP/devices"
	"github.com/neilthomass/instaPFP/models"
	"github.com/neilthomass/instaPFP/scraper"
)

var (
	deviceName string
	outDir     string
)

// rootCmd fetches one profile picture per invocation.
var rootCmd = &cobra.Command{
	Use:   "instapfp <username>",
	Short: "Download the highest-resolution profile picture for a username",
	Long: `instapfp resolves a profile's picture through an emulated mobile browser,
picks the highest-resolution variant it can find and saves it to disk.

Exit codes:
  0  success
  1  profile not found (or any other failure)
  2  browser launch failure
  3  extraction failure
  4  navigation timeout`,
	Example: `  # Download with default settings
  instapfp natgeo

  # Emulate a different device and choose the output directory
  instapfp natgeo --device pixel-2 --out ./pictures

  # Show the known device presets
  instapfp list-devices`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runFetch,
}

// Execute runs the command tree and maps terminal errors to exit codes.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.Flags().StringVarP(&deviceName, "device", "d", devices.Default, "device emulation preset (see list-devices)")
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "downloads", "directory to save the picture into")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func runFetch(cmd *cobra.Command, args []string) error {
	username := args[0]

	cfg := config.Load()
	if os.Getenv("PFP_LOG_FORMAT") == "" {
		cfg.Log.Format = "text"
	}
	initLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc := scraper.New(cfg)

	result, err := sc.FetchProfilePicture(ctx, &models.ProfileRequest{
		Username: username,
		Device:   deviceName,
	})
	if err != nil {
		slog.Error("fetch failed", "username", username, "error", err)
		return err
	}

	data, contentType, err := sc.FetchImage(ctx, result.URL)
	if err != nil {
		slog.Error("download failed", "url", result.URL, "error", err)
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("cannot create output directory %s: %w", outDir, err)
	}

	path := filepath.Join(outDir, result.Username+"."+extFor(result.URL, contentType))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Downloaded to: %s\n", path)
	return nil
}

// exitCode maps terminal error kinds to the CLI exit codes.
func exitCode(err error) int {
	switch models.CodeOf(err) {
	case models.ErrCodeNotFound:
		return 1
	case models.ErrCodeLaunch:
		return 2
	case models.ErrCodeExtraction:
		return 3
	case models.ErrCodeTimeout:
		return 4
	default:
		return 1
	}
}

var knownExts = map[string]struct{}{"jpg": {}, "jpeg": {}, "png": {}, "webp": {}}

// extFor infers the file extension from the selected URL's path, falling
// back to the response content type and finally to jpg.
func extFor(rawURL, contentType string) string {
	if u, err := url.Parse(rawURL); err == nil {
		tail := rawURL
		if i := strings.LastIndex(u.Path, "/"); i >= 0 {
			tail = u.Path[i+1:]
		}
		if i := strings.LastIndex(tail, "."); i >= 0 {
			ext := strings.ToLower(tail[i+1:])
			if _, ok := knownExts[ext]; ok {
				return ext
			}
		}
	}
	if ext, ok := strings.CutPrefix(contentType, "image/"); ok {
		ext = strings.ToLower(strings.TrimSpace(strings.Split(ext, ";")[0]))
		if _, ok := knownExts[ext]; ok {
			return ext
		}
	}
	return "jpg"
}

// initLogger configures slog; the CLI defaults to the text handler.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
