package main

// Ask for recommendations from the command line:
//   go run ./cmd/recommend -type both -genres sci-fi,drama -mood thoughtful

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"recommender-backend/internal/bootstrap"
	"recommender-backend/internal/recommend"
	"recommender-backend/internal/shared/config"
	"recommender-backend/internal/shared/telemetry"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg := config.Load()

	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	fs.SetOutput(stderr)
	contentType := fs.String("type", "both", "Content type: books, movies or both")
	genres := fs.String("genres", "", "Comma-separated genres (required)")
	mood := fs.String("mood", "", "Mood or tone")
	favorites := fs.String("favorites", "", "Favorite books or movies")
	info := fs.String("info", "", "Additional information")
	promptOnly := fs.Bool("prompt-only", false, "Print the prompt and exit without calling the provider")
	model := fs.String("model", cfg.LLMModel, "Model identifier")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	prefs := recommend.Preferences{
		ContentType:    recommend.ContentType(strings.ToLower(strings.TrimSpace(*contentType))),
		Genres:         splitList(*genres),
		Mood:           *mood,
		Favorites:      *favorites,
		AdditionalInfo: *info,
	}
	if !prefs.ContentType.Valid() {
		fmt.Fprintf(stderr, "invalid -type %q: want books, movies or both\n", *contentType)
		return 2
	}
	if len(prefs.Genres) == 0 {
		fmt.Fprintln(stderr, "-genres is required")
		return 2
	}

	if *promptOnly {
		fmt.Fprintln(stdout, recommend.BuildPrompt(prefs))
		return 0
	}

	// Keep stdout clean for the result document.
	telemetry.Init(telemetry.Options{Level: cfg.LogLevel, Format: "console", Output: stderr})
	cfg.LLMModel = *model
	res := recommend.NewFetcher(bootstrap.NewCompleter(cfg)).Fetch(context.Background(), prefs)

	out, err := prettyJSON(res)
	if err != nil {
		fmt.Fprintf(stderr, "format result: %v\n", err)
		return 1
	}
	if _, err := stdout.Write(out); err != nil {
		return 1
	}
	if !res.OK() {
		return 1
	}
	return 0
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func prettyJSON(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
