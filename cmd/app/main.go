package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/s-oshima-kops/automakedoc/internal"
	"github.com/s-oshima-kops/automakedoc/internal/apperr"
	"github.com/s-oshima-kops/automakedoc/internal/models"
	"github.com/s-oshima-kops/automakedoc/internal/render"
	pkgconfig "github.com/s-oshima-kops/automakedoc/pkg/config"
)

func newApp(cmd *cli.Command) (*internal.App, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	found, err := pkgconfig.LoadIfPresent(configPath, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if !found && cmd.IsSet("config") {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	return internal.New(internal.WithConfig(cfg))
}

func parseDate(arg string) (time.Time, error) {
	if arg == "" || arg == "today" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(models.DateKeyLayout, arg)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", arg, apperr.ErrInvalidArgument)
	}
	return t, nil
}

func runSave(ctx context.Context, cmd *cli.Command) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	date, err := parseDate(cmd.Args().First())
	if err != nil {
		return err
	}

	body := cmd.String("body")
	if body == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		body = string(data)
	}
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("entry body is empty: %w", apperr.ErrInvalidArgument)
	}

	if err := app.SaveEntry(date, body, cmd.StringSlice("tag")); err != nil {
		return err
	}
	fmt.Printf("saved %s\n", date.Format(models.DateKeyLayout))
	return nil
}

func runShow(ctx context.Context, cmd *cli.Command) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	date, err := parseDate(cmd.Args().First())
	if err != nil {
		return err
	}
	entry, err := app.Store.Get(date)
	if err != nil {
		return err
	}
	fmt.Printf("【%s】\n%s\n", models.FormatDateJa(entry.Date), entry.Body)
	if len(entry.Tags) > 0 {
		fmt.Printf("tags: %s\n", strings.Join(entry.Tags, ", "))
	}
	return nil
}

func runDelete(ctx context.Context, cmd *cli.Command) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	date, err := parseDate(cmd.Args().First())
	if err != nil {
		return err
	}
	if err := app.DeleteEntry(date); err != nil {
		return err
	}
	fmt.Printf("deleted %s\n", date.Format(models.DateKeyLayout))
	return nil
}

// parseOverrides turns repeated --set name=value flags into field overrides.
// A value containing commas becomes a list.
func parseOverrides(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	overrides := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid override %q (want name=value): %w", pair, apperr.ErrInvalidArgument)
		}
		if strings.Contains(value, ",") {
			parts := strings.Split(value, ",")
			items := make([]any, 0, len(parts))
			for _, p := range parts {
				items = append(items, strings.TrimSpace(p))
			}
			overrides[name] = items
		} else {
			overrides[name] = value
		}
	}
	return overrides, nil
}

func runRender(ctx context.Context, cmd *cli.Command) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	schema, err := app.Templates.Get(cmd.String("template"))
	if err != nil {
		return err
	}
	start, err := parseDate(cmd.String("from"))
	if err != nil {
		return err
	}
	end, err := parseDate(cmd.String("to"))
	if err != nil {
		return err
	}
	overrides, err := parseOverrides(cmd.StringSlice("set"))
	if err != nil {
		return err
	}

	req := render.Request{Start: start, End: end, Overrides: overrides}

	formats := make([]render.Format, 0, 1)
	for _, name := range cmd.StringSlice("format") {
		f, err := render.ParseFormat(name)
		if err != nil {
			return err
		}
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		if schema.OutputFormat != "" {
			f, err := render.ParseFormat(schema.OutputFormat)
			if err != nil {
				return err
			}
			formats = append(formats, f)
		} else {
			formats = append(formats, render.FormatText)
		}
	}

	docs, err := app.Renderer.RenderAll(schema, req, formats)
	if err != nil {
		return err
	}

	if cmd.Bool("stdout") {
		if len(docs) > 1 {
			return fmt.Errorf("--stdout allows a single format: %w", apperr.ErrInvalidArgument)
		}
		_, err := os.Stdout.Write(docs[0].Data)
		return err
	}

	outDir := cmd.String("out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, doc := range docs {
		path := filepath.Join(outDir, doc.Filename)
		if err := os.WriteFile(path, doc.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %v: %w", path, err, apperr.ErrWriteFailure)
		}
		fmt.Println(path)
	}
	return nil
}

func runTemplates(ctx context.Context, cmd *cli.Command) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	infos, err := app.Templates.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("no templates found")
		return nil
	}
	for _, info := range infos {
		line := fmt.Sprintf("%s\t%s", info.ID, info.Name)
		if info.Description != "" {
			line += "\t" + info.Description
		}
		fmt.Println(line)
	}
	return nil
}

func runSearch(ctx context.Context, cmd *cli.Command) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	query := cmd.Args().First()
	if query == "" {
		return fmt.Errorf("search query is required: %w", apperr.ErrInvalidArgument)
	}
	results, err := app.Index.Search(query, int(cmd.Int("limit")))
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for _, r := range results {
		fmt.Printf("%s\t%s\n", r.Date, r.Snippet)
	}
	return nil
}

func runStats(ctx context.Context, cmd *cli.Command) error {
	app, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer app.Close()

	stats, err := app.Index.Stats()
	if err != nil {
		return err
	}
	fmt.Printf("entries: %d\n", stats.TotalEntries)
	if stats.TotalEntries > 0 {
		fmt.Printf("first:   %s\n", stats.FirstDate)
		fmt.Printf("last:    %s\n", stats.LastDate)
	}
	fmt.Printf("chars:   %d\n", stats.TotalChars)
	return nil
}

func main() {
	configFlag := &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}

	cmd := &cli.Command{
		Name:  "automakedoc",
		Usage: "Work-log report generator with extractive Japanese summarization",
		Flags: []cli.Flag{configFlag},
		Commands: []*cli.Command{
			{
				Name:      "save",
				Usage:     "Save a work-log entry for a date (body from --body or stdin)",
				ArgsUsage: "[YYYY-MM-DD|today]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "body", Aliases: []string{"b"}, Usage: "Entry body text"},
					&cli.StringSliceFlag{Name: "tag", Aliases: []string{"t"}, Usage: "Tag for the entry (repeatable)"},
				},
				Action: runSave,
			},
			{
				Name:      "show",
				Usage:     "Print the entry stored for a date",
				ArgsUsage: "[YYYY-MM-DD|today]",
				Action:    runShow,
			},
			{
				Name:      "delete",
				Usage:     "Delete the entry stored for a date",
				ArgsUsage: "[YYYY-MM-DD|today]",
				Action:    runDelete,
			},
			{
				Name:  "render",
				Usage: "Generate a report from stored entries",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "template", Aliases: []string{"T"}, Usage: "Template id", Required: true},
					&cli.StringFlag{Name: "from", Usage: "Range start (YYYY-MM-DD)", Required: true},
					&cli.StringFlag{Name: "to", Usage: "Range end (YYYY-MM-DD)", Required: true},
					&cli.StringSliceFlag{Name: "format", Aliases: []string{"f"}, Usage: "Output format: text, csv, xlsx, docx (repeatable)"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output directory", Value: "."},
					&cli.BoolFlag{Name: "stdout", Usage: "Write to stdout instead of a file"},
					&cli.StringSliceFlag{Name: "set", Usage: "Field override name=value (comma-separated values form a list)"},
				},
				Action: runRender,
			},
			{
				Name:   "templates",
				Usage:  "List available report templates",
				Action: runTemplates,
			},
			{
				Name:      "search",
				Usage:     "Search stored entries by keyword",
				ArgsUsage: "QUERY",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Usage: "Maximum number of results", Value: 20},
				},
				Action: runSearch,
			},
			{
				Name:   "stats",
				Usage:  "Show statistics about the stored history",
				Action: runStats,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrInvalidArgument) {
			fmt.Fprintln(os.Stderr, err)
		} else {
			slog.Error("application error", slog.String("error", err.Error()))
		}
		os.Exit(1)
	}
}
