package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/laguz/internal"
	"github.com/starford/laguz/internal/report"
	pkgconfig "github.com/starford/laguz/pkg/config"
)

const defaultConfigFile = "config/config.yaml"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadWithDefaults(cmd.String("config"), defaultConfigFile, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func build(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res, err := internal.Build(ctx, internal.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	report.Summary(os.Stderr, res)
	return nil
}

func check(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res, err := internal.Check(ctx, internal.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	if n := report.Unresolved(os.Stdout, res); n > 0 && cmd.Bool("strict") {
		return fmt.Errorf("%d unresolved links", n)
	}
	return nil
}

func mcp(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:   "laguz",
		Usage:  "Zettelkasten reference resolver: note links, citations, literature notes and backlinks",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file (.yaml or .toml)",
				DefaultText: "laguz.yaml, falling back to " + defaultConfigFile,
				Value:       "laguz.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Build, then serve the site, REST API and build events; rebuild on change",
				Action: serve,
			},
			{
				Name:   "build",
				Usage:  "Run one full build and write the rendered site",
				Action: build,
			},
			{
				Name:   "check",
				Usage:  "Resolve references without rendering and list unresolved ones",
				Action: check,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "strict",
						Usage: "Exit non-zero when any note link is unresolved",
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve reference tools over the Model Context Protocol on stdio",
				Action: mcp,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
