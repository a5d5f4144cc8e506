package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	pkgconfig "github.com/starford/ansuz/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()

	configPath := cmd.String("config")
	if _, err := os.Stat(configPath); err == nil {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if cmd.IsSet("config") {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// applyFlags lets command-line flags override file configuration.
func applyFlags(cmd *cli.Command, cfg *internal.Config) {
	if cmd.IsSet("vault") {
		cfg.Vault.Path = cmd.String("vault")
	}
	if cmd.IsSet("output") {
		cfg.Export.OutputPath = cmd.String("output")
	}
	if cmd.IsSet("note-prefix") {
		cfg.Export.NotePrefix = cmd.String("note-prefix")
	}
	if cmd.IsSet("asset-prefix") {
		cfg.Media.Prefix = cmd.String("asset-prefix")
	}
	if cmd.IsSet("verbosity") {
		cfg.App.Verbosity = int(cmd.Int("verbosity"))
	}
	if cmd.IsSet("media-output") {
		cfg.Media.OutputDir = cmd.String("media-output")
	}
	if cmd.IsSet("optimize-images") {
		cfg.Media.Optimize = cmd.Bool("optimize-images")
	}
	if cmd.IsSet("skip-media") {
		cfg.Media.Skip = cmd.Bool("skip-media")
	}
	if cmd.IsSet("skip-existing") {
		cfg.Media.SkipExisting = cmd.Bool("skip-existing")
	}
	if cmd.IsSet("force-reprocess") {
		cfg.Media.Force = cmd.Bool("force-reprocess")
	}
	if cmd.IsSet("domain") {
		cfg.Export.Domain = cmd.String("domain")
	}
	if cmd.IsSet("media-results") {
		cfg.Export.MediaResultsPath = cmd.String("media-results")
	}
	if cmd.IsSet("port") {
		cfg.Serve.Port = int(cmd.Int("port"))
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	opts := []internal.Option{
		internal.WithConfig(cfg),
		internal.WithWatch(cmd.Bool("watch")),
		internal.WithServe(cmd.Bool("serve")),
	}

	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.RunMCP(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("mcp run error: %w", err)
	}
	return nil
}

func main() {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to config file",
			Value:   "config/config.yaml",
			Sources: cli.EnvVars("ANSUZ_CONFIG_FILE"),
		},
		&cli.StringFlag{
			Name:    "vault",
			Aliases: []string{"i"},
			Usage:   "Path to the Obsidian vault (input directory)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Path of the pages JSON output file",
		},
		&cli.StringFlag{
			Name:  "note-prefix",
			Usage: "URI prefix for resolved note links",
		},
		&cli.StringFlag{
			Name:  "asset-prefix",
			Usage: "Public path prefix for optimized media",
		},
		&cli.IntFlag{
			Name:    "verbosity",
			Aliases: []string{"v"},
			Usage:   "Log verbosity, 0 (errors) to 3 (debug)",
		},
		&cli.StringFlag{
			Name:  "media-output",
			Usage: "Directory for optimized media output",
		},
		&cli.BoolFlag{
			Name:  "optimize-images",
			Usage: "Resize and re-encode images (disable to copy through)",
			Value: true,
		},
		&cli.BoolFlag{
			Name:  "skip-media",
			Usage: "Skip the media pipeline entirely",
		},
		&cli.BoolFlag{
			Name:  "skip-existing",
			Usage: "Do not rewrite media outputs that already exist",
		},
		&cli.BoolFlag{
			Name:  "force-reprocess",
			Usage: "Rewrite media outputs even when skip-existing is set",
		},
		&cli.StringFlag{
			Name:  "domain",
			Usage: "Domain for absolute asset URLs",
		},
		&cli.StringFlag{
			Name:  "media-results",
			Usage: "Optional path for the media catalog JSON file",
		},
		&cli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "Re-export when vault files change",
		},
		&cli.BoolFlag{
			Name:  "serve",
			Usage: "Serve the exported dataset with a preview API",
		},
		&cli.IntFlag{
			Name:  "port",
			Usage: "Preview server port",
		},
	}

	cmd := &cli.Command{
		Name:   "ansuz",
		Usage:  "Convert an Obsidian vault into a publishable JSON dataset with resolved wiki links and optimized media",
		Action: run,
		Flags:  flags,
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve the exported dataset over MCP stdio",
				Action: runMCP,
				Flags:  flags,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
