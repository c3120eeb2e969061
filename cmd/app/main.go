package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/sowilo/internal"
	"github.com/starford/sowilo/internal/browse"
	"github.com/starford/sowilo/internal/client"
	"github.com/starford/sowilo/internal/docservice"
	"github.com/starford/sowilo/internal/mcpserver"
	"github.com/starford/sowilo/internal/render"
	"github.com/starford/sowilo/internal/storage"
	pkgconfig "github.com/starford/sowilo/pkg/config"
)

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

func runBrowse(ctx context.Context, cmd *cli.Command) error {
	c := client.New(client.Config{BaseURL: cmd.String("addr")})
	return browse.New(c, os.Stdin, os.Stdout).Run(ctx)
}

// runMCP serves the MCP tools over stdio against the local documents
// root, without the HTTP server. Logs stay on stderr; stdout belongs to
// the protocol.
func runMCP(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Docs.Path, 0o755); err != nil {
		return fmt.Errorf("create docs dir: %w", err)
	}
	store, err := storage.NewFS(cfg.Docs.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	return mcpserver.New(docservice.New(store, render.New())).ServeStdio()
}

// loadConfig starts from defaults and overlays the config file when it
// exists, so the binary works out of the box against ./docs.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfExists(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func main() {
	cmd := &cli.Command{
		Name:   "sowilo",
		Usage:  "Markdown documentation browser with a web UI, JSON API, terminal client, and MCP tools",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "browse",
				Usage:  "Browse a running server from the terminal",
				Action: runBrowse,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "Server base URL",
						Value:   "http://localhost:8080",
						Sources: cli.EnvVars("APP_SERVER_URL"),
					},
				},
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio for LLM integration",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
