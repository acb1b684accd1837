// millwatt is the operator CLI: run an analysis on a local file or mint a session token.
//
// Usage:
//
//	millwatt bill --file bill.jpg [--locale en]
//	millwatt audio --file pump.webm [--locale ta]
//	millwatt token --user <uid>
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	appai "github.com/bryanwahyu/millwatt/internal/application/ai"
	"github.com/bryanwahyu/millwatt/internal/config"
	"github.com/bryanwahyu/millwatt/internal/domain/ai"
	"github.com/bryanwahyu/millwatt/internal/infra/ai/backend"
	"github.com/bryanwahyu/millwatt/internal/infra/ai/prompt"
	"github.com/bryanwahyu/millwatt/internal/infra/auth"
	"github.com/bryanwahyu/millwatt/internal/infra/logging"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "millwatt",
		Usage:   "Electricity bill and machine sound analysis for small factories",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "Path to config file",
				EnvVars: []string{"CONFIG_PATH"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Value: "warn",
				Usage: "Log level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			analyzeCommand("bill", "Analyze a photographed electricity bill"),
			analyzeCommand("audio", "Diagnose a machine audio recording"),
			tokenCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode gives each pipeline error kind its own status for scripts.
func exitCode(err error) int {
	switch ai.KindOf(err) {
	case ai.KindConfiguration:
		return 3
	case ai.KindInvalidRequest:
		return 4
	case ai.KindExhausted, ai.KindTransport:
		return 5
	case ai.KindMalformed:
		return 6
	}
	return 1
}

func analyzeCommand(name, usage string) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Path to the media file", Required: true},
			&cli.StringFlag{Name: "locale", Aliases: []string{"l"}, Value: "en", Usage: "Response language (en, ta)"},
			&cli.StringFlag{Name: "mime", Usage: "Override the detected MIME type"},
			&cli.StringSliceFlag{Name: "model", Usage: "Model candidates in order (defaults to config)"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			logger := logging.New(c.String("log-level"), "console", os.Stderr)

			locale, err := ai.ParseLocale(c.String("locale"))
			if err != nil {
				return err
			}
			data, err := os.ReadFile(c.String("file"))
			if err != nil {
				return err
			}
			mimeType := c.String("mime")
			if mimeType == "" {
				mimeType = mimetype.Detect(data).String()
			}

			pipeline, err := newPipeline(cfg, c.StringSlice("model"), logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			var (
				result any
				meta   appai.Meta
			)
			if name == "bill" {
				result, meta, err = pipeline.RunBillAnalysis(ctx, data, mimeType, locale)
			} else {
				result, meta, err = pipeline.RunAudioAnalysis(ctx, data, mimeType, locale)
			}
			if err != nil {
				return err
			}
			return printJSON(map[string]any{"result": result, "meta": meta})
		},
	}
}

func newPipeline(cfg *config.Config, models []string, logger zerolog.Logger) (*appai.Service, error) {
	client, err := backend.New(backend.Settings{
		Provider:   cfg.AI.Provider,
		APIKey:     cfg.AI.APIKey,
		BaseURL:    cfg.AI.BaseURL,
		APIVersion: cfg.AI.APIVersion,
	})
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		models = cfg.AI.Models
	}
	return appai.NewService(client, prompt.Templates{}, appai.Options{Models: models, Timeout: cfg.AI.Timeout}, logger), nil
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Mint a session token for local testing",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "User id (subject)", Required: true},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			tokens, err := auth.NewTokens(cfg.Auth.Secret, cfg.Auth.TokenTTL)
			if err != nil {
				return err
			}
			tok, err := tokens.Issue(c.String("user"))
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
