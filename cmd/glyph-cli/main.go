package main

import (
	"flag"
	"fmt"
	"os"

	"glyph-cli/internal/agent"
	anthropicmodel "glyph-cli/internal/agent/anthropic"
	openaimodel "glyph-cli/internal/agent/openai"
	"glyph-cli/internal/config"
	"glyph-cli/internal/logger"
	"glyph-cli/internal/session"
	"glyph-cli/internal/tui"
)

func main() {
	logger.Configure()

	configPath := flag.String("config", "", "config file path (default ~/.glyph/config.toml)")
	modelFlag := flag.String("model", "", "model name override")
	providerFlag := flag.String("provider", "", "provider override: anthropic, openai or echo")
	resumeFlag := flag.Bool("resume", false, "resume the most recent session")
	workdirFlag := flag.String("dir", "", "working directory (default cwd)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *modelFlag != "" {
		cfg.Model = *modelFlag
	}
	if *providerFlag != "" {
		cfg.Provider = *providerFlag
	}

	if logFile, path, err := logger.SetupFile(cfg.LogPath); err != nil {
		logger.Warnf("failed to initialize log file: %v", err)
	} else {
		defer logFile.Close()
		logger.Infof("logging to %s", path)
	}

	workdir := *workdirFlag
	if workdir == "" {
		if cwd, err := os.Getwd(); err == nil {
			workdir = cwd
		}
	}

	client, err := buildClient(cfg)
	if err != nil {
		logger.Fatalf("model client: %v", err)
	}

	opts := tui.Options{
		Client:           client,
		Model:            cfg.Model,
		Workdir:          workdir,
		MouseScrollLines: cfg.MouseScrollLines,
	}
	if *resumeFlag {
		rec, err := session.Last()
		if err != nil {
			logger.Warnf("resume: %v", err)
		} else {
			opts.InitialMessages = rec.Messages
			opts.ResumeSessionID = rec.ID
			if rec.Model != "" {
				opts.Model = rec.Model
			}
		}
	}

	result, err := tui.Run(opts)
	if err != nil {
		logger.Fatalf("tui: %v", err)
	}
	if result.SessionID != "" {
		fmt.Fprintf(os.Stderr, "session saved: %s\n", result.SessionID)
	}
}

func buildClient(cfg config.Config) (agent.ModelClient, error) {
	switch cfg.Provider {
	case "openai":
		key := cfg.Token
		if env := os.Getenv("OPENAI_API_KEY"); env != "" {
			key = env
		}
		return openaimodel.New(openaimodel.Options{
			APIKey:  key,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	case "echo":
		return agent.EchoClient{Prefix: "echo: "}, nil
	default:
		if cfg.Token == "" {
			logger.Warnf("no token configured, falling back to echo client")
			return agent.EchoClient{Prefix: "echo: "}, nil
		}
		return anthropicmodel.New(anthropicmodel.Options{
			Token:   cfg.Token,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
		})
	}
}
