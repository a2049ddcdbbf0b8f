// LLM Security Playground TUI - a terminal client for red-teaming LLM
// pipelines against an adversarial testing backend.
//
// Copyright (c) 2025 The LLM Security Playground Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nyxragon/LLM-Security-Playground/internal/backend"
	"github.com/nyxragon/LLM-Security-Playground/internal/config"
	"github.com/nyxragon/LLM-Security-Playground/internal/modes"
	"github.com/nyxragon/LLM-Security-Playground/internal/session"
	"github.com/nyxragon/LLM-Security-Playground/internal/store"
	"github.com/nyxragon/LLM-Security-Playground/internal/ui/chat"
	"github.com/nyxragon/LLM-Security-Playground/internal/upload"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			fmt.Printf("playground %s (%s)\n", Version, GitCommit)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	if path := os.Getenv("PLAYGROUND_DEBUG"); path != "" {
		f, err := tea.LogToFile(path, "playground")
		if err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	client := backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL: cfg.Backend.URL,
		Timeout: cfg.RequestTimeout(),
	})

	catalog := modes.NewCatalog()
	st := store.New()
	ctrl := session.NewController(catalog, st)
	if cfg.Backend.DefaultMode != ctrl.Mode() {
		// Config may start the session in a different mode. There is no
		// conversation yet, so the reset is a no-op.
		if _, err := ctrl.ChangeMode(cfg.Backend.DefaultMode); err != nil {
			fmt.Fprintf(os.Stderr, "config: unknown default mode %q\n", cfg.Backend.DefaultMode)
			os.Exit(1)
		}
	}

	m := chat.New(client, cfg, st, upload.NewManager(st), ctrl, catalog)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "playground: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`LLM Security Playground - adversarial testing terminal

Usage:
  playground            start the interactive session
  playground version    print version information

Environment:
  PLAYGROUND_URL           backend base URL (default http://127.0.0.1:8000)
  PLAYGROUND_MODE          starting mode: simple, guardrails, rag, multiuser
  PLAYGROUND_TIMEOUT_SECS  per-request timeout in seconds
  PLAYGROUND_THEME         dark, light, or auto

Config file: ~/.playground/config.toml`)
}
