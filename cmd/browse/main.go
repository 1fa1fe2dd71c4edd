package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/webview-runtime/engine"
)

func main() {
	var (
		startURL = flag.String("url", "", "Page to open on start")
		debugLog = flag.String("debug", "", "Write a debug log to this file")
	)
	flag.Parse()

	if flag.NArg() > 0 && *startURL == "" {
		*startURL = flag.Arg(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "browse: stdout is not a terminal")
		os.Exit(1)
	}

	if *debugLog != "" {
		cfg := zap.NewProductionConfig()
		cfg.OutputPaths = []string{*debugLog}
		cfg.ErrorOutputPaths = []string{*debugLog}
		logger, err := cfg.Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "browse: cannot open debug log: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		engine.SetLogger(logger)
	}

	start := *startURL
	if start != "" {
		start = normalizeURL(start)
	}

	p := tea.NewProgram(newBrowserModel(start),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "browse: %v\n", err)
		os.Exit(1)
	}
}
