package main

import (
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/habedi/sessionctl/cmd"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"
)

func main() {
	configureLogLevelFromEnv(os.Stderr)

	stopChan := setupInterruptListener()
	go handleInterrupt(stopChan, func(msg string) { log.Error().Msg(msg) }, os.Exit)

	cmd.Execute()
}

// configureLogLevelFromEnv sends human-readable logs to w and enables debug
// logging when DEBUG_SESSIONCTL is set to anything but "", "0" or "false".
// Colors are used only when w is a terminal.
func configureLogLevelFromEnv(w io.Writer) {
	f, isFile := w.(*os.File)
	noColor := !isFile || !term.IsTerminal(int(f.Fd()))
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: noColor}).
		With().Timestamp().Logger()

	switch strings.ToLower(strings.TrimSpace(os.Getenv("DEBUG_SESSIONCTL"))) {
	case "", "0", "false":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func setupInterruptListener() chan os.Signal {
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt)
	return stopChan
}

// handleInterrupt waits for a signal on stopChan, logs, and exits with 1.
func handleInterrupt(stopChan chan os.Signal, logFn func(string), exit func(int)) {
	<-stopChan
	logFn("Interrupt signal received. Exiting...")
	exit(1)
}
