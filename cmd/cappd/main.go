// Command cappd is the Cappuccino daemon: it owns the clip database and
// serves the IPC socket and local HTTP capture API until signaled to stop.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"cappuccino/internal/config"
	"cappuccino/internal/daemonrun"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	if err := daemonrun.Run(context.Background(), cfg, daemonrun.Options{LogLevel: *logLevel}); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
