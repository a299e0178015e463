// Command navsession runs the navigation session service.
//
// Usage:
//
//	navsession serve
//	navsession start <routeId>
//	navsession heartbeat <sessionId>
//	navsession put-route <routeId> <file>
//
// Configuration comes from an optional YAML file (--config or NAVSESSION_CONFIG)
// and environment variables; a .env file in the working directory is loaded first.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to load .env file, continuing with system environment variables only")
	}

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
