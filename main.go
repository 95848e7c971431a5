package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// A missing .env is fine; the platform provides the variables in production.
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file loaded")
	}

	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
