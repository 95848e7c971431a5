package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/navarrastar/contact-ingest/pkg/api"
	"github.com/navarrastar/contact-ingest/pkg/config"
	"github.com/navarrastar/contact-ingest/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logger.Setup(cfg.LogLevel)

	if !cfg.HasAPIKey() {
		log.Warn().Msg("SIO_API_KEY is not set; submissions will be rejected with 500")
	}

	lambda.Start(api.NewHandlersFromConfig(cfg).HandleLambda)
}
