package main

import (
	"os"

	"github.com/NHSDigital/im1-pfs-auth/cmd"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	config, err := cmd.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Unable to load configuration")
	}
	log.Info().Msg("Starting IM1 PFS authentication service")
	if err := cmd.Start(*config); err != nil {
		log.Fatal().Err(err).Msg("Service crashed")
	}
}
