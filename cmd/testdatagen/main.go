package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"

	"github.com/Taskana/TaskanaTestDataGenerator/pkg/testdatagen"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := testdatagen.Main(ctx, os.Args[1:]); err != nil {
		stop()
		log.Fatal().Err(err).Msg("testdatagen failed")
	}
}
