// Command sensor runs a single sensor entity process.
//
// # Usage
//
//	sensor <base_name> <kind>
//
// kind is one of Temperature, Humidity. The entity registers as
// "sen_<base_name>".
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ede1998/home-automation/internal/entity"
	"github.com/ede1998/home-automation/internal/env"
	"github.com/ede1998/home-automation/internal/sensor"
	"github.com/ede1998/home-automation/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: sensor <base_name> <kind>")
	}
	kind, err := sensor.ParseKind(os.Args[2])
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry.ConfigurePropagation()
	s := sensor.New(os.Args[1], kind)
	logger := telemetry.NewClueLogger()

	app := entity.New(cfg, s, logger)
	if err := app.Connect(ctx); err != nil {
		return fmt.Errorf("connect %s: %w", s.Name(), err)
	}
	defer app.Close()

	logger.Info(ctx, "sensor registered", "name", s.Name(), "kind", kind.String())
	return app.Run(ctx)
}

func loadConfig() (entity.Config, error) {
	discoveryEndpoint, err := env.Required("HOME_AUTOMATION_DISCOVERY_ENDPOINT")
	if err != nil {
		return entity.Config{}, err
	}
	entityDataEndpoint, err := env.Required("HOME_AUTOMATION_ENTITY_DATA_ENDPOINT")
	if err != nil {
		return entity.Config{}, err
	}
	return entity.Config{DiscoveryEndpoint: discoveryEndpoint, EntityDataEndpoint: entityDataEndpoint}, nil
}
