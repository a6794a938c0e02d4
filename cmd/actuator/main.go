// Command actuator runs a single actuator entity process.
//
// # Usage
//
//	actuator <base_name> <kind>
//
// kind is one of Light, AirConditioning. The entity registers as
// "act_<base_name>".
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ede1998/home-automation/internal/actuator"
	"github.com/ede1998/home-automation/internal/entity"
	"github.com/ede1998/home-automation/internal/env"
	"github.com/ede1998/home-automation/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: actuator <base_name> <kind>")
	}
	kind, err := actuator.ParseKind(os.Args[2])
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
	a := actuator.New(os.Args[1], kind)
	logger := telemetry.NewClueLogger()

	app := entity.New(cfg, a, logger)
	if err := app.Connect(ctx); err != nil {
		return fmt.Errorf("connect %s: %w", a.Name(), err)
	}
	defer app.Close()

	logger.Info(ctx, "actuator registered", "name", a.Name(), "kind", kind.String())
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
