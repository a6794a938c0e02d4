// Command controller runs the home automation controller: the central
// broker owning the entity registry and the three server sockets
// (Discovery, Entity Data, Client API).
//
// # Configuration
//
// Environment variables:
//
//	HOME_AUTOMATION_DISCOVERY_ENDPOINT   - Discovery reply socket (required)
//	HOME_AUTOMATION_ENTITY_DATA_ENDPOINT - Subscriber socket (required)
//	HOME_AUTOMATION_CLIENT_API_ENDPOINT  - Client API reply socket (required)
package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/ede1998/home-automation/internal/controller"
	"github.com/ede1998/home-automation/internal/env"
	"github.com/ede1998/home-automation/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	telemetry.ConfigurePropagation()
	logger := telemetry.NewClueLogger()
	tracer := telemetry.NewClueTracer("controller")

	ctrl, err := controller.New(cfg, logger, tracer)
	if err != nil {
		return fmt.Errorf("create controller: %w", err)
	}
	defer ctrl.Destroy()

	logger.Info(ctx, "starting controller",
		"discovery", cfg.DiscoveryEndpoint,
		"entity_data", cfg.EntityDataEndpoint,
		"client_api", cfg.ClientAPIEndpoint,
	)

	return ctrl.Run(ctx)
}

func loadConfig() (controller.Config, error) {
	discoveryEndpoint, err := env.Required("HOME_AUTOMATION_DISCOVERY_ENDPOINT")
	if err != nil {
		return controller.Config{}, err
	}
	entityDataEndpoint, err := env.Required("HOME_AUTOMATION_ENTITY_DATA_ENDPOINT")
	if err != nil {
		return controller.Config{}, err
	}
	clientAPIEndpoint, err := env.Required("HOME_AUTOMATION_CLIENT_API_ENDPOINT")
	if err != nil {
		return controller.Config{}, err
	}
	return controller.Config{
		DiscoveryEndpoint:  discoveryEndpoint,
		EntityDataEndpoint: entityDataEndpoint,
		ClientAPIEndpoint:  clientAPIEndpoint,
	}, nil
}
