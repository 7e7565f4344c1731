package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	app "github.com/diwise/edr-server/internal/pkg/application/edr"
	"github.com/diwise/edr-server/internal/pkg/infrastructure/datasets"
	"github.com/diwise/edr-server/internal/pkg/infrastructure/metrics"
	"github.com/diwise/edr-server/internal/pkg/infrastructure/router"
	"github.com/diwise/edr-server/internal/pkg/presentation/api/edr"
	"github.com/diwise/edr-server/pkg/edr/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
)

const serviceName string = "edr-server"

func main() {
	serviceVersion := buildinfo.SourceVersion()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ctx, log, cleanup := o11y.Init(ctx, serviceName, serviceVersion, "json")
	defer cleanup()

	var serviceFile, datasetsFile string

	flag.StringVar(&serviceFile, "service", "/opt/diwise/config/service.yaml", "A service description file")
	flag.StringVar(&datasetsFile, "datasets", "/opt/diwise/config/datasets.yaml", "A dataset catalogue file")
	flag.Parse()

	servicePort := env.GetVariableOrDefault(ctx, "SERVICE_PORT", "8080")
	baseURL := env.GetVariableOrDefault(ctx, "SERVICE_URL", "http://localhost:"+servicePort)

	service, err := loadServiceMetadata(serviceFile)
	if err != nil {
		log.Error("could not load service metadata", "err", err.Error())
		os.Exit(1)
	}

	provider, err := loadDatasets(datasetsFile, baseURL)
	if err != nil {
		log.Error("could not load dataset catalogue", "err", err.Error())
		os.Exit(1)
	}

	metricsProvider := metrics.Init(serviceName, serviceVersion)

	a, err := app.New(provider, service, baseURL, metricsProvider.Registerer())
	if err != nil {
		log.Error("could not create application", "err", err.Error())
		os.Exit(1)
	}

	count, err := a.RefreshCollections(ctx)
	if err != nil {
		log.Error("could not prewarm collections cache", "err", err.Error())
		os.Exit(1)
	}
	log.Info("prewarmed collections cache", "collections", count)

	r := router.New(serviceName)

	err = edr.RegisterHandlers(ctx, r, a, metricsProvider.Handler())
	if err != nil {
		log.Error("could not register handlers", "err", err.Error())
		os.Exit(1)
	}

	webServer := &http.Server{Addr: ":" + servicePort, Handler: r}

	go func() {
		log.Info("starting web server", "port", servicePort)

		if err := webServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("could not listen and serve", "err", err.Error())
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	webServer.Shutdown(ctx)
}

func loadServiceMetadata(path string) (types.ServiceMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return types.ServiceMetadata{}, fmt.Errorf("unable to open service description file: %w", err)
	}
	defer f.Close()

	return app.LoadServiceMetadata(f)
}

func loadDatasets(path, baseURL string) (*datasets.Provider, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open dataset catalogue file: %w", err)
	}
	defer f.Close()

	return datasets.Load(f, baseURL)
}
