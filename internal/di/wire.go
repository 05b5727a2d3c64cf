//go:build wireinject
// +build wireinject

package di

import (
	"FactorLab/pkg/config"
	"FactorLab/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideStorage,
		ProvideCache,
		ProvideResultPublisher,

		// Repositories
		ProvideFactorSource,
		ProvideFactorStore,
		ProvideReturnStore,
		ProvideResultStore,

		// Use cases
		ProvideProvisioner,
		ProvideRunner,

		// HTTP surface
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
