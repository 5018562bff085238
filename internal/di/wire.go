//go:build wireinject
// +build wireinject

package di

import (
	"OptionScan/pkg/config"
	"OptionScan/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Analysis pipeline
		ProvideClassifier,
		ProvideScorer,

		// Pricing and selection
		ProvideEngine,
		ProvideSelector,

		// Use case and application shell
		ProvideScanner,
		ProvideApp,
	)
	return &server.App{}, nil
}
