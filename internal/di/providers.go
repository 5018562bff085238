package di

import (
	"OptionScan/internal/analysis"
	"OptionScan/internal/pricing"
	"OptionScan/internal/selection"
	"OptionScan/internal/usecase"
	"OptionScan/pkg/config"
	applogger "OptionScan/pkg/logger"
	"OptionScan/pkg/metrics"
	"OptionScan/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
}

// ProvideMetrics creates the Prometheus recorder.
func ProvideMetrics() *metrics.Recorder {
	return metrics.New()
}

// ProvideClassifier creates the direction classifier.
func ProvideClassifier(cfg *config.Config) *analysis.Classifier {
	return analysis.NewClassifier(cfg.Direction)
}

// ProvideScorer creates the universe scorer.
func ProvideScorer(cfg *config.Config, classifier *analysis.Classifier, log *applogger.Logger) *analysis.Scorer {
	return analysis.NewScorer(cfg.Scoring, classifier, log)
}

// ProvideEngine creates the BSM pricing engine.
func ProvideEngine(cfg *config.Config, log *applogger.Logger, rec *metrics.Recorder) *pricing.Engine {
	return pricing.NewEngine(cfg.Pricing, log, rec)
}

// ProvideSelector creates the contract selector.
func ProvideSelector(cfg *config.Config, engine *pricing.Engine, log *applogger.Logger, rec *metrics.Recorder) *selection.Selector {
	return selection.NewSelector(cfg.Selection, engine, log, rec)
}

// ProvideScanner creates the scan usecase.
func ProvideScanner(cfg *config.Config, scorer *analysis.Scorer, selector *selection.Selector, log *applogger.Logger, rec *metrics.Recorder) *usecase.Scanner {
	return usecase.NewScanner(cfg, scorer, selector, log, rec)
}

// ProvideApp creates the application shell.
func ProvideApp(cfg *config.Config, scanner *usecase.Scanner, log *applogger.Logger) *server.App {
	return server.New(cfg, scanner, log)
}
