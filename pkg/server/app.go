// Package server hosts the application shell: it owns the only file I/O in
// the repository (reading a scan snapshot, writing the scan report) and
// hands everything else to the usecase layer.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"OptionScan/internal/domain/models"
	"OptionScan/internal/usecase"
	"OptionScan/pkg/config"
	applogger "OptionScan/pkg/logger"
)

// App encapsulates one scan invocation over a snapshot file.
type App struct {
	cfg     *config.Config
	scanner *usecase.Scanner
	log     *applogger.Logger
	out     io.Writer
}

// New creates an App writing its report to stdout.
func New(cfg *config.Config, scanner *usecase.Scanner, log *applogger.Logger) *App {
	return &App{cfg: cfg, scanner: scanner, log: log, out: os.Stdout}
}

// SetOutput redirects the scan report, for tests.
func (a *App) SetOutput(w io.Writer) { a.out = w }

// Run loads the snapshot, scans it, and writes the report as indented JSON.
func (a *App) Run(ctx context.Context, snapshotPath string) error {
	snap, err := LoadSnapshot(snapshotPath)
	if err != nil {
		return err
	}
	a.log.Info("snapshot loaded",
		applogger.String("path", snapshotPath),
		applogger.Int("tickers", len(snap.Universe)))

	result, err := a.scanner.Run(ctx, snap)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("write scan report: %w", err)
	}
	return nil
}

// LoadSnapshot reads a fully-fetched scan snapshot from disk. Producing the
// snapshot (market data providers, caching, retries) is the job of an
// external data layer.
func LoadSnapshot(path string) (models.ScanSnapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return models.ScanSnapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	var snap models.ScanSnapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return models.ScanSnapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	if len(snap.Universe) == 0 {
		return models.ScanSnapshot{}, fmt.Errorf("%w: snapshot has an empty universe", models.ErrInvalidInput)
	}
	return snap, nil
}
