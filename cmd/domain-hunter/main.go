package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/WangYihang/Domain-Hunter/pkg/application"
	"github.com/WangYihang/Domain-Hunter/pkg/domain/entity"
	"github.com/WangYihang/Domain-Hunter/pkg/infrastructure/export"
	"github.com/WangYihang/Domain-Hunter/pkg/interface/cli"
	"github.com/WangYihang/Domain-Hunter/pkg/interface/presenter"
	"github.com/WangYihang/Domain-Hunter/pkg/version"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

func main() {
	// Parse command line flags
	config, err := cli.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if config.Version {
		fmt.Println(version.Current())
		return
	}

	if err := run(config); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(config *cli.Config) error {
	assembler, err := cli.NewAssembler(config)
	if err != nil {
		return err
	}
	defer func() {
		if err := assembler.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}()
	logger := assembler.Logger()
	logger.WithField("version", version.Current().Short()).Debug("domain hunter starting")

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if config.IsSubaction() {
		return runSubaction(ctx, assembler, config)
	}

	useCase, err := assembler.AssembleUseCase(ctx)
	if err != nil {
		return err
	}

	if config.MetricsAddr != "" {
		go func() {
			if err := assembler.Metrics().Serve(ctx, config.MetricsAddr); err != nil {
				logger.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	huntConfig := config.HuntConfig()
	width := presenter.TerminalWidth()

	var (
		dashboard *presenter.Dashboard
		bar       *presenter.ProgressPresenter
		session   *application.HuntSession
	)
	if config.ShowDashboard {
		dashboard = presenter.NewDashboard(huntConfig, cancel)
		useCase.RegisterObserver(dashboard)
	} else {
		bar = presenter.NewProgressPresenter(os.Stderr, width)
		useCase.RegisterObserver(bar)
	}

	session, err = useCase.Start(ctx, huntConfig)
	if err != nil {
		return err
	}

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, stopping the hunt...")
			useCase.Cancel(session)
		case <-session.Done():
		}
	}()

	if dashboard != nil {
		// Run dashboard in TUI mode; the hunt keeps running in the background
		p := tea.NewProgram(dashboard, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			useCase.Cancel(session)
			return fmt.Errorf("TUI error: %w", err)
		}
		useCase.Cancel(session)
	}
	session.Wait()
	if bar != nil {
		bar.Wait()
	}

	results := useCase.Results(session, entity.ResultFilter{})
	presenter.PrintSummary(os.Stdout, useCase.Summary(session), results, width)

	return exportResults(config, results, logger)
}

func runSubaction(ctx context.Context, assembler *cli.Assembler, config *cli.Config) error {
	store, err := assembler.AssembleStore(ctx)
	if err != nil {
		return err
	}
	width := presenter.TerminalWidth()

	if config.Clear {
		if err := store.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear store: %w", err)
		}
		fmt.Fprintln(os.Stdout, "Store cleared")
	}

	if config.Stats {
		agg, err := store.Aggregate(ctx)
		if err != nil {
			return fmt.Errorf("failed to aggregate store: %w", err)
		}
		presenter.PrintAggregate(os.Stdout, agg, width)
	}

	if config.Recent > 0 {
		recent, err := store.QueryRecent(ctx, config.Recent)
		if err != nil {
			return fmt.Errorf("failed to query recent results: %w", err)
		}
		presenter.PrintResults(os.Stdout, recent, 0, width)
	}

	return nil
}

func exportResults(config *cli.Config, results []entity.DomainResult, logger logrus.FieldLogger) error {
	exports := []struct {
		path  string
		write func(*os.File) error
	}{
		{config.ExportCSV, func(f *os.File) error { return export.WriteCSV(f, results) }},
		{config.ExportJSON, func(f *os.File) error { return export.WriteJSON(f, results) }},
		{config.ExportXLSX, func(f *os.File) error { return export.WriteXLSX(f, results) }},
	}

	var errs []error
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		f, err := os.Create(e.path)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to create %s: %w", e.path, err))
			continue
		}
		if err := e.write(f); err != nil {
			errs = append(errs, fmt.Errorf("failed to export %s: %w", e.path, err))
		}
		if err := f.Close(); err != nil {
			errs = append(errs, err)
		}
		logger.WithFields(logrus.Fields{"file": e.path, "results": len(results)}).Info("exported results")
	}
	return errors.Join(errs...)
}
