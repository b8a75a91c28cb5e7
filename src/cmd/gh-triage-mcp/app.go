package main

import (
	"context"
	"fmt"

	"gh-triage-mcp/src/archive"
	"gh-triage-mcp/src/broker"
	"gh-triage-mcp/src/config"
	"gh-triage-mcp/src/contracts"
	"gh-triage-mcp/src/githubapi"
	"gh-triage-mcp/src/history"
	"gh-triage-mcp/src/logger"
	"gh-triage-mcp/src/workflowlogs"
)

// app holds the wired collaborators shared by the commands.
type app struct {
	cfg          *config.Config
	log          logger.Logger
	github       *githubapi.Client
	fetcher      *archive.Fetcher
	history      history.Store
	broker       broker.Broker
	publisher    *broker.Publisher
	orchestrator *workflowlogs.Orchestrator

	closers []func() error
}

// newApp wires the GitHub client, fetcher, optional sinks and orchestrator.
// Without POSTGRES_DSN the history lives in memory for the process lifetime.
func newApp(ctx context.Context, cfg *config.Config, log logger.Logger) (*app, error) {
	a := &app{
		cfg:     cfg,
		log:     log,
		github:  githubapi.NewClientWithBaseURL(cfg.GitHubToken, cfg.APIBaseURL, nil),
		fetcher: archive.NewFetcher(nil, &archive.UnzipExtractor{Path: cfg.UnzipPath}, logger.Named(log, "archive")),
	}

	var recorders workflowlogs.Recorders

	if cfg.PostgresDSN != "" {
		store, err := history.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		a.history = store
		a.closers = append(a.closers, store.Close)
		log.Info("recording analyses in Postgres")
	} else {
		a.history = history.NewMemoryStore()
	}
	recorders = append(recorders, workflowlogs.StoreRecorder(a.history))

	if len(cfg.RedpandaBrokers) > 0 {
		b, err := broker.NewRedpandaBroker(cfg.RedpandaBrokers, logger.Named(log, "broker"))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.broker = b
	} else {
		// Without Redpanda, analysis events stay in process and are only logged.
		b := broker.NewInMemoryBroker()
		a.broker = b
		go a.logEvents(ctx, b)
	}
	a.closers = append(a.closers, a.broker.Close)
	a.publisher = broker.NewPublisher(a.broker, cfg.AnalysisTopic)
	recorders = append(recorders, workflowlogs.PublisherRecorder(a.publisher))
	log.Debug("publishing analyses to topic %s", a.publisher.Topic())

	a.orchestrator = workflowlogs.New(workflowlogs.Options{
		OutputDir:  cfg.OutputDir,
		Folder:     cfg.BazelLogsFolder,
		Downloader: a.fetcher,
		Resolver:   a.github,
		Recorder:   recorders,
		Logger:     logger.Named(log, "workflowlogs"),
	})
	return a, nil
}

// logEvents logs each analysis event published to the in-process broker.
func (a *app) logEvents(ctx context.Context, b broker.Broker) {
	err := broker.Watch(ctx, b, a.cfg.AnalysisTopic, "event-log", func(r contracts.AnalysisRecord) {
		a.log.Info("analysis %s of %s: %s", r.ID, describeSource(r), r.Result.ErrorSummary)
	}, func(err error) {
		a.log.Error("skipping analysis event: %v", err)
	})
	if err != nil && ctx.Err() == nil {
		a.log.Error("analysis event log stopped: %v", err)
	}
}

func describeSource(r contracts.AnalysisRecord) string {
	if r.Owner != "" && r.Repo != "" {
		return fmt.Sprintf("%s/%s run %d", r.Owner, r.Repo, r.RunID)
	}
	return r.SourceURL
}

// Close releases the sinks in reverse order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Error("close failed: %v", err)
		}
	}
	a.closers = nil
}
