package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aera-platform/riskengine/internal/application"
	"github.com/aera-platform/riskengine/internal/config"
	"github.com/aera-platform/riskengine/internal/domain/service"
	"github.com/aera-platform/riskengine/internal/infrastructure/audit"
	"github.com/aera-platform/riskengine/internal/infrastructure/monitoring"
	"github.com/aera-platform/riskengine/internal/infrastructure/persistence/postgres"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one nightly pipeline pass.",
	Long: `run executes one full pipeline pass over the current population:
risk scoring, k-means and DBSCAN clustering, isolation forest anomaly
detection, and region snapshot aggregation with drift against the
30-day-prior baseline. Every stage appends one audit record.`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log, err := monitoring.NewZapLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	tracing, err := monitoring.NewTracingManager(&cfg.Tracing, log)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tracing.Shutdown(shutdownCtx)
	}()

	db, err := postgres.NewConnection(ctx, &cfg.Database, log)
	if err != nil {
		return err
	}
	defer func() { _ = postgres.Close(db) }()

	var auditSink service.AuditService = audit.NewGormAuditService(db)
	if cfg.Kafka.Enabled {
		producer := audit.NewKafkaProducer(cfg.Kafka, log)
		defer func() { _ = producer.Close() }()
		auditSink = audit.NewTeeAuditService(auditSink, producer, log)
	}

	metrics := monitoring.NewPipelineMetrics(&cfg.Metrics, log)
	defer metrics.Push(ctx)

	pipeline := application.NewPipelineService(
		postgres.NewProfileRepository(db),
		postgres.NewSnapshotRepository(db),
		auditSink,
		metrics,
		log,
		cfg.Pipeline.ModelVersion,
	)

	summary, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "run %s completed: %d profiles scored, %d region snapshots written\n",
		summary.RunID, summary.ProfileCount, summary.SnapshotCount)
	return nil
}
