package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/pipeline"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/sink"
)

type ingestOptions struct {
	force  bool
	dryRun bool
	runID  string
}

func newIngestCmd() *cobra.Command {
	opts := &ingestOptions{}
	cmd := &cobra.Command{
		Use:   "ingest FILE...",
		Short: "Ingest local EDI files into the configured sinks",
		Long: `Ingest reads each file, projects it into rows and writes them to the
configured sinks. Files whose name was already ingested are skipped unless
--force is given. With --dry-run rows are kept in memory and only counted.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, opts, args)
		},
	}
	cmd.Flags().BoolVar(&opts.force, "force", false, "ingest even when the filename was seen before")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "parse and project without writing to the configured sinks")
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "run id for a single file (default: generated)")
	return cmd
}

func runIngest(cmd *cobra.Command, opts *ingestOptions, paths []string) error {
	if opts.runID != "" && len(paths) > 1 {
		return fmt.Errorf("--run-id needs exactly one file, got %d", len(paths))
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cmd.ErrOrStderr(), cfg)
	ctx := cmd.Context()

	var deps pipeline.Deps
	if opts.dryRun {
		mem := sink.NewMemory()
		deps = pipeline.Deps{Writer: mem, Oracle: mem}
	} else {
		out, err := openSinks(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer out.writer.Close()
		deps = pipeline.Deps{Writer: out.writer, Oracle: out.oracle}
	}
	worker := pipeline.NewWorker(deps, transformOptions(cfg), log)

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tSTATUS\tSEGMENTS\tSKIPPED\tROWS\tRUN")
	failed := 0
	for _, path := range paths {
		job, err := ingestFile(cmd, worker, opts, path)
		if err != nil {
			failed++
			fmt.Fprintf(tw, "%s\t%s\t-\t-\t-\t-\n", path, err)
			continue
		}
		snap := job.Snapshot()
		rows := snap.Progress.RowsStored
		if opts.dryRun {
			rows = snap.Progress.RowsProjected
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			path, snap.Status, snap.Progress.Segments, snap.Progress.Skipped, rows, snap.RunID)
		if snap.Status == pipeline.StatusFailed {
			failed++
		}
	}
	tw.Flush()

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(paths))
	}
	return nil
}

func ingestFile(cmd *cobra.Command, worker *pipeline.Worker, opts *ingestOptions, path string) (*pipeline.Job, error) {
	data, err := readInput(cmd.InOrStdin(), path)
	if err != nil {
		return nil, err
	}
	job := pipeline.NewJob(opts.runID, "", filepath.Base(path), opts.force)
	job.SetFileData(data)
	worker.Process(cmd.Context(), job)
	return job, nil
}

// readInput reads path, or stdin when path is "-".
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}
