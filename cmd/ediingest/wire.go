package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/blobstore"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/config"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/pipeline"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/sink"
)

// sinks are the configured row writers. db is nil unless SQLite is enabled.
type sinks struct {
	writer sink.Writer
	oracle sink.Oracle
	db     *sink.SQLite
}

func openSinks(ctx context.Context, cfg config.Config, log *slog.Logger) (*sinks, error) {
	var (
		writers []sink.Writer
		s       sinks
	)
	if cfg.SQLitePath != "" {
		db, err := sink.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		oracle, err := sink.NewCachedOracle(db, cfg.OracleCacheSize)
		if err != nil {
			db.Close()
			return nil, err
		}
		s.db = db
		s.oracle = oracle
		writers = append(writers, db)
		log.Info("sqlite sink enabled", "path", cfg.SQLitePath)
	}
	if cfg.XLSXExportDir != "" {
		x, err := sink.NewXLSX(cfg.XLSXExportDir)
		if err != nil {
			if s.db != nil {
				s.db.Close()
			}
			return nil, err
		}
		writers = append(writers, x)
		log.Info("xlsx sink enabled", "dir", cfg.XLSXExportDir)
	}
	if s.oracle == nil {
		log.Warn("no sqlite sink configured, duplicate filename check disabled")
	}
	if len(writers) == 1 {
		s.writer = writers[0]
	} else {
		s.writer = sink.NewMulti(writers...)
	}
	return &s, nil
}

// openProvider returns nil when neither BLOB_DIR nor BLOB_BASE_URL is set.
func openProvider(cfg config.Config) blobstore.Provider {
	switch {
	case cfg.BlobDir != "":
		return blobstore.NewDirProvider(cfg.BlobDir)
	case cfg.BlobBaseURL != "":
		return blobstore.NewClient(cfg.BlobBaseURL, cfg.BlobToken, cfg.MaxUploadBytes)
	}
	return nil
}

func transformOptions(cfg config.Config) pipeline.TransformOptions {
	return pipeline.TransformOptions{
		Delimiters:       cfg.Delimiters(),
		DetectDelimiters: cfg.DetectDelimiters,
	}
}
