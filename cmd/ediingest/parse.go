package main

import (
	"encoding/json"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/config"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/parser"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/pipeline"
	"github.com/Rahamath-Saniya-ms/edi-pipeline/internal/projector"
)

type parseOutput struct {
	Filename        string                  `json:"filename"`
	Segments        int                     `json:"segments"`
	SegmentsSkipped int                     `json:"segments_skipped"`
	Diagnostics     []parser.Diagnostic     `json:"diagnostics"`
	Counts          map[projector.Table]int `json:"counts"`
	Tables          *projector.Tables       `json:"tables"`
}

func newParseCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the projected tables and diagnostics of one file as JSON",
		Long: `Parse runs the tokenizer, interpreter and projector over FILE ("-" for
stdin) and prints the result without touching any sink.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			data, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			filename := name
			if filename == "" {
				filename = filepath.Base(args[0])
			}

			out := pipeline.Transform(string(data), filename, transformOptions(cfg))
			diags := out.Result.Diagnostics
			if diags == nil {
				diags = []parser.Diagnostic{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(parseOutput{
				Filename:        out.Filename,
				Segments:        out.Segments,
				SegmentsSkipped: out.Result.Skipped(),
				Diagnostics:     diags,
				Counts:          out.Tables.Counts(),
				Tables:          out.Tables,
			})
		},
	}
	cmd.Flags().StringVar(&name, "filename", "", "filename used to seed ids (default: base name of FILE)")
	return cmd
}
