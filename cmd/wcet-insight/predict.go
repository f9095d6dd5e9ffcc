package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/pipeline"
	"github.com/SwaroopShivaraiTeli/GithubSmart-WCET-Insight-Engine/internal/render"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	inputPath  string
	outputPath string
	plotsDir   string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run one metrics CSV through the pipeline and write the results to disk",
	Args:  cobra.NoArgs,
	RunE:  runPredict,
}

func init() {
	predictCmd.Flags().StringVarP(&inputPath, "input", "i", "", "metrics CSV to predict (required)")
	predictCmd.Flags().StringVarP(&outputPath, "output", "o", pipeline.DownloadFileName, "where to write the result CSV")
	predictCmd.Flags().StringVar(&plotsDir, "plots-dir", "", "directory for the summary and detail plots, skipped when empty")
	_ = predictCmd.MarkFlagRequired("input")
}

func runPredict(cmd *cobra.Command, args []string) error {
	p := bootstrap()

	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	res, err := p.Run(in)
	if err != nil {
		return err
	}
	for _, w := range res.Warnings {
		log.Warn().Msg(w)
	}
	if err := writeFile(outputPath, res.Download.Bytes); err != nil {
		return err
	}
	if plotsDir != "" {
		for _, figure := range []*render.Figure{res.SummaryFigure, res.DetailFigure} {
			if err := writeFile(filepath.Join(plotsDir, figure.FileName), figure.Bytes); err != nil {
				return err
			}
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d rows predicted, results written to %s (upload %s)\n",
		res.Output.Len(), outputPath, res.UploadID)
	return nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
