package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/lepinkainen/videodedup/types"
	"github.com/lepinkainen/videodedup/ui"
	"github.com/lepinkainen/videodedup/utils"
)

// FeaturesCmd extracts and prints the feature record for one or more
// files, useful for checking what the scorer will actually see.
type FeaturesCmd struct {
	Files []string `arg:"" name:"files" help:"Video files to inspect" type:"existingfile"`
}

func (cmd *FeaturesCmd) Run(appCtx *types.AppContext) error {
	cfg := appCtx.Config
	if err := utils.ValidateFFmpegDependencies(cfg.FFmpeg.FFmpegPath, cfg.FFmpeg.FFprobePath); err != nil {
		return err
	}

	pipeline := newPipeline(cfg, nil)

	records, err := pipeline.ExtractAll(context.Background(), cmd.Files, nil)
	if err != nil {
		return err
	}

	for _, rec := range records {
		fmt.Println(ui.HeaderStyle.Render(rec.Path))
		fmt.Printf("  Duration:     %.1fs\n", rec.Duration)
		fmt.Printf("  File size:    %d bytes\n", rec.FileSize)
		fmt.Printf("  pHash frames: %d\n", len(rec.PerceptualHashes))
		for i, h := range rec.PerceptualHashes {
			fmt.Printf("    [%d] %s\n", i, h)
		}
		fmt.Printf("  aHash:        %s\n", valueOrMissing(rec.AverageHash))
		fmt.Printf("  Audio:        %s\n", valueOrMissing(rec.AudioFingerprint))
		fmt.Printf("  Histogram:    %d frame(s)\n", histogramFrames(rec.ColorHistogram))
	}

	if len(records) < len(cmd.Files) {
		fmt.Println(ui.ErrorStyle.Render(
			fmt.Sprintf("❌ %d file(s) could not be analyzed", len(cmd.Files)-len(records))))
	}
	return nil
}

func valueOrMissing(v string) string {
	if v == "" {
		return "(unavailable)"
	}
	return v
}

func histogramFrames(hist string) int {
	if hist == "" {
		return 0
	}
	return strings.Count(hist, "|") + 1
}
