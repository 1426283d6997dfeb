package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/lepinkainen/videodedup/types"
	"github.com/lepinkainen/videodedup/ui"
	"github.com/lepinkainen/videodedup/utils"
	"github.com/lepinkainen/videodedup/video"
)

// CompareCmd scores two videos against each other and prints the
// per-channel breakdown behind the verdict.
type CompareCmd struct {
	FileA string `arg:"" name:"file-a" help:"First video file" type:"existingfile"`
	FileB string `arg:"" name:"file-b" help:"Second video file" type:"existingfile"`
}

func (cmd *CompareCmd) Run(appCtx *types.AppContext) error {
	cfg := appCtx.Config
	if err := utils.ValidateFFmpegDependencies(cfg.FFmpeg.FFmpegPath, cfg.FFmpeg.FFprobePath); err != nil {
		return err
	}

	pipeline := newPipeline(cfg, nil)
	ctx := context.Background()

	records, err := pipeline.ExtractAll(ctx, []string{cmd.FileA, cmd.FileB}, nil)
	if err != nil {
		return err
	}
	if len(records) != 2 {
		return fmt.Errorf("could not extract features for both files")
	}

	breakdown := video.SimilarityBreakdown(records[0], records[1])
	threshold := cfg.SimilarityThreshold

	fmt.Println(ui.HeaderStyle.Render("Similarity breakdown"))
	fmt.Printf("  pHash frames matched: %d\n", breakdown.Matched)
	fmt.Printf("  pHash score:          %.3f\n", breakdown.PHash)
	fmt.Printf("  aHash score:          %.3f\n", breakdown.AHash)
	fmt.Printf("  Audio score:          %.3f\n", breakdown.Audio)
	fmt.Printf("  Color score:          %.3f\n", breakdown.Color)
	fmt.Printf("  Overall:              %.3f (threshold %.2f)\n", breakdown.Overall, threshold)

	if breakdown.Overall >= threshold {
		fmt.Println(ui.SuccessStyle.Render("🎯 Likely duplicates"))
	} else {
		fmt.Println(ui.InfoStyle.Render("Not duplicates"))
	}

	log.Debug().
		Float64("overall", breakdown.Overall).
		Str("file_a", cmd.FileA).
		Str("file_b", cmd.FileB).
		Msg("comparison complete")
	return nil
}
