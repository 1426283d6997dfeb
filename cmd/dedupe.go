package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/lepinkainen/videodedup/config"
	"github.com/lepinkainen/videodedup/types"
	"github.com/lepinkainen/videodedup/ui"
	"github.com/lepinkainen/videodedup/utils"
	"github.com/lepinkainen/videodedup/video"
)

type DedupeCmd struct {
	Directory string   `arg:"" name:"directory" help:"Directory to scan for duplicate videos" type:"existingdir" default:"."`
	Threshold *float64 `help:"Similarity threshold (0.5-1.0), overrides config"`
	Workers   int      `help:"Number of parallel extraction workers (0 = config default)" default:"0"`
	NoTUI     bool     `name:"no-tui" help:"Disable interactive TUI and just list duplicate groups"`
}

func (cmd *DedupeCmd) Run(appCtx *types.AppContext) error {
	cfg := appCtx.Config
	if err := utils.ValidateFFmpegDependencies(cfg.FFmpeg.FFmpegPath, cfg.FFmpeg.FFprobePath); err != nil {
		return err
	}

	fmt.Println(ui.HeaderStyle.Render(fmt.Sprintf("videodedup %s", appCtx.Version)))

	root, err := filepath.Abs(cmd.Directory)
	if err != nil {
		return fmt.Errorf("failed to resolve directory: %w", err)
	}

	files, err := video.FindVideoFiles(root)
	if err != nil {
		return fmt.Errorf("failed to scan directory: %w", err)
	}
	if len(files) == 0 {
		fmt.Println(ui.InfoStyle.Render("No video files found"))
		return nil
	}
	fmt.Printf("Analyzing %d video files in %s...\n", len(files), root)

	cache := video.NewCache(cfg.CacheFile, log.Logger)
	if err := cache.Load(root); err != nil {
		return err
	}

	pipeline := newPipeline(cfg, cache)
	if cmd.Workers > 0 {
		pipeline.Workers = cmd.Workers
	}
	if cmd.Threshold != nil {
		pipeline.Clusterer = video.NewClusterer(*cmd.Threshold)
	}

	var groups []video.DuplicateGroup
	if cmd.NoTUI {
		groups, err = cmd.runPlain(pipeline, files)
	} else {
		groups, err = cmd.runTUI(pipeline, files)
	}

	// Records finished before a failure or cancellation are still valid.
	if saveErr := cache.Save(); saveErr != nil {
		log.Warn().Err(saveErr).Msg("failed to save feature cache")
	}
	if err != nil {
		return err
	}

	if len(groups) == 0 {
		fmt.Println(ui.SuccessStyle.Render("✅ No duplicates found"))
		return nil
	}

	if cmd.NoTUI {
		printGroups(groups)
		return nil
	}

	model := ui.NewDuplicatesModel(groups)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func (cmd *DedupeCmd) runPlain(pipeline *video.Pipeline, files []string) ([]video.DuplicateGroup, error) {
	bar := progressbar.Default(int64(len(files)), "analyzing")
	defer func() { _ = bar.Finish() }()

	return pipeline.DetectDuplicates(context.Background(), files, func(done, total int) {
		_ = bar.Set(done)
	})
}

// runTUI drives detection behind a bubbletea progress view. Quitting the
// view cancels the run; whatever completed stays cached.
func (cmd *DedupeCmd) runTUI(pipeline *video.Pipeline, files []string) ([]video.DuplicateGroup, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan tea.Msg, len(files)+2)
	go func() {
		groups, err := pipeline.DetectDuplicates(ctx, files, func(done, total int) {
			events <- ui.ProgressMsg{Done: done, Total: total}
		})
		events <- ui.DetectDoneMsg{Groups: groups, Err: err}
	}()

	p := tea.NewProgram(ui.NewDetectModel(len(files), events, cancel))
	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	model := final.(ui.DetectModel)
	if model.Cancelled() {
		return nil, context.Canceled
	}
	return model.Groups(), model.Err()
}

func printGroups(groups []video.DuplicateGroup) {
	fmt.Printf("\n%s\n", ui.InfoStyle.Render(fmt.Sprintf("Found %d group(s) of duplicates:", len(groups))))
	for i, group := range groups {
		fmt.Printf("\n🔸 Group %d (%d files):\n", i+1, group.Size())
		for _, file := range group.Paths {
			fmt.Printf("  %s\n", file)
		}
	}
}

func newPipeline(cfg *config.Config, cache *video.Cache) *video.Pipeline {
	extractor := video.NewExtractor(cache, log.Logger)
	extractor.FFmpegPath = cfg.FFmpeg.FFmpegPath
	extractor.FFprobePath = cfg.FFmpeg.FFprobePath
	extractor.FrameCount = cfg.FrameCount
	extractor.ProbeTimeout = cfg.ProbeTimeout()
	extractor.ExtractTimeout = cfg.ExtractTimeout()
	extractor.AudioTimeout = cfg.AudioTimeout()
	extractor.AudioSeconds = cfg.AudioSampleSecs

	pipeline := video.NewPipeline(extractor, log.Logger)
	pipeline.Workers = cfg.Workers
	pipeline.Clusterer = video.NewClusterer(cfg.SimilarityThreshold)
	return pipeline
}
