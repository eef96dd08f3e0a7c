package services

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/disintegration/imaging"

	"manga-translator/internal/config"
	"manga-translator/internal/logger"
	"manga-translator/internal/scheduler"
	"manga-translator/internal/slicer"
	"manga-translator/internal/worker"
	"manga-translator/models"
)

type ProgressCallback func(stage string, percent int, message string)

// Pipeline runs the full page translation: load, slice, schedule chunk
// translations, and write the output files.
type Pipeline struct {
	config     *models.Config
	translator Translator
	suggester  ZoneSuggester
	onProgress ProgressCallback
}

func NewPipeline(cfg *models.Config) *Pipeline {
	p := &Pipeline{config: cfg}

	switch cfg.Provider {
	case "mock":
		m := NewMockService()
		p.translator = m
		p.suggester = m
	default: // gemini
		g := NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel)
		p.translator = g
		p.suggester = g
	}

	return p
}

func (p *Pipeline) SetProgressCallback(cb ProgressCallback) {
	p.onProgress = cb
}

func (p *Pipeline) progress(stage string, percent int, message string) {
	if p.onProgress != nil {
		p.onProgress(stage, percent, message)
	}
}

// ValidateJob checks if a job can be processed.
func (p *Pipeline) ValidateJob(job *models.PageJob) error {
	if _, err := os.Stat(job.InputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", job.InputPath)
	}
	if g, ok := p.translator.(*GeminiService); ok {
		if err := g.CheckAPIKey(); err != nil {
			return err
		}
	}
	return nil
}

// Process runs the full translation pipeline for one page.
func (p *Pipeline) Process(ctx context.Context, job *models.PageJob) error {
	if job.TargetLang == "" {
		job.TargetLang = p.config.TargetLang
	}

	// Stage 1: Load
	logger.Info("Pipeline: Stage 1/4 - Loading %s", job.FileName)
	p.progress("Loading", config.ProgressLoadStart, "Loading image...")
	job.SetStatus(models.StatusSlicing, "Loading image", config.ProgressLoadStart)

	src, err := loadNRGBA(job.InputPath)
	if err != nil {
		job.Fail(err)
		return fmt.Errorf("image load failed: %w", err)
	}
	p.progress("Loading", config.ProgressLoadEnd, "Image loaded")

	// Stage 2: Slice
	logger.Info("Pipeline: Stage 2/4 - Slicing %dx%d strip", src.Bounds().Dx(), src.Bounds().Dy())
	p.progress("Slicing", config.ProgressSliceStart, "Finding safe cut lines...")
	job.SetStatus(models.StatusSlicing, "Slicing page", config.ProgressSliceStart)

	chunks := p.newSlicer().Split(ctx, src)
	if len(chunks) == 0 {
		err := fmt.Errorf("slicing produced no chunks")
		job.Fail(err)
		return err
	}
	job.TotalChunks = len(chunks)
	p.progress("Slicing", config.ProgressSliceEnd, fmt.Sprintf("Sliced into %d chunks", len(chunks)))

	// Stage 3: Translate chunks under concurrency and rate limits
	logger.Info("Pipeline: Stage 3/4 - Translating %d chunks with %s (lang=%s)",
		len(chunks), p.translator.Name(), job.TargetLang)
	job.SetStatus(models.StatusTranslating, "Translating chunks", config.ProgressTranslateStart)

	items := make([]*models.WorkItem, len(chunks))
	for i, chunk := range chunks {
		item := models.NewWorkItem(chunk.Index, chunk.Image)
		item.Top = chunk.Top
		item.Bottom = chunk.Bottom
		items[i] = item
	}

	translateRange := config.ProgressTranslateEnd - config.ProgressTranslateStart
	var done atomic.Int32
	sched := scheduler.New(p.schedulerOptions(), p.chunkWorker(job.TargetLang))
	sched.SetChangeCallback(func(item *models.WorkItem) {
		// Callbacks arrive from worker goroutines; job fields are written
		// once the scheduler drains.
		if !item.Terminal() {
			return
		}
		n := int(done.Add(1))
		percent := config.ProgressTranslateStart + (n*translateRange)/job.TotalChunks
		p.progress("Translating", percent,
			fmt.Sprintf("%s: %d/%d chunks", p.translator.Name(), n, job.TotalChunks))
	})
	sched.Add(items...)

	if err := sched.Run(ctx); err != nil {
		job.Fail(err)
		return fmt.Errorf("translation aborted: %w", err)
	}
	job.DoneChunks = int(done.Load())

	var failed int
	var firstErr error
	for _, item := range items {
		if item.Status == models.ItemError {
			failed++
			if firstErr == nil {
				firstErr = item.Err
			}
		}
	}
	if failed > 0 {
		err := fmt.Errorf("%d of %d chunks failed: %w", failed, len(items), firstErr)
		job.Fail(err)
		return err
	}

	// Stage 4: Save
	logger.Info("Pipeline: Stage 4/4 - Writing output")
	p.progress("Saving", config.ProgressSaveStart, "Writing chunks...")
	job.SetStatus(models.StatusAssembling, "Writing output", config.ProgressSaveStart)

	outDir, err := p.outputDirFor(job)
	if err != nil {
		job.Fail(err)
		return err
	}

	results := make([]*image.NRGBA, len(items))
	for i, item := range items {
		results[i] = item.Result
	}

	// Chunk PNG encoding is CPU-bound; fan it out.
	_, err = worker.Process(items, config.ChunkSaveWorkers,
		func(jb worker.Job[*models.WorkItem]) (string, error) {
			path := filepath.Join(outDir, fmt.Sprintf("%03d.png", jb.Data.Index))
			return path, imaging.Save(jb.Data.Result, path)
		}, nil)
	if err != nil {
		job.Fail(err)
		return fmt.Errorf("failed to write chunks: %w", err)
	}

	if p.config.StitchOutput {
		strip := slicer.Stitch(results)
		base := strings.TrimSuffix(job.FileName, filepath.Ext(job.FileName))
		if err := imaging.Save(strip, filepath.Join(outDir, base+"_translated.png")); err != nil {
			job.Fail(err)
			return fmt.Errorf("failed to write stitched strip: %w", err)
		}
	}

	job.Complete(outDir)
	logger.Info("Pipeline: Complete! Output: %s", outDir)
	p.progress("Complete", config.ProgressSaveEnd, "Translation complete!")
	return nil
}

// newSlicer builds the slicer from config, wiring the zone suggester in
// unless hints are disabled.
func (p *Pipeline) newSlicer() *slicer.Slicer {
	opts := slicer.Options{
		TargetHeight:       p.config.TargetChunkHeight,
		HintTolerance:      p.config.HintTolerance,
		FallbackHalfWindow: p.config.FallbackHalfWindow,
		PassMargin:         config.ZonePassMargin,
		MinChunkHeight:     p.config.MinChunkHeight,
	}

	var suggest slicer.SuggestFunc
	if !p.config.DisableZoneHints && p.suggester != nil {
		suggest = func(ctx context.Context, img *image.NRGBA) ([]slicer.SafeZone, error) {
			data, err := encodePNG(img)
			if err != nil {
				return nil, err
			}
			return p.suggester.SuggestZones(ctx, data, "image/png")
		}
	}

	return slicer.New(opts, suggest)
}

func (p *Pipeline) schedulerOptions() scheduler.Options {
	opts := scheduler.Options{
		Ceiling:           p.config.MaxConcurrent,
		RequestsPerMinute: p.config.RequestsPerMinute,
	}
	if p.config.SkipFlatChunks {
		threshold := p.config.FlatVarianceThreshold
		opts.PreFilter = func(img *image.NRGBA) bool {
			return slicer.WorthTranslating(img, threshold)
		}
	}
	return opts
}

// chunkWorker returns the scheduler worker: encode, call the provider,
// decode.
func (p *Pipeline) chunkWorker(targetLang string) scheduler.Worker {
	return func(ctx context.Context, item *models.WorkItem) (*image.NRGBA, error) {
		data, err := encodePNG(item.Image)
		if err != nil {
			return nil, err
		}
		out, err := p.translator.TranslateChunk(ctx, data, "image/png", targetLang)
		if err != nil {
			return nil, err
		}
		return decodeNRGBA(out)
	}
}

// outputDirFor resolves and creates the per-page output directory.
func (p *Pipeline) outputDirFor(job *models.PageJob) (string, error) {
	dir := p.config.OutputDirectory
	if dir == "" {
		dir = filepath.Dir(job.InputPath)
	}

	// Expand ~ to home directory
	if strings.HasPrefix(dir, "~") {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, dir[1:])
	}

	base := strings.TrimSuffix(job.FileName, filepath.Ext(job.FileName))
	outDir := filepath.Join(dir, fmt.Sprintf("%s_%s", base, job.TargetLang))
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return outDir, nil
}
