package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"manga-translator/internal/logger"
	"manga-translator/internal/slicer"
	"manga-translator/internal/text"
	"manga-translator/models"
	"manga-translator/services"
)

var (
	flagVerbose   bool
	flagLang      string
	flagProvider  string
	flagOutputDir string
	flagTarget    int
	flagNoHints   bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "manga-translator",
		Short: "Translate vertically scrolling comic strips with a multimodal AI model",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional; the config file or environment may carry the key.
			_ = godotenv.Load()
			if flagVerbose {
				logger.SetLevel(logger.LevelDebug)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(splitCmd(), translateCmd())
	return root
}

// loadConfig loads the saved config and applies command-line overrides.
func loadConfig() (*models.Config, error) {
	cfg, err := models.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.GeminiAPIKey = key
	}
	if flagLang != "" {
		cfg.TargetLang = flagLang
	}
	if flagProvider != "" {
		cfg.Provider = flagProvider
	}
	if flagOutputDir != "" {
		cfg.OutputDirectory = flagOutputDir
	}
	if flagTarget > 0 {
		cfg.TargetChunkHeight = flagTarget
	}
	if flagNoHints {
		cfg.DisableZoneHints = true
	}
	return cfg, nil
}

// splitCmd slices a strip into chunks on disk without calling any API.
// Useful for checking cut placement before spending model quota.
func splitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "split <image>",
		Short: "Slice a strip into chunk PNGs without translating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			src, err := imaging.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open image: %w", err)
			}
			nrgba := imaging.Clone(src)

			opts := slicer.DefaultOptions()
			opts.TargetHeight = cfg.TargetChunkHeight
			opts.MinChunkHeight = cfg.MinChunkHeight

			// Offline split: no suggester, pure pixel scan.
			chunks := slicer.New(opts, nil).Split(cmd.Context(), nrgba)

			base := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			outDir := filepath.Join(filepath.Dir(args[0]), base+"_chunks")
			if err := os.MkdirAll(outDir, 0755); err != nil {
				return err
			}

			for _, chunk := range chunks {
				name := fmt.Sprintf("%03d.png", chunk.Index)
				if err := imaging.Save(chunk.Image, filepath.Join(outDir, name)); err != nil {
					return fmt.Errorf("failed to save chunk %d: %w", chunk.Index, err)
				}
				logger.Info("chunk %d: rows [%d, %d), %dpx", chunk.Index, chunk.Top, chunk.Bottom, chunk.Bottom-chunk.Top)
			}

			fmt.Printf("Wrote %d chunks to %s\n", len(chunks), outDir)
			return nil
		},
	}
	cmd.Flags().IntVar(&flagTarget, "target-height", 0, "preferred chunk height in pixels")
	return cmd
}

func translateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <image> [image...]",
		Short: "Translate one or more strips",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if !text.IsValidTargetLanguage(cfg.TargetLang) {
				return fmt.Errorf("unknown target language %q (known: %s)",
					cfg.TargetLang, strings.Join(text.TargetLanguageCodes(), ", "))
			}

			pipeline := services.NewPipeline(cfg)
			pipeline.SetProgressCallback(func(stage string, percent int, message string) {
				logger.Info("[%3d%%] %s: %s", percent, stage, message)
			})

			var failed int
			for _, path := range args {
				job := models.NewPageJob(path)
				job.TargetLang = cfg.TargetLang

				if err := pipeline.ValidateJob(job); err != nil {
					logger.Error("%s: %v", job.FileName, err)
					failed++
					continue
				}
				if err := pipeline.Process(cmd.Context(), job); err != nil {
					logger.Error("%s: %v", job.FileName, err)
					failed++
					continue
				}
				fmt.Printf("%s -> %s\n", job.FileName, job.OutputDir)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d pages failed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&flagLang, "lang", "l", "", "target language code (default from config)")
	cmd.Flags().StringVar(&flagProvider, "provider", "", "translation provider: gemini or mock")
	cmd.Flags().StringVarP(&flagOutputDir, "output", "o", "", "output directory")
	cmd.Flags().IntVar(&flagTarget, "target-height", 0, "preferred chunk height in pixels")
	cmd.Flags().BoolVar(&flagNoHints, "no-hints", false, "disable AI zone hints, use pixel scan only")
	return cmd
}
