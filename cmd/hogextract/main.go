package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"math"
	"os"
	"time"

	"gonum.org/v1/gonum/stat"

	"hogextract/pkg/config"
	"hogextract/pkg/ehog"
	"hogextract/pkg/extract"
	"hogextract/pkg/filter"
	"hogextract/pkg/visualization"
)

func main() {
	// Parse command line arguments
	imagePath := flag.String("image", "", "Input image (PNG or JPEG)")
	configPath := flag.String("config", "hogextract.yaml", "Configuration file")
	x := flag.Int("x", 0, "Patch x coordinate in image pixels")
	y := flag.Int("y", 0, "Patch y coordinate in image pixels")
	width := flag.Int("w", 0, "Patch width in image pixels (default: image width)")
	height := flag.Int("h", 0, "Patch height in image pixels (default: image height)")
	glyphOut := flag.String("glyphs", "", "Save a HOG glyph rendering of the descriptor to this PNG file")
	energyOut := flag.String("energy", "", "Save a cell energy rendering of the descriptor to this PNG file")
	flag.Parse()

	// Validate inputs
	if *imagePath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	img, err := loadImage(*imagePath)
	if err != nil {
		log.Fatalf("Failed to load image: %v", err)
	}
	if *width <= 0 {
		*width = img.Bounds().Dx()
	}
	if *height <= 0 {
		*height = img.Bounds().Dy()
	}

	extractor, err := buildExtractor(cfg)
	if err != nil {
		log.Fatalf("Failed to build extractor: %v", err)
	}

	if cfg.Output.Verbose {
		fmt.Printf("Cell grid: %dx%d cells of %dx%d pixels, %d orientation bins\n",
			cfg.Grid.Cols, cfg.Grid.Rows, cfg.Grid.CellSize, cfg.Grid.CellSize, cfg.Descriptor.Bins)
		fmt.Printf("Patch data size including surrounding cells: %dx%d pixels\n",
			extractor.PatchWidth(), extractor.PatchHeight())
	}

	startTime := time.Now()
	if err := extractor.Update(img); err != nil {
		log.Fatalf("Failed to build pyramid: %v", err)
	}
	if cfg.Output.Verbose {
		fmt.Printf("Built %d pyramid layers in %.2f ms\n",
			extractor.Pyramid().LayerCount(), float64(time.Since(startTime).Microseconds())/1000)
	}

	if cfg.Output.LayerDumpDir != "" {
		if err := extractor.Pyramid().SaveLayers(cfg.Output.LayerDumpDir); err != nil {
			log.Printf("Warning: failed to dump pyramid layers: %v", err)
		} else if cfg.Output.Verbose {
			fmt.Printf("Pyramid layers saved to: %s\n", cfg.Output.LayerDumpDir)
		}
	}

	startTime = time.Now()
	patch, err := extractor.Extract(*x, *y, *width, *height)
	if err != nil {
		log.Fatalf("Extraction failed: %v", err)
	}
	extractTime := time.Since(startTime)

	printSummary(patch, extractTime)

	if *glyphOut != "" || *energyOut != "" {
		viewer := visualization.NewViewer(patch.Grid, cfg.Descriptor.Bins, 16)
		if *glyphOut != "" {
			if err := viewer.SaveImage(viewer.RenderGlyphs(), *glyphOut); err != nil {
				log.Fatalf("Failed to save glyph rendering: %v", err)
			}
			fmt.Printf("Glyph rendering saved to: %s\n", *glyphOut)
		}
		if *energyOut != "" {
			if err := viewer.SaveImage(viewer.RenderEnergy(), *energyOut); err != nil {
				log.Fatalf("Failed to save energy rendering: %v", err)
			}
			fmt.Printf("Energy rendering saved to: %s\n", *energyOut)
		}
	}
}

// buildExtractor assembles the pipeline selected by the configuration:
// either grayscale pyramid layers with a complete filter, or pre-binned
// layers with a descriptor-only filter.
func buildExtractor(cfg *config.Config) (*extract.Extractor, error) {
	if cfg.Descriptor.Prebinned {
		ehogFilter, err := ehog.NewFilter(cfg.Grid.CellSize, cfg.Descriptor.Bins)
		if err != nil {
			return nil, err
		}
		binning, err := filter.NewBinning(cfg.Descriptor.Bins)
		if err != nil {
			return nil, err
		}
		return extract.NewBinnedFromWidths(filter.NewGradient(), binning, ehogFilter,
			cfg.Grid.Cols, cfg.Grid.Rows,
			cfg.Pyramid.MinWidth, cfg.Pyramid.MaxWidth, cfg.Pyramid.OctaveLayers)
	}
	ehogFilter, err := ehog.NewCompleteFilter(cfg.Grid.CellSize, cfg.Descriptor.Bins)
	if err != nil {
		return nil, err
	}
	return extract.NewFromWidths(ehogFilter,
		cfg.Grid.Cols, cfg.Grid.Rows,
		cfg.Pyramid.MinWidth, cfg.Pyramid.MaxWidth, cfg.Pyramid.OctaveLayers)
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	return img, err
}

func printSummary(patch *extract.Patch, extractTime time.Duration) {
	features := patch.Features

	min, max := math.Inf(1), math.Inf(-1)
	var norm float64
	for _, f := range features {
		if f < min {
			min = f
		}
		if f > max {
			max = f
		}
		norm += f * f
	}
	mean, std := stat.MeanStdDev(features, nil)

	fmt.Printf("\nExtracted patch (%d, %d) %dx%d in %.2f ms\n",
		patch.X, patch.Y, patch.Width, patch.Height,
		float64(extractTime.Microseconds())/1000)
	fmt.Printf("Descriptor grid: %dx%d cells, %d values per cell\n",
		patch.Grid.Cols(), patch.Grid.Rows(), patch.Grid.Length())
	fmt.Printf("Feature vector length: %d\n", len(features))
	fmt.Printf("  mean:   %.6f\n", mean)
	fmt.Printf("  stddev: %.6f\n", std)
	fmt.Printf("  min:    %.6f\n", min)
	fmt.Printf("  max:    %.6f\n", max)
	fmt.Printf("  L2:     %.6f\n", math.Sqrt(norm))
}
