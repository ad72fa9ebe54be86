package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"brukerconv/pkg/config"
	"brukerconv/pkg/diffusion"
	"brukerconv/pkg/geometry"
	"brukerconv/pkg/intensity"
	"brukerconv/pkg/paravision"
	"brukerconv/pkg/rawdata"
	"brukerconv/pkg/report"
	"brukerconv/pkg/visualization"
)

func main() {
	// Parse command line arguments
	scanDir := flag.String("scan", "", "Bruker scan directory (the numbered folder holding acqp and method)")
	subScan := flag.Int("subscan", 1, "Reconstruction to read from pdata/<n>")
	configPath := flag.String("config", "brukerconv.yaml", "YAML configuration file")
	dumpDir := flag.String("dump-dir", "", "Directory to write one text dump per parameter file")
	workbook := flag.String("workbook", "", "Path of an .xlsx workbook listing every parameter")
	previewDir := flag.String("preview-dir", "", "Directory to save JPEG slice previews along all axes")
	skip := flag.Int("skip", 0, "Number of initial entries of the last axis (frames or diffusion directions) to drop before slope correction")
	encodingName := flag.String("encoding", "", "Character set of the parameter files (default latin1)")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	initConfig := flag.Bool("init-config", false, "Write a default configuration file to -config and exit")
	flag.Parse()

	if *initConfig {
		if err := writeDefaultConfig(*configPath); err != nil {
			log.Fatalf("Failed to write configuration: %v", err)
		}
		fmt.Printf("Default configuration saved to: %s\n", *configPath)
		return
	}

	if *scanDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags given on the command line override the configuration file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "subscan":
			cfg.Scan.SubScan = *subScan
		case "encoding":
			cfg.Scan.Encoding = *encodingName
		case "skip":
			cfg.Scan.SkipInitialFrames = *skip
		case "dump-dir":
			cfg.Output.DumpDir = *dumpDir
		case "workbook":
			cfg.Output.Workbook = *workbook
		case "preview-dir":
			cfg.Output.PreviewDir = *previewDir
		case "verbose":
			cfg.Output.Verbose = *verbose
		}
	})

	logger, err := newLogger(cfg.Output.Verbose)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(*scanDir, cfg, logger); err != nil {
		logger.Error("conversion failed", zap.String("scan", *scanDir), zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

// writeDefaultConfig creates a default configuration file, refusing to replace an existing one
func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	return config.CreateDefaultConfigFile(path)
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(scanDir string, cfg *config.Config, logger *zap.Logger) error {
	enc, err := paravision.LookupEncoding(cfg.Scan.Encoding)
	if err != nil {
		return err
	}

	fmt.Println("================================")
	fmt.Println("BRUKER PARAVISION PARAMETER CONVERTER")
	fmt.Println("================================")
	fmt.Printf("Scan: %s (sub-scan %d)\n", scanDir, cfg.Scan.SubScan)

	startTime := time.Now()

	locator := paravision.NewLocator(scanDir, cfg.Scan.SubScan, logger)
	locator.Encoding = enc

	scan, err := locator.ReadScan()
	if err != nil {
		return err
	}
	for _, role := range paravision.Roles {
		fmt.Printf("- %-10s %d parameters\n", role, len(scan[role]))
	}

	if cfg.Output.DumpDir != "" {
		for _, role := range paravision.Roles {
			path := filepath.Join(cfg.Output.DumpDir, string(role)+".txt")
			if err := paravision.DumpToFile(scan[role], path); err != nil {
				return fmt.Errorf("error writing %s dump: %w", role, err)
			}
		}
		fmt.Printf("Parameter dumps saved to: %s\n", cfg.Output.DumpDir)
	}

	if cfg.Output.Workbook != "" {
		if err := report.WriteWorkbook(cfg.Output.Workbook, scan); err != nil {
			return err
		}
		fmt.Printf("Parameter workbook saved to: %s\n", cfg.Output.Workbook)
	}

	visu := scan[paravision.RoleVisuPars]
	spec, err := geometry.OrientationFromParameters(visu, scan[paravision.RoleMethod], scan[paravision.RoleAcqp])
	if err == nil {
		var affine *geometry.Affine
		affine, err = geometry.ComputeAffine(spec)
		if err == nil {
			fmt.Printf("\nAffine (%s slices, read %s):\n", spec.SliceOrient, spec.ReadOrient)
			fmt.Printf("%v\n", mat.Formatted(affine.Matrix, mat.Prefix(""), mat.Squeeze()))
		}
	}
	if err != nil {
		logger.Warn("no affine for scan", zap.Error(err))
	}

	if err := writeGradients(scan[paravision.RoleMethod], cfg.Output.DumpDir); err != nil {
		return err
	}

	if len(visu) == 0 {
		fmt.Println("\nNo visu_pars for this sub-scan, skipping 2dseq")
		return nil
	}

	vol, err := rawdata.ReadFile(scanDir, cfg.Scan.SubScan, visu)
	if err != nil {
		return err
	}
	fmt.Printf("\n2dseq shape: %v\n", vol.Shape)

	slope, err := intensity.SlopeFromParameters(visu)
	if err != nil {
		return err
	}
	logger.Debug("applying slope", zap.Stringer("slope", slope), zap.Int("skip", cfg.Scan.SkipInitialFrames))

	vol, err = intensity.CorrectSlope(vol, slope, cfg.Scan.SkipInitialFrames)
	if err != nil {
		return err
	}

	summary, err := intensity.Summarize(vol)
	if err != nil {
		return err
	}
	fmt.Printf("Corrected shape: %v\n", vol.Shape)
	fmt.Printf("Intensity range: %.6g .. %.6g\n", summary.Min, summary.Max)
	fmt.Printf("Mean: %.6g, standard deviation: %.6g\n", summary.Mean, summary.StdDev)

	if cfg.Output.PreviewDir != "" {
		fmt.Println("\nExtracting preview slices along all axes...")

		viewer, err := visualization.NewViewer(vol)
		if err != nil {
			return err
		}
		for _, axis := range []string{"x", "y", "z"} {
			axisDir := filepath.Join(cfg.Output.PreviewDir, axis)
			fmt.Printf("Saving %s-axis slices to: %s\n", axis, axisDir)

			if err := viewer.SaveSliceSequence(axis, axisDir); err != nil {
				logger.Warn("failed to save slices", zap.String("axis", axis), zap.Error(err))
			}
		}
	}

	fmt.Printf("\nConversion completed in %.2f seconds\n", time.Since(startTime).Seconds())
	return nil
}

// writeGradients normalises the diffusion directions of the method file, if
// any, and saves them as "bvecs.txt" next to the parameter dumps.
func writeGradients(method paravision.Map, dumpDir string) error {
	raw, err := diffusion.BVectorsFromParameters(method)
	if errors.Is(err, diffusion.ErrNoGradients) {
		return nil
	}
	if err != nil {
		return err
	}

	bvecs := diffusion.NormaliseBVectors(raw, true)
	rows, _ := bvecs.Dims()
	fmt.Printf("\nDiffusion directions: %d\n", rows)

	if dumpDir == "" {
		return nil
	}
	if err := os.MkdirAll(dumpDir, 0755); err != nil {
		return err
	}
	path := filepath.Join(dumpDir, "bvecs.txt")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := diffusion.WriteBVectors(f, bvecs); err != nil {
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	fmt.Printf("Gradient directions saved to: %s\n", path)
	return f.Close()
}
