package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pulse-lang/pulse/internal/cli/config"
	"github.com/pulse-lang/pulse/internal/compiler/build"
	"github.com/pulse-lang/pulse/internal/compiler/cache"
	"github.com/pulse-lang/pulse/internal/compiler/errors"
	"github.com/pulse-lang/pulse/internal/watch"
)

var (
	buildJSON    bool
	buildVerbose bool
	buildOutput  string
	buildWatch   bool
	buildNoCache bool
	buildPort    int
)

func init() {
	buildCmd.Flags().BoolVar(&buildJSON, "json", false, "Output diagnostics in JSON format")
	buildCmd.Flags().BoolVar(&buildVerbose, "verbose", false, "Show detailed build output")
	buildCmd.Flags().StringVar(&buildOutput, "output", "", "Output path for the generated C++ file (defaults to <output_dir>/<name>.cpp)")
	buildCmd.Flags().BoolVar(&buildWatch, "watch", false, "Watch the file and rebuild on every save")
	buildCmd.Flags().BoolVar(&buildNoCache, "no-cache", false, "Disable the compilation result cache")
	buildCmd.Flags().IntVar(&buildPort, "port", 7331, "Port for the --watch diagnostics server")
}

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Compile a Pulse source file to C++",
	Long:  "Compile a single .pulse file and write the generated C++ translation unit.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		logger := newLogger(buildVerbose)
		defer logger.Sync()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if buildWatch {
			return runWatch(file, logger)
		}

		driver, err := newDriver(buildNoCache)
		if err != nil {
			return err
		}

		logger.Debugw("compiling", "file", file)
		result, err := driver.CompileFile(file)
		if err != nil {
			if buildJSON {
				outputDiagnosticsJSON(result.Diagnostics)
			} else {
				outputDiagnosticsTerminal(result.Diagnostics)
			}
			return fmt.Errorf("compilation failed with %d error(s)", len(result.Diagnostics))
		}

		outPath := buildOutput
		if outPath == "" {
			base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)) + ".cpp"
			outPath = filepath.Join(cfg.OutputDir, base)
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(outPath, []byte(result.CPP), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}

		if buildJSON {
			outputSuccessJSON(result, outPath)
		} else {
			fmt.Printf("compiled %s -> %s\n", file, outPath)
		}
		return nil
	},
}

func newDriver(noCache bool) (*build.Driver, error) {
	if noCache {
		return build.New(), nil
	}
	resultCache, err := cache.NewResultCache(cache.DefaultSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}
	return build.NewCached(resultCache), nil
}

func runWatch(file string, logger *zap.SugaredLogger) error {
	ds, err := watch.NewDevServer(watch.DevServerConfig{
		Path:    file,
		Port:    buildPort,
		Verbose: buildVerbose,
		NoCache: buildNoCache,
	})
	if err != nil {
		return fmt.Errorf("failed to start watch server: %w", err)
	}

	if err := ds.Start(); err != nil {
		return fmt.Errorf("failed to start watch server: %w", err)
	}
	defer ds.Stop()

	logger.Infof("watching %s, diagnostics at http://localhost:%d/diagnostics", file, buildPort)
	select {}
}

func outputDiagnosticsJSON(diagnostics []*errors.CompilerError) {
	output := struct {
		Success bool                     `json:"success"`
		Errors  []*errors.CompilerError `json:"errors"`
	}{Success: false, Errors: diagnostics}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	encoder.Encode(output)
}

func outputDiagnosticsTerminal(diagnostics []*errors.CompilerError) {
	fmt.Fprintf(os.Stderr, "\ncompilation failed with %d error(s):\n\n", len(diagnostics))
	for _, d := range diagnostics {
		fmt.Fprint(os.Stderr, d.FormatForTerminal())
	}
}

func outputSuccessJSON(result *build.Result, outPath string) {
	output := struct {
		Success       bool   `json:"success"`
		CompilationID string `json:"compilation_id"`
		OutputPath    string `json:"output_path"`
	}{
		Success:       true,
		CompilationID: result.CompilationID.String(),
		OutputPath:    outPath,
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	encoder.Encode(output)
}
