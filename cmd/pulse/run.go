package main

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pulse-lang/pulse/internal/cli/config"
	"github.com/pulse-lang/pulse/internal/hostcc"
)

func init() {
	runCmd.Flags().BoolVar(&runVerbose, "verbose", false, "Show detailed build output")
	runCmd.Flags().BoolVar(&runNoCache, "no-cache", false, "Disable the compilation result cache")
}

var (
	runVerbose bool
	runNoCache bool
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Compile and run a Pulse source file",
	Long:  "Compile a single .pulse file to C++, build it with the host compiler, and run the resulting binary.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		logger := newLogger(runVerbose)
		defer logger.Sync()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		driver, err := newDriver(runNoCache)
		if err != nil {
			return err
		}

		logger.Debugw("compiling", "file", file)
		result, err := driver.CompileFile(file)
		if err != nil {
			outputDiagnosticsTerminal(result.Diagnostics)
			return fmt.Errorf("compilation failed with %d error(s)", len(result.Diagnostics))
		}

		base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		cppPath := filepath.Join(cfg.OutputDir, base+".cpp")
		binPath := filepath.Join(cfg.OutputDir, base)

		if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(cppPath, []byte(result.CPP), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", cppPath, err)
		}

		cc := hostcc.New()
		binary := cfg.Compiler
		if binary == "" {
			binary, err = cc.Find()
			if err != nil {
				return err
			}
		}

		logger.Debugw("building", "compiler", binary, "cpp", cppPath)
		if err := cc.Build(binary, cppPath, binPath); err != nil {
			return fmt.Errorf("host compiler failed: %w", err)
		}

		absBin, err := filepath.Abs(binPath)
		if err != nil {
			return err
		}

		return runBinary(absBin)
	},
}

// runBinary runs the built binary. On Ctrl+C or SIGTERM it sends SIGTERM
// to the binary so it can shut down on its own terms before this process
// exits.
func runBinary(path string) error {
	run := exec.Command(path)
	run.Stdin = os.Stdin
	run.Stdout = os.Stdout
	run.Stderr = os.Stderr

	if err := run.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", path, err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		if run.Process != nil {
			run.Process.Signal(syscall.SIGTERM)
		}
	}()

	if err := run.Wait(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			os.Exit(exitErr.ExitCode())
		}
		return fmt.Errorf("%s exited with error: %w", path, err)
	}
	return nil
}
