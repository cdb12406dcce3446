// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gviegas/ramex/export"
	"github.com/gviegas/ramex/host/scenefile"
	"github.com/gviegas/ramex/ramses"
)

// testCmd runs the regression corpus: every scene description
// in the fixture directory is exported into the working
// directory and compared byte-for-byte against its golden
// output. Output is deterministic, so equality is exact.
func testCmd() *cobra.Command {
	var (
		workingDir string
		platform   string
		addonPath  string
		viewer     string
		regenerate bool
	)
	cmd := &cobra.Command{
		Use:   "test <fixtures-dir>",
		Short: "Run the fixture corpus against golden outputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fixtures, err := filepath.Glob(filepath.Join(args[0], "*.yaml"))
			if err != nil {
				return err
			}
			if len(fixtures) == 0 {
				return errors.New("no fixtures found in " + args[0])
			}
			if workingDir == "" {
				if workingDir, err = os.MkdirTemp("", "ramex-test-*"); err != nil {
					return err
				}
			}
			if viewer == "" {
				viewer = cfg.ViewerPath
			}
			if platform == "" {
				platform = cfg.Platform
			}
			if addonPath != "" {
				logger.Debugw("running against add-on install", "path", addonPath)
			}
			var failed int
			for _, fixture := range fixtures {
				if err := runFixture(fixture, workingDir, viewer, platform, regenerate); err != nil {
					fmt.Fprintln(os.Stderr, "FAIL:", filepath.Base(fixture)+":", err)
					failed++
					continue
				}
				fmt.Println("ok:", filepath.Base(fixture))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d fixtures failed", failed, len(fixtures))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&workingDir, "working-dir", "w", "", "working directory for test output")
	cmd.Flags().StringVarP(&platform, "platform", "p", "", "renderer platform tag for the viewer")
	cmd.Flags().StringVarP(&addonPath, "addon-path", "a", "", "add-on install directory under test")
	cmd.Flags().StringVar(&viewer, "viewer", "", "framework scene viewer binary for visual inspection")
	cmd.Flags().BoolVar(&regenerate, "regenerate", false, "rewrite golden outputs instead of comparing")
	return cmd
}

func runFixture(fixture, workingDir, viewer, platform string, regenerate bool) error {
	sc, err := scenefile.Load(fixture)
	if err != nil {
		return err
	}
	name := strings.TrimSuffix(filepath.Base(fixture), ".yaml")
	out := filepath.Join(workingDir, name+".ramses")
	if _, err := export.New(ramses.New(), logger).Export(sc, out, nil); err != nil {
		return err
	}

	golden := strings.TrimSuffix(fixture, ".yaml") + ".ramses"
	if regenerate {
		b, err := os.ReadFile(out)
		if err != nil {
			return err
		}
		return os.WriteFile(golden, b, 0o644)
	}
	want, err := os.ReadFile(golden)
	if err != nil {
		return fmt.Errorf("no golden output (run with --regenerate first): %w", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		return err
	}
	if !bytes.Equal(got, want) {
		return errors.New("output differs from golden " + golden)
	}

	if viewer != "" {
		args := []string{"-s", strings.TrimSuffix(out, ".ramses")}
		if platform != "" {
			args = append(args, "-p", platform)
		}
		if err := exec.Command(viewer, args...).Run(); err != nil {
			return fmt.Errorf("viewer failed: %w", err)
		}
	}
	return nil
}
