// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Ramex translates scene descriptions into the distribution
// framework's binary scene/resource format.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gviegas/ramex/config"
	"github.com/gviegas/ramex/export"
	"github.com/gviegas/ramex/host/scenefile"
	"github.com/gviegas/ramex/internal/log"
	"github.com/gviegas/ramex/ramses"
)

var (
	cfgPath string
	debug   bool
	cfg     *config.Config
	logger  *log.Logger
)

func main() {
	root := &cobra.Command{
		Use:           "ramex",
		Short:         "Scene exporter for the RAMSES distribution framework",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfgPath != "" {
				if cfg, err = config.Load(cfgPath); err != nil {
					return err
				}
			} else {
				cfg = config.Default()
			}
			if logger, err = log.New(debug || cfg.Debug); err != nil {
				return err
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "TOML configuration file")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	root.AddCommand(exportCmd(), checkCmd(), testCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ramex:", err)
		os.Exit(1)
	}
}

func exportCmd() *cobra.Command {
	var (
		output    string
		glsl      map[string]string
		technique string
	)
	cmd := &cobra.Command{
		Use:   "export <scene.yaml>",
		Short: "Export a scene description to a scene/resource file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenefile.Load(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				output = cfg.OutputPath
			}
			// Relative shader dirs resolve against the
			// configured base directory.
			if cfg.ShaderDir != "" {
				for obj, dir := range glsl {
					if !filepath.IsAbs(dir) {
						glsl[obj] = filepath.Join(cfg.ShaderDir, dir)
					}
				}
			}
			opts := &export.Options{ShaderDirs: glsl, Technique: technique}
			warns, err := export.New(ramses.New(), logger).Export(sc, output, opts)
			for _, w := range warns {
				fmt.Fprintln(os.Stderr, "warning:", w)
			}
			if err != nil {
				return err
			}
			fmt.Println("wrote", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination path (default from config)")
	cmd.Flags().StringToStringVar(&glsl, "glsl", nil, "object=dir pairs selecting custom GLSL")
	cmd.Flags().StringVar(&technique, "technique", "", "shader technique to load from GLSL dirs")
	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <scene.yaml>",
		Short: "Validate a scene description without writing output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scenefile.Load(args[0])
			if err != nil {
				return err
			}
			warns, err := export.Check(sc, logger)
			for _, w := range warns {
				fmt.Fprintln(os.Stderr, "warning:", w)
			}
			if err != nil {
				return err
			}
			fmt.Println(args[0], "is exportable")
			return nil
		},
	}
}
