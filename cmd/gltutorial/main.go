// Command gltutorial opens a window and runs one of the OpenGL tutorials.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"gl-tutorial/config"
	"gl-tutorial/demos"
	"gl-tutorial/internal/desktop"
	"gl-tutorial/internal/opengl"
	"gl-tutorial/internal/opengl/glcore"
	"gl-tutorial/session"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "gltutorial",
		Short:         "Minimal OpenGL tutorial programs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newListCmd(), newRunCmd())
	return root
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available demos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, name := range demos.Names() {
				spec, err := demos.Lookup(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-18s %s\n", name, spec.Description)
			}
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	var flags config.Flags
	cmd := &cobra.Command{
		Use:       "run <demo>",
		Short:     "Open a window and run a demo until it is closed",
		Args:      cobra.ExactArgs(1),
		ValidArgs: demos.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.Resolve(cmd.Flags())
			if err != nil {
				return err
			}
			spec, err := demos.Lookup(args[0])
			if err != nil {
				return err
			}
			logger := cfg.Log.NewLogger(cmd.ErrOrStderr())
			slog.SetDefault(logger)
			return run(cfg, spec, logger)
		},
	}
	flags.Register(cmd.Flags())
	return cmd
}

func run(cfg config.Config, spec session.Spec, logger *slog.Logger) error {
	window, err := desktop.NewWindow(cfg.Window)
	if err != nil {
		return err
	}

	gl, err := glcore.New()
	if err != nil {
		window.Destroy()
		return err
	}
	logger.Info("context created",
		"gl", gl.GetString(opengl.VERSION),
		"renderer", gl.GetString(opengl.RENDERER),
		"width", cfg.Window.Width,
		"height", cfg.Window.Height)

	opts := session.DefaultOptions()
	opts.Logger = logger
	opts.ClearColor = cfg.Render.ClearColor
	opts.Lenient = cfg.Render.LenientShaders
	opts.AssetDir = cfg.Assets.Dir

	s, err := session.New(window, gl, spec, opts)
	if err != nil {
		window.Destroy()
		return err
	}
	defer s.Close()
	return s.Run()
}

var _ session.Surface = (*desktop.Window)(nil)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("gltutorial failed", "err", err)
		os.Exit(1)
	}
}
