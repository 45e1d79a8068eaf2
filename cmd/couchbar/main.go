package main

import (
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/depeter/couchbar/assets/icon"
	"github.com/depeter/couchbar/internal/app"
	"github.com/depeter/couchbar/internal/config"
	"github.com/depeter/couchbar/internal/logging"
)

func main() {
	root := newRootCmd()
	cc.Init(&cc.Config{
		RootCmd:       root,
		Headings:      cc.HiCyan + cc.Bold + cc.Underline,
		Commands:      cc.HiYellow + cc.Bold,
		Example:       cc.Italic,
		ExecName:      cc.Bold,
		Flags:         cc.Bold,
		FlagsDataType: cc.Italic + cc.HiBlue,
	})
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		touch      string
		logLevel   string
		fullscreen bool
	)

	cmd := &cobra.Command{
		Use:          "couchbar [flags] <media-url>",
		Short:        "Play a file or URL with an auto-hiding control bar",
		Example:      "  couchbar movie.mkv\n  couchbar --touch on --fullscreen https://example.com/stream.m3u8",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("touch") {
				cfg.UI.Touch = touch
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Logs.Level = logLevel
			}
			if cmd.Flags().Changed("fullscreen") {
				cfg.UI.Fullscreen = fullscreen
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to config.toml (default: $XDG_CONFIG_HOME/couchbar/config.toml)")
	cmd.Flags().StringVar(&touch, "touch", "auto", "Touch mode: auto, on or off")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.Flags().BoolVarP(&fullscreen, "fullscreen", "f", false, "Start fullscreen")
	lo.Must0(cmd.RegisterFlagCompletionFunc("touch", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "on", "off"}, cobra.ShellCompDirectiveNoFileComp
	}))

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFile(path)
}

func run(cfg *config.Config, url string) error {
	closeLogs, err := logging.Setup(cfg.Logs)
	if err != nil {
		return err
	}
	defer closeLogs()

	game, err := app.NewGame(cfg)
	if err != nil {
		return err
	}
	defer game.Close()
	game.Open(url)

	ebiten.SetWindowSize(cfg.UI.Width, cfg.UI.Height)
	ebiten.SetWindowTitle("couchbar")
	ebiten.SetWindowIcon(icon.Generate())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.UI.Fullscreen)

	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
