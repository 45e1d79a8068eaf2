package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Controls ControlsConfig `toml:"controls"`
	Playback PlaybackConfig `toml:"playback"`
	UI       UIConfig       `toml:"ui"`
	Keybinds KeybindConfig  `toml:"keybinds"`
	Logs     LogsConfig     `toml:"logs"`
}

// ControlsConfig describes the control bar layout. Item names are the
// built-in kinds: play, progress, time, volume, captions, levels, settings.
// Fullscreen is always appended for video and is ignored here.
type ControlsConfig struct {
	Leading          []string        `toml:"leading"`
	Middle           []string        `toml:"middle"`
	Trailing         []string        `toml:"trailing"`
	DetachMenus      bool            `toml:"detach_menus"`
	ShowLoaderOnInit bool            `toml:"show_loader_on_init"`
	HidePlayBtnTimer int             `toml:"hide_play_btn_timer"` // milliseconds
	Custom           []CustomControl `toml:"custom"`
}

// CustomControl is a user-defined button that runs an mpv command on click.
type CustomControl struct {
	Title    string   `toml:"title"`
	Icon     string   `toml:"icon"`
	Position string   `toml:"position"`
	Command  []string `toml:"command"`
}

type PlaybackConfig struct {
	HWAccel string `toml:"hwdec"`
	Volume  int    `toml:"volume"`
}

type UIConfig struct {
	Fullscreen bool   `toml:"fullscreen"`
	Width      int    `toml:"width"`
	Height     int    `toml:"height"`
	Touch      string `toml:"touch"` // auto, on, off
}

type KeybindConfig struct {
	PlayPause         string `toml:"play_pause"`
	SeekForward       string `toml:"seek_forward"`
	SeekBackward      string `toml:"seek_backward"`
	SeekForwardLarge  string `toml:"seek_forward_large"`
	SeekBackwardLarge string `toml:"seek_backward_large"`
	VolumeUp          string `toml:"volume_up"`
	VolumeDown        string `toml:"volume_down"`
	Mute              string `toml:"mute"`
	Captions          string `toml:"captions"`
	Settings          string `toml:"settings"`
	Fullscreen        string `toml:"fullscreen"`
	Stop              string `toml:"stop"`
}

type LogsConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
	File  string `toml:"file"`
}

// HidePlayBtnDelay returns the play-triggered hide delay as a duration.
func (c ControlsConfig) HidePlayBtnDelay() time.Duration {
	return time.Duration(c.HidePlayBtnTimer) * time.Millisecond
}

func DefaultConfig() *Config {
	return &Config{
		Controls: ControlsConfig{
			Leading:          []string{"play", "time", "volume"},
			Middle:           []string{"progress"},
			Trailing:         []string{"captions", "levels", "settings"},
			ShowLoaderOnInit: true,
			HidePlayBtnTimer: 350,
		},
		Playback: PlaybackConfig{
			HWAccel: "auto-safe",
			Volume:  100,
		},
		UI: UIConfig{
			Width:  1280,
			Height: 720,
			Touch:  "auto",
		},
		Keybinds: KeybindConfig{
			PlayPause:         "Space",
			SeekForward:       "Right",
			SeekBackward:      "Left",
			SeekForwardLarge:  "Up",
			SeekBackwardLarge: "Down",
			VolumeUp:          "0",
			VolumeDown:        "9",
			Mute:              "M",
			Captions:          "C",
			Settings:          "S",
			Fullscreen:        "F",
			Stop:              "Escape",
		},
		Logs: LogsConfig{
			Level: "info",
		},
	}
}

// Validate checks values that have a closed set of choices.
func (c *Config) Validate() error {
	switch c.UI.Touch {
	case "", "auto", "on", "off":
	default:
		return fmt.Errorf("ui.touch: unknown mode %q", c.UI.Touch)
	}
	if c.Controls.HidePlayBtnTimer < 0 {
		return fmt.Errorf("controls.hide_play_btn_timer: must not be negative")
	}
	for i, cc := range c.Controls.Custom {
		if cc.Title == "" {
			return fmt.Errorf("controls.custom[%d]: title is required", i)
		}
		switch cc.Position {
		case "", "leading", "middle", "trailing":
		default:
			return fmt.Errorf("controls.custom[%d]: unknown position %q", i, cc.Position)
		}
	}
	return nil
}

func ConfigDir() (string, error) {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "couchbar"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config from the default path, falling back to defaults when
// the file does not exist.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path over the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
