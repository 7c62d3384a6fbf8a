package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"qrscan/internal/scan"
)

// duration reads "300ms"-style strings from TOML.
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Configuration for persistent settings
type appConfig struct {
	DataDir        string   `toml:"data_dir"`
	GalleryDir     string   `toml:"gallery_dir"`
	Device         string   `toml:"device"` // optional line-oriented scanner, e.g. /dev/ttyACM0 or a FIFO
	// Illumination commands written back to Device, sent as is.
	TorchOn        string   `toml:"torch_on"`
	TorchOff       string   `toml:"torch_off"`
	Cooldown       duration `toml:"cooldown"`
	DebounceWindow duration `toml:"debounce_window"`
	LogFile        string   `toml:"log_file"`
	LogLevel       string   `toml:"log_level"`
}

func defaultConfig() appConfig {
	home, _ := os.UserHomeDir()
	gallery := filepath.Join(home, "Pictures")
	if _, err := os.Stat(gallery); err != nil {
		gallery = home
	}
	return appConfig{
		DataDir:        filepath.Join(home, ".qrscan"),
		GalleryDir:     gallery,
		Cooldown:       duration{scan.DefaultCooldown},
		DebounceWindow: duration{scan.DefaultDebounceWindow},
		LogFile:        "qrscan.log",
		LogLevel:       "info",
	}
}

func getConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".qrscan", "config.toml")
}

// loadConfig overlays the file at path on the defaults. A missing file is
// not an error; a malformed one returns the defaults along with the error.
func loadConfig(path string) (appConfig, error) {
	config := defaultConfig()
	if path == "" {
		return config, nil
	}

	_, err := toml.DecodeFile(path, &config)
	if errors.Is(err, fs.ErrNotExist) {
		return config.normalize(), nil
	}
	if err != nil {
		return defaultConfig().normalize(), fmt.Errorf("read config %s: %w", path, err)
	}
	return config.normalize(), nil
}

func saveConfig(path string, config appConfig) error {
	if path == "" {
		return fmt.Errorf("unable to determine config path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(config)
}

func (c appConfig) normalize() appConfig {
	c.DataDir = expandHome(c.DataDir)
	c.GalleryDir = expandHome(c.GalleryDir)
	c.Device = expandHome(c.Device)
	if c.Cooldown.Duration <= 0 {
		c.Cooldown.Duration = scan.DefaultCooldown
	}
	if c.DebounceWindow.Duration <= 0 {
		c.DebounceWindow.Duration = scan.DefaultDebounceWindow
	}
	if c.LogFile == "" {
		c.LogFile = "qrscan.log"
	}
	return c
}

func (c appConfig) hasTorch() bool {
	return c.Device != "" && c.TorchOn != "" && c.TorchOff != ""
}

// logPath resolves a relative log file against the data directory.
func (c appConfig) logPath() string {
	if filepath.IsAbs(c.LogFile) {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, c.LogFile)
}

func (c appConfig) level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
