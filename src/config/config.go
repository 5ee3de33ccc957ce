package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvFileEnvVar = "SCREEN_ANNOTATE_ENV"

	DefaultPicturesFolder = "Pictures"
	DefaultCaptureDelay   = 100 * time.Millisecond
	DefaultToastDuration  = 1500 * time.Millisecond
	DefaultPenWidth       = 3.0
	DefaultDrawMode       = "line"
	DefaultCaptureScope   = "primary"
	DefaultHotkeyFull     = "Ctrl+Alt+A"
	DefaultHotkeyRegion   = "Ctrl+Alt+S"
	DefaultPortStart      = 49600
	DefaultPortEnd        = 49650

	// HotkeyOff disables a hotkey.
	HotkeyOff = "off"
)

var DefaultPenColor = color.RGBA{R: 255, A: 255}

type LoadOptions struct {
	SaveDirOverride  string
	DrawModeOverride string
	// EnvFile forces a specific env file instead of the lookup next to the
	// executable.
	EnvFile string
}

type Config struct {
	SaveDir         string
	PicturesFolder  string
	CaptureDelay    time.Duration
	ToastDuration   time.Duration
	PenColor        color.RGBA
	PenWidth        float64
	DrawMode        string
	CaptureScope    string
	HotkeyFull      string
	HotkeyRegion    string
	CopyToClipboard bool

	EnableFileLogging bool
	LogDir            string

	PortStart int
	PortEnd   int
}

func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	// Sources in priority order:
	// 1) CLI overrides
	// 2) process environment, after .env next to the executable (or the file
	//    named by SCREEN_ANNOTATE_ENV) has been merged in without overriding
	envPath := strings.TrimSpace(opts.EnvFile)
	if envPath == "" {
		envPath = resolveEnvPath()
	}
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", envPath, err)
		}
	}

	penColor := DefaultPenColor
	if v := strings.TrimSpace(os.Getenv("PEN_COLOR")); v != "" {
		c, err := ParseColor(v)
		if err != nil {
			return nil, fmt.Errorf("PEN_COLOR: %w", err)
		}
		penColor = c
	}

	cfg := &Config{
		PicturesFolder:    getEnvWithDefault("PICTURES_FOLDER", DefaultPicturesFolder),
		CaptureDelay:      getMillis("CAPTURE_DELAY_MS", DefaultCaptureDelay),
		ToastDuration:     getMillis("NOTIFICATION_MS", DefaultToastDuration),
		PenColor:          penColor,
		PenWidth:          getPositiveFloat("PEN_WIDTH", DefaultPenWidth),
		DrawMode:          resolveDrawMode(opts),
		CaptureScope:      getEnvWithDefault("CAPTURE_SCOPE", DefaultCaptureScope),
		HotkeyFull:        getEnvWithDefault("HOTKEY_FULLSCREEN", DefaultHotkeyFull),
		HotkeyRegion:      getEnvWithDefault("HOTKEY_REGION", DefaultHotkeyRegion),
		CopyToClipboard:   getBool("COPY_TO_CLIPBOARD"),
		EnableFileLogging: getBool("ENABLE_FILE_LOGGING"),
		LogDir:            strings.TrimSpace(os.Getenv("LOG_DIR")),
		PortStart:         getPositiveInt("SINGLEINSTANCE_PORT_START", DefaultPortStart),
		PortEnd:           getPositiveInt("SINGLEINSTANCE_PORT_END", DefaultPortEnd),
	}
	if cfg.PortEnd < cfg.PortStart {
		cfg.PortStart, cfg.PortEnd = DefaultPortStart, DefaultPortEnd
	}

	saveDir, err := resolveSaveDir(opts, cfg.PicturesFolder)
	if err != nil {
		return nil, err
	}
	cfg.SaveDir = saveDir

	return cfg, nil
}

// HotkeyEnabled reports whether a configured combo should be registered.
func HotkeyEnabled(combo string) bool {
	c := strings.ToLower(strings.TrimSpace(combo))
	return c != "" && c != HotkeyOff
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err == nil {
		exeEnv := filepath.Join(filepath.Dir(execPath), ".env")
		if _, err := os.Stat(exeEnv); err == nil {
			return exeEnv
		}
	}

	if alt := os.Getenv(EnvFileEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func resolveSaveDir(opts LoadOptions, pictures string) (string, error) {
	if override := strings.TrimSpace(opts.SaveDirOverride); override != "" {
		return override, nil
	}
	if dir := strings.TrimSpace(os.Getenv("SAVE_DIR")); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, "OneDrive", pictures, "Screenshots"), nil
}

func resolveDrawMode(opts LoadOptions) string {
	if override := strings.TrimSpace(opts.DrawModeOverride); override != "" {
		return normalizeDrawMode(override)
	}
	return normalizeDrawMode(os.Getenv("DEFAULT_DRAW_MODE"))
}

func normalizeDrawMode(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "arrow":
		return "arrow"
	default:
		return DefaultDrawMode
	}
}

// ParseColor parses #RRGGBB or #RRGGBBAA. The hex values are straight alpha;
// the result is premultiplied like every color.RGBA.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q, want #RRGGBB or #RRGGBBAA", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	straight := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return color.RGBAModel.Convert(straight).(color.RGBA), nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string) bool {
	return strings.ToLower(strings.TrimSpace(os.Getenv(key))) == "true"
}

func getPositiveInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getPositiveFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}

func getMillis(key string, def time.Duration) time.Duration {
	if n := getPositiveInt(key, 0); n > 0 {
		return time.Duration(n) * time.Millisecond
	}
	return def
}
