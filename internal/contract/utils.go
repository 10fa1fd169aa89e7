package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Heatmap intensity label constants, indexed by level.
const (
	IdleValue     = "Idle"
	LightValue    = "Light"
	ModerateValue = "Moderate"
	BusyValue     = "Busy"
	IntenseValue  = "Intense"
)

// Color variables for console output.
var (
	IntenseColor  = color.New(color.FgGreen, color.Bold)
	BusyColor     = color.New(color.FgGreen)
	ModerateColor = color.New(color.FgCyan)
	LightColor    = color.New(color.FgBlue)
	IdleColor     = color.New(color.FgHiBlack)

	LegendaryColor = color.New(color.FgMagenta, color.Bold)
	DiamondColor   = color.New(color.FgCyan, color.Bold)
	GoldColor      = color.New(color.FgYellow, color.Bold)
	SilverColor    = color.New(color.FgWhite)
	BronzeColor    = color.New(color.FgRed)
)

// GetPlainHeatLabel returns a plain text label for a heatmap level.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainHeatLabel(level int) string {
	switch {
	case level >= 4:
		return IntenseValue
	case level == 3:
		return BusyValue
	case level == 2:
		return ModerateValue
	case level == 1:
		return LightValue
	default:
		return IdleValue
	}
}

// GetColorHeatLabel returns a colored heatmap label for console output (table).
func GetColorHeatLabel(level int) string {
	text := GetPlainHeatLabel(level)

	switch text {
	case IntenseValue:
		return IntenseColor.Sprint(text)
	case BusyValue:
		return BusyColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	case LightValue:
		return LightColor.Sprint(text)
	default:
		return IdleColor.Sprint(text)
	}
}

// GetColorMilestoneLevel returns a colored milestone level for console output (table).
func GetColorMilestoneLevel(level string) string {
	switch level {
	case "legendary":
		return LegendaryColor.Sprint(level)
	case "diamond":
		return DiamondColor.Sprint(level)
	case "gold":
		return GoldColor.Sprint(level)
	case "silver":
		return SilverColor.Sprint(level)
	default:
		return BronzeColor.Sprint(level)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// NewLogger builds a console logger on stderr at the given level.
func NewLogger(level zapcore.Level) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}

// GetPrefsDBFilePath returns the path to the SQLite DB file for preference storage.
func GetPrefsDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".devpulse_prefs.db"
	}
	return filepath.Join(homeDir, ".devpulse_prefs.db")
}

// TruncateText truncates s to maxWidth runes with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
