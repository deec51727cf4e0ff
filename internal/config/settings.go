package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/ironsheep/ui-detect/internal/detection"
)

// Environment variable names read by LoadSettings.
const (
	EnvDataDir     = "UIDETECT_DATA_DIR"
	EnvTemplates   = "UIDETECT_TEMPLATES"
	EnvCascades    = "UIDETECT_CASCADES"
	EnvLimit       = "UIDETECT_LIMIT"
	EnvThreshold   = "UIDETECT_THRESHOLD"
	EnvOverlap     = "UIDETECT_OVERLAP"
	EnvContainment = "UIDETECT_CONTAINMENT"
	EnvLogLevel    = "UIDETECT_LOG_LEVEL"
	EnvLogFile     = "UIDETECT_LOG_FILE"
)

// Settings holds everything a run needs besides the screenshot itself.
type Settings struct {
	// DataDir holds the catalogues and the files they name.
	DataDir string `json:"data_dir" validate:"required"`

	// Templates and Cascades are catalogue file names inside DataDir.
	Templates string `json:"templates" validate:"required"`
	Cascades  string `json:"cascades" validate:"required"`

	Limit       int     `json:"limit" validate:"gt=0"`
	Threshold   float64 `json:"threshold" validate:"gt=0,lt=1"`
	Overlap     float64 `json:"overlap" validate:"gt=0,lt=1"`
	Containment float64 `json:"containment" validate:"gt=0,lte=1"`

	LogLevel string `json:"log_level" validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFile  string `json:"log_file"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		DataDir:     "data",
		Templates:   "templates.txt",
		Cascades:    "cascades.txt",
		Limit:       detection.DefaultLimit,
		Threshold:   detection.DefaultThreshold,
		Overlap:     detection.DefaultOverlap,
		Containment: detection.DefaultContainment,
		LogLevel:    "info",
	}
}

// ExtractOptions returns the candidate extraction part of s.
func (s Settings) ExtractOptions() detection.ExtractOptions {
	return detection.ExtractOptions{Threshold: s.Threshold, Limit: s.Limit}
}

// Coefficients returns the acceptance part of s.
func (s Settings) Coefficients() detection.Coefficients {
	return detection.Coefficients{Overlap: s.Overlap, Containment: s.Containment}
}

var validate = validator.New()

// Validate checks every field against its range.
func (s Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// LoadSettings reads settings from the environment after loading the
// given .env files. Missing .env files are ignored, variables already set
// in the environment win, and unset variables keep their defaults.
func LoadSettings(envFiles ...string) (Settings, error) {
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Settings{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	s := DefaultSettings()
	str(&s.DataDir, EnvDataDir)
	str(&s.Templates, EnvTemplates)
	str(&s.Cascades, EnvCascades)
	str(&s.LogLevel, EnvLogLevel)
	str(&s.LogFile, EnvLogFile)

	if err := integer(&s.Limit, EnvLimit); err != nil {
		return Settings{}, err
	}
	for _, f := range []struct {
		dst *float64
		key string
	}{
		{&s.Threshold, EnvThreshold},
		{&s.Overlap, EnvOverlap},
		{&s.Containment, EnvContainment},
	} {
		if err := float(f.dst, f.key); err != nil {
			return Settings{}, err
		}
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func str(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func integer(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func float(dst *float64, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	*dst = f
	return nil
}
