package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	FrameModeRaw        = "raw"
	FrameModeCumulative = "cumulative"
)

const (
	CompressionDefault = "default"
	CompressionNone    = "none"
	CompressionSpeed   = "speed"
	CompressionBest    = "best"
)

type Config struct {
	InputDir  string `env:"INPUT_DIR"  envDefault:"input"`
	OutputDir string `env:"OUTPUT_DIR" envDefault:"output"`
	Recursive bool   `env:"RECURSIVE"  envDefault:"true"`

	FrameMode         string `env:"FRAME_MODE"          envDefault:"raw"`
	MaxFrameDimension int    `env:"MAX_FRAME_DIMENSION" envDefault:"0"`
	PNGCompression    string `env:"PNG_COMPRESSION"     envDefault:"default"`

	LogLevel        string `env:"LOG_LEVEL"        envDefault:"info"`
	MetricsTextfile string `env:"METRICS_TEXTFILE"`
	OTLPEndpoint    string `env:"OTLP_ENDPOINT"`

	MinIOEndpoint  string `env:"MINIO_ENDPOINT"`
	MinIOAccessKey string `env:"MINIO_ACCESS_KEY" envDefault:"minioadmin"`
	MinIOSecretKey string `env:"MINIO_SECRET_KEY" envDefault:"minioadmin"`
	MinIOUseSSL    bool   `env:"MINIO_USE_SSL"    envDefault:"false"`
	MinIOBucket    string `env:"MINIO_BUCKET"     envDefault:"frames"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.InputDir == "" || c.OutputDir == "" {
		return errors.New("INPUT_DIR and OUTPUT_DIR must not be empty")
	}

	switch c.FrameMode {
	case FrameModeRaw, FrameModeCumulative:
	default:
		return fmt.Errorf("invalid FRAME_MODE %q (use 'raw' or 'cumulative')", c.FrameMode)
	}

	switch c.PNGCompression {
	case CompressionDefault, CompressionNone, CompressionSpeed, CompressionBest:
	default:
		return fmt.Errorf("invalid PNG_COMPRESSION %q (use 'default', 'none', 'speed' or 'best')", c.PNGCompression)
	}

	if c.MaxFrameDimension < 0 {
		return fmt.Errorf("MAX_FRAME_DIMENSION must be >= 0, got %d", c.MaxFrameDimension)
	}
	return nil
}

// MaxDepth translates Recursive into a discovery depth: -1 walks the whole
// tree, 0 lists only the root directory.
func (c *Config) MaxDepth() int {
	if c.Recursive {
		return -1
	}
	return 0
}

// StorageEnabled reports whether written frames are mirrored to a bucket.
func (c *Config) StorageEnabled() bool {
	return c.MinIOEndpoint != ""
}
