package dataset

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultSep        = "\t"
	DefaultMaxSeqLen  = 75
	DefaultOutsideTag = "O"
	DefaultPadWord    = "ENDPAD"
	DefaultWorkers    = 4
)

var ErrInvalidConfig = errors.New("invalid dataset config")

type Config struct {
	DatasetPath string   `yaml:"dataset_path" env:"DATASET_PATH"` // Directory holding train.* and test.*
	Sep         string   `yaml:"sep" env:"SEP"`                   // Field separator, shared by every parse
	Names       []string `yaml:"names" env:"NAMES" envSeparator:","`
	Header      bool     `yaml:"header" env:"HEADER"` // Skip the first line of each file
	MaxSeqLen   int      `yaml:"max_seq_len" env:"MAX_SEQ_LEN"`

	OutsideTag string `yaml:"outside_tag" env:"OUTSIDE_TAG"` // Tag used to pad tag sequences
	PadWord    string `yaml:"pad_word" env:"PAD_WORD"`       // Reserved word type, never seen in the data
	Normalize  string `yaml:"normalize" env:"NORMALIZE"`     // "", "nfc" or "nfkc"

	IndexCachePath string `yaml:"index_cache_path" env:"INDEX_CACHE_PATH"`
	OutputDir      string `yaml:"output_dir" env:"OUTPUT_DIR"`
	Workers        int    `yaml:"workers" env:"WORKERS"` // Pool size for compound loads
}

// LoadConfig reads a YAML config file and overlays any CONLL_* environment
// variables on top of it. Defaults fill whatever is still unset.
func LoadConfig(fname string) (Config, error) {
	config := Config{}
	dataBytes, err := os.ReadFile(fname)
	if err != nil {
		return Config{}, fmt.Errorf("unable to read config %s: %w", fname, err)
	}
	if err := yaml.Unmarshal(dataBytes, &config); err != nil {
		return Config{}, fmt.Errorf("unable to parse config %s: %w", fname, err)
	}
	if err := env.ParseWithOptions(&config, env.Options{Prefix: "CONLL_"}); err != nil {
		return Config{}, fmt.Errorf("unable to load config from environment: %w", err)
	}
	return config.WithDefaults(), nil
}

func (c Config) WithDefaults() Config {
	if c.Sep == "" {
		c.Sep = DefaultSep
	}
	if len(c.Names) == 0 {
		c.Names = []string{"Word", "Tag"}
	}
	if c.MaxSeqLen == 0 {
		c.MaxSeqLen = DefaultMaxSeqLen
	}
	if c.OutsideTag == "" {
		c.OutsideTag = DefaultOutsideTag
	}
	if c.PadWord == "" {
		c.PadWord = DefaultPadWord
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	return c
}

func (c Config) Validate() error {
	if c.DatasetPath == "" {
		return fmt.Errorf("%w: dataset_path is required", ErrInvalidConfig)
	}
	if c.Sep == "" {
		return fmt.Errorf("%w: sep must not be empty", ErrInvalidConfig)
	}
	if len(c.Names) != 2 {
		return fmt.Errorf("%w: names must list exactly two columns, got %d", ErrInvalidConfig, len(c.Names))
	}
	for _, name := range c.Names {
		if name == "" {
			return fmt.Errorf("%w: column names must not be empty", ErrInvalidConfig)
		}
	}
	if c.MaxSeqLen <= 0 {
		return fmt.Errorf("%w: max_seq_len must be positive, got %d", ErrInvalidConfig, c.MaxSeqLen)
	}
	if c.OutsideTag == "" || c.PadWord == "" {
		return fmt.Errorf("%w: outside_tag and pad_word must not be empty", ErrInvalidConfig)
	}
	if _, err := normalizer(c.Normalize); err != nil {
		return err
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	return nil
}

// Schema names the table columns. The word type lives in the first field and
// the tag type in the last one.
type Schema struct {
	Fields    []string
	WordField int
	TagField  int
}

func (c Config) Schema() Schema {
	names := c.WithDefaults().Names
	return Schema{Fields: names, WordField: 0, TagField: len(names) - 1}
}

func (s Schema) Width() int {
	return len(s.Fields)
}
