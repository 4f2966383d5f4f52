package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"treegrid/client"
	"treegrid/common"
	"treegrid/tree"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	TemplateFieldName string

	TreeConfig struct {
		MaxDepth         int     `yaml:"max_depth" validate:"min=1"`
		ChildProbability float64 `yaml:"child_probability" validate:"gte=0,lte=1"`
		TotalNodes       int     `yaml:"total_nodes" validate:"min=1"`
		Seed             uint64  `yaml:"seed"`
		MinChildren      int     `yaml:"min_children" validate:"min=1"`
		ChildSpread      int     `yaml:"child_spread" validate:"gte=0"`
		LabelTemplate    string  `yaml:"label_template" validate:"required"`
		LineTemplate     string  `yaml:"line_template" validate:"required"`
		Transliterate    bool    `yaml:"transliterate"`
	}

	ServerConfig struct {
		Listen        string        `yaml:"listen" validate:"required,hostname_port"`
		ResponseDelay time.Duration `yaml:"response_delay" validate:"gte=0"`
		ReadTimeout   time.Duration `yaml:"read_timeout" validate:"gte=0"`
		WriteTimeout  time.Duration `yaml:"write_timeout" validate:"gte=0"`
		// MaxConnections limits simultaneously accepted connections, 0 - no limit.
		MaxConnections int             `yaml:"max_connections" validate:"gte=0"`
		FoldMode       common.FoldMode `yaml:"fold_mode"`
		VerifyPaths    bool            `yaml:"verify_paths"`
	}

	GridConfig struct {
		CacheBlockSize        int           `yaml:"cache_block_size" validate:"min=1"`
		MaxBlocksInCache      int           `yaml:"max_blocks_in_cache" validate:"gte=0"`
		MaxConcurrentRequests int           `yaml:"max_concurrent_requests" validate:"gte=0"`
		BlockLoadDebounce     time.Duration `yaml:"block_load_debounce" validate:"gte=0"`
	}

	Config struct {
		Version   int            `yaml:"version" validate:"eq=1"`
		Tree      TreeConfig     `yaml:"tree"`
		Server    ServerConfig   `yaml:"server"`
		Grid      GridConfig     `yaml:"grid"`
		Logging   LoggingConfig  `yaml:"logging"`
		Reporting ReporterConfig `yaml:"reporting"`
	}
)

const (
	// NOTE: must match yaml field names above
	LabelTemplateFieldName TemplateFieldName = "label_template"
	LineTemplateFieldName  TemplateFieldName = "line_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(string(LabelTemplateFieldName)),
	gencfg.WithDoNotExpandField(string(LineTemplateFieldName)),
)

// Generator returns generator parameters.
func (conf *TreeConfig) Generator() tree.GeneratorConfig {
	return tree.GeneratorConfig{
		MaxDepth:         conf.MaxDepth,
		ChildProbability: conf.ChildProbability,
		TotalNodes:       conf.TotalNodes,
		Seed:             conf.Seed,
		MinChildren:      conf.MinChildren,
		ChildSpread:      conf.ChildSpread,
	}
}

// Labeler compiles node payload templates.
func (conf *TreeConfig) Labeler() (*tree.Labeler, error) {
	return tree.NewLabeler(conf.LabelTemplate, conf.LineTemplate, conf.Transliterate)
}

// Options returns row model tuning knobs.
func (conf *GridConfig) Options() client.GridOptions {
	return client.GridOptions{
		CacheBlockSize:        conf.CacheBlockSize,
		MaxBlocksInCache:      conf.MaxBlocksInCache,
		MaxConcurrentRequests: conf.MaxConcurrentRequests,
		BlockLoadDebounce:     conf.BlockLoadDebounce,
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, fmt.Errorf("failed to sanitize configuration: %w", err)
		}
		if err := gencfg.Validate(cfg); err != nil {
			return nil, fmt.Errorf("failed to validate configuration: %w", err)
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}
