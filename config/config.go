package config

import (
	"os"

	"github.com/juju/errors"
	"github.com/mcuadros/go-defaults"
	"gopkg.in/yaml.v3"

	"github.com/quarrydata/taskpipe/types"
)

// Config is the shared run configuration. Tasks receive it through the
// reserved `config` handler parameter; credentials pass through verbatim,
// auth is handled by the upstream services.
type Config struct {
	Trello TrelloConfig `yaml:"trello"`
	Float  FloatConfig  `yaml:"float"`
	Sheets SheetsConfig `yaml:"sheets"`
	Run    RunConfig    `yaml:"run"`
}

type TrelloConfig struct {
	BaseURL string   `yaml:"base_url" default:"https://api.trello.com/1"`
	Key     string   `yaml:"key"`
	Token   string   `yaml:"token"`
	Boards  []string `yaml:"boards"`
}

type FloatConfig struct {
	BaseURL  string `yaml:"base_url" default:"https://api.float.com/v3"`
	Token    string `yaml:"token"`
	PageSize int    `yaml:"page_size" default:"200"`
}

type SheetsConfig struct {
	ExportDir  string  `yaml:"export_dir" default:"exports"`
	Currency   string  `yaml:"currency" default:"AUD"`
	HourlyRate float64 `yaml:"hourly_rate" default:"95"`
}

type RunConfig struct {
	MaxRetries  int    `yaml:"max_retries" default:"2"`
	Store       string `yaml:"store" default:"mem"`
	SQLitePath  string `yaml:"sqlite_path" default:"taskpipe.db"`
	PostgresDSN string `yaml:"postgres_dsn"`
}

func New() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	return cfg
}

// Load reads a yaml configuration file over the defaults.
func Load(path string) (*Config, error) {
	cfg := New()

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to read config %s", path)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, errors.Annotatef(err, "failed to parse config %s", path)
	}
	return cfg, nil
}

// Data exposes the configuration as the Data payload bound to the reserved
// `config` parameter of task handlers.
func (c *Config) Data() types.Data {
	return types.Data{
		"trello": c.Trello,
		"float":  c.Float,
		"sheets": c.Sheets,
		"run":    c.Run,
	}
}
