package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"taskpulse/internal/priority"
)

const (
	xdgAppName = "taskpulse"
	configFile = "config.yaml"
)

type Config struct {
	DBPath     string       `yaml:"db_path"`
	ListenAddr string       `yaml:"listen_addr"`
	Sweep      SweepConfig  `yaml:"sweep"`
	Priority   ParamsConfig `yaml:"priority"`
	Notify     NotifyConfig `yaml:"notify"`
	FCM        FCMConfig    `yaml:"fcm"`
}

type NotifyConfig struct {
	WebhookTimeoutSeconds int `yaml:"webhook_timeout_seconds"`
}

func (c NotifyConfig) WebhookTimeout() time.Duration {
	return time.Duration(c.WebhookTimeoutSeconds) * time.Second
}

type SweepConfig struct {
	IntervalMinutes int    `yaml:"interval_minutes"`
	LockPath        string `yaml:"lock_path"`
	// UseIntervalGate turns on the per-user minimum interval between
	// reminder batches. Off by default: the historical behavior re-notifies
	// on every sweep.
	UseIntervalGate bool `yaml:"use_interval_gate"`
}

func (c SweepConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// ParamsConfig mirrors priority.Params in the config file. The medium
// bound and the overdue policy are the two knobs whose legacy values
// diverged between the dashboard and the notification path.
type ParamsConfig struct {
	Damping          float64 `yaml:"damping"`
	OverduePolicy    string  `yaml:"overdue_policy"`
	OverdueRate      float64 `yaml:"overdue_rate"`
	HighThreshold    float64 `yaml:"high_threshold"`
	MediumBound      float64 `yaml:"medium_bound"`
	ImportanceHigh   float64 `yaml:"importance_high"`
	ImportanceMedium float64 `yaml:"importance_medium"`
}

func (c ParamsConfig) Params() priority.Params {
	return priority.Params{
		Damping:          c.Damping,
		OverduePolicy:    priority.OverduePolicy(c.OverduePolicy),
		OverdueRate:      c.OverdueRate,
		HighThreshold:    c.HighThreshold,
		MediumBound:      c.MediumBound,
		ImportanceHigh:   c.ImportanceHigh,
		ImportanceMedium: c.ImportanceMedium,
	}
}

type FCMConfig struct {
	ProjectID          string `yaml:"project_id"`
	ServiceAccountPath string `yaml:"service_account_path"`
}

func (c FCMConfig) Enabled() bool {
	return c.ProjectID != "" && c.ServiceAccountPath != ""
}

func Default() Config {
	params := priority.DefaultParams()
	return Config{
		DBPath:     "taskpulse.db",
		ListenAddr: ":8380",
		Sweep: SweepConfig{
			IntervalMinutes: 5,
			LockPath:        filepath.Join(os.TempDir(), "taskpulse-sweep.lock"),
		},
		Notify: NotifyConfig{
			WebhookTimeoutSeconds: 10,
		},
		Priority: ParamsConfig{
			Damping:          params.Damping,
			OverduePolicy:    string(params.OverduePolicy),
			OverdueRate:      params.OverdueRate,
			HighThreshold:    params.HighThreshold,
			MediumBound:      params.MediumBound,
			ImportanceHigh:   params.ImportanceHigh,
			ImportanceMedium: params.ImportanceMedium,
		},
	}
}

func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName, configFile), nil
}

// Load reads the config file at path, layering it over the defaults. A
// missing file yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("db_path is required")
	}
	if c.Sweep.IntervalMinutes <= 0 {
		return fmt.Errorf("sweep.interval_minutes must be positive")
	}
	if c.Notify.WebhookTimeoutSeconds <= 0 {
		return fmt.Errorf("notify.webhook_timeout_seconds must be positive")
	}
	if err := c.Priority.Params().Validate(); err != nil {
		return err
	}
	return nil
}
