// Package config loads knolsim settings from defaults, an optional YAML file,
// KNOLSIM_ environment variables and command-line flags, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/conorfennell/knolsim/internal/review"
)

// EnvPrefix prefixes every environment variable read by Load.
// Sections are separated by a double underscore: KNOLSIM_SCHEDULER__MIN_EFACTOR.
const EnvPrefix = "KNOLSIM_"

var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the full application configuration.
type Config struct {
	Scheduler  Scheduler  `koanf:"scheduler"`
	Simulation Simulation `koanf:"simulation"`
	Report     Report     `koanf:"report"`
	Log        Log        `koanf:"log"`
}

// Scheduler mirrors review.Params.
type Scheduler struct {
	MinEFactor float64       `koanf:"min_efactor" validate:"gt=0"`
	MaxEFactor float64       `koanf:"max_efactor" validate:"gtfield=MinEFactor"`
	Day        time.Duration `koanf:"day" validate:"gt=0"`

	LatenessPenalty float64 `koanf:"lateness_penalty" validate:"gte=0"`
	ForgetDrop      float64 `koanf:"forget_drop" validate:"gte=0,lte=1"`

	MinMemoryDaysForgot float64 `koanf:"min_memory_days_forgot" validate:"gt=0"`
	MinMemoryDaysHard   float64 `koanf:"min_memory_days_hard" validate:"gte=0"`
	MinMemoryDaysEasy   float64 `koanf:"min_memory_days_easy" validate:"gte=0"`
	LinearGrowthLimit   float64 `koanf:"linear_growth_limit" validate:"gt=0"`
	TailExponent        float64 `koanf:"tail_exponent" validate:"gt=0,lte=1"`
	MaxMemoryDaysLimit  float64 `koanf:"max_memory_days_limit" validate:"gt=0"`

	FirstDueInterval         float64 `koanf:"first_due_interval" validate:"gte=0"`
	DueIntervalPerRepetition float64 `koanf:"due_interval_per_repetition" validate:"gte=0"`

	LogWeight       float64 `koanf:"log_weight" validate:"gte=0"`
	EFactorWeight   float64 `koanf:"efactor_weight" validate:"gte=0"`
	EFactorHeadroom float64 `koanf:"efactor_headroom" validate:"gte=0"`
}

// Simulation configures the answer driver.
type Simulation struct {
	Seed        int64  `koanf:"seed"`
	Count       int    `koanf:"count" validate:"gte=0"`
	MaxLateDays int    `koanf:"max_late_days" validate:"gte=0,lte=36500"`
	Script      string `koanf:"script" validate:"omitempty,file"`
	// Start is an RFC 3339 timestamp; empty means the current time.
	Start string `koanf:"start" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// Report configures how a history is printed.
type Report struct {
	Format string `koanf:"format" validate:"oneof=list json"`
	Plain  bool   `koanf:"plain"`
	Detail int    `koanf:"detail" validate:"gte=-1"` // review index to detail, -1 for none
}

// Log configures the slog handler.
type Log struct {
	Level string `koanf:"level" validate:"oneof=debug info warn error"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	p := review.DefaultParams()
	return Config{
		Scheduler: Scheduler{
			MinEFactor:               p.MinEFactor,
			MaxEFactor:               p.MaxEFactor,
			Day:                      p.Day,
			LatenessPenalty:          p.LatenessPenalty,
			ForgetDrop:               p.ForgetDrop,
			MinMemoryDaysForgot:      p.MinMemoryDaysForgot,
			MinMemoryDaysHard:        p.MinMemoryDaysHard,
			MinMemoryDaysEasy:        p.MinMemoryDaysEasy,
			LinearGrowthLimit:        p.LinearGrowthLimit,
			TailExponent:             p.TailExponent,
			MaxMemoryDaysLimit:       p.MaxMemoryDaysLimit,
			FirstDueInterval:         p.FirstDueInterval,
			DueIntervalPerRepetition: p.DueIntervalPerRepetition,
			LogWeight:                p.LogWeight,
			EFactorWeight:            p.EFactorWeight,
			EFactorHeadroom:          p.EFactorHeadroom,
		},
		Simulation: Simulation{
			Seed:        1,
			Count:       20,
			MaxLateDays: 12,
		},
		Report: Report{
			Format: "list",
			Detail: -1,
		},
		Log: Log{Level: "info"},
	}
}

// Load builds the configuration. path may be empty to skip the YAML file.
// Only flags present in flagKeys and explicitly set on the command line
// override earlier sources; flagKeys maps a flag name to its config key.
func Load(path string, flags *pflag.FlagSet, flagKeys map[string]string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps KNOLSIM_SCHEDULER__MIN_EFACTOR to scheduler.min_efactor.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

var validate = validator.New()

// Validate checks field constraints and the resulting scheduler tuning.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(fields, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Scheduler.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Params converts the scheduler section into review parameters.
func (s Scheduler) Params() review.Params {
	return review.Params{
		MinEFactor:               s.MinEFactor,
		MaxEFactor:               s.MaxEFactor,
		Day:                      s.Day,
		LatenessPenalty:          s.LatenessPenalty,
		ForgetDrop:               s.ForgetDrop,
		MinMemoryDaysForgot:      s.MinMemoryDaysForgot,
		MinMemoryDaysHard:        s.MinMemoryDaysHard,
		MinMemoryDaysEasy:        s.MinMemoryDaysEasy,
		LinearGrowthLimit:        s.LinearGrowthLimit,
		TailExponent:             s.TailExponent,
		MaxMemoryDaysLimit:       s.MaxMemoryDaysLimit,
		FirstDueInterval:         s.FirstDueInterval,
		DueIntervalPerRepetition: s.DueIntervalPerRepetition,
		LogWeight:                s.LogWeight,
		EFactorWeight:            s.EFactorWeight,
		EFactorHeadroom:          s.EFactorHeadroom,
	}
}

// StartTime returns the configured simulation start, or now when unset.
func (s Simulation) StartTime(now time.Time) (time.Time, error) {
	if s.Start == "" {
		return now, nil
	}
	t, err := time.Parse(time.RFC3339, s.Start)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: simulation.start: %w", ErrInvalidConfig, err)
	}
	return t, nil
}

// SlogLevel returns the slog level named by Level.
func (l Log) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}
