// Package config loads stockroom settings from an optional YAML file and
// STOCKROOM_* environment variables, in that order of precedence, on top of
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override, e.g. STOCKROOM_DATABASE_PATH.
const EnvPrefix = "STOCKROOM_"

type Config struct {
	Database struct {
		Path string `json:"path" yaml:"path" validate:"required"`
	} `json:"database" yaml:"database"`

	Customers struct {
		// IndexMode is "derived" or "legacy"; see store.IndexMode.
		IndexMode string `json:"indexMode" yaml:"indexMode" validate:"oneof=derived legacy"`
	} `json:"customers" yaml:"customers"`

	Notify struct {
		Delay time.Duration `json:"delay" yaml:"delay" validate:"gt=0"`
	} `json:"notify" yaml:"notify"`

	Images struct {
		MaxKB int `json:"maxKB" yaml:"maxKB" validate:"gt=0"`
	} `json:"images" yaml:"images"`

	Currency struct {
		// Rate is KZT per CNY.
		Rate float64 `json:"rate" yaml:"rate" validate:"gt=0"`
	} `json:"currency" yaml:"currency"`

	Labels struct {
		Size     int    `json:"size" yaml:"size" validate:"gte=64,lte=2048"`
		Recovery string `json:"recovery" yaml:"recovery" validate:"oneof=L M Q H"`
	} `json:"labels" yaml:"labels"`

	Log Log `json:"log" yaml:"log"`
}

type Log struct {
	Level string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
}

// Default returns the settings used when nothing overrides them.
func Default() *Config {
	cfg := new(Config)
	cfg.Database.Path = "stockroom.db"
	cfg.Customers.IndexMode = "derived"
	cfg.Notify.Delay = 2 * time.Second
	cfg.Images.MaxKB = 1000
	cfg.Currency.Rate = 65
	cfg.Labels.Size = 256
	cfg.Labels.Recovery = "M"
	cfg.Log.Level = "info"
	return cfg
}

// Load reads the YAML file at path (skipped when path is empty), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	known := defaultKeys()

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(key, value string) (string, any) {
			// STOCKROOM_CUSTOMERS_INDEXMODE -> customers.indexMode
			return canonicalizeEnvKey(strings.TrimPrefix(key, EnvPrefix), known), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("load env variables: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			TagName:          "yaml",
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field constraint.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// SlogLevel maps Log.Level onto a slog level.
func (l Log) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// defaultKeys lists the key layout of Config for mapping environment
// variables onto camelCase keys.
func defaultKeys() map[string]any {
	return map[string]any{
		"database":  map[string]any{"path": nil},
		"customers": map[string]any{"indexMode": nil},
		"notify":    map[string]any{"delay": nil},
		"images":    map[string]any{"maxKB": nil},
		"currency":  map[string]any{"rate": nil},
		"labels":    map[string]any{"size": nil, "recovery": nil},
		"log":       map[string]any{"level": nil},
	}
}

// canonicalizeEnvKey converts an underscore separated variable name into a
// dotted key, reusing the spelling of keys already known.
func canonicalizeEnvKey(rawKey string, existing map[string]any) string {
	segments := strings.Split(strings.ToLower(rawKey), "_")
	canonical := make([]string, 0, len(segments))
	current := existing

	for _, segment := range segments {
		if segment == "" {
			continue
		}
		if matched, next, ok := findExistingSegment(current, segment); ok {
			canonical = append(canonical, matched)
			current = next
		} else {
			canonical = append(canonical, segment)
			current = nil
		}
	}
	return strings.Join(canonical, ".")
}

func findExistingSegment(current map[string]any, segment string) (string, map[string]any, bool) {
	needle := normalizeToken(segment)
	for key, value := range current {
		if normalizeToken(key) != needle {
			continue
		}
		child, _ := value.(map[string]any)
		return key, child, true
	}
	return "", nil, false
}

func normalizeToken(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}
