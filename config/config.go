package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const defaultPath = "."

type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port int `json:"port" yaml:"port" validate:"required,min=1,max=65535"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	// Upstream configures the listing-search provider client.
	Upstream *UpstreamConfig `json:"upstream" yaml:"upstream" validate:"required"`

	// Registry configures the building-registry enrichment client.
	Registry *RegistryConfig `json:"registry" yaml:"registry" validate:"required"`

	// SMS configures the Twilio dispatcher.
	SMS *SMSConfig `json:"sms" yaml:"sms"`

	// Email configures the SendGrid dispatcher.
	Email *EmailConfig `json:"email" yaml:"email"`

	// Dispatch configures queue draining shared by both dispatchers.
	Dispatch DispatchConfig `json:"dispatch" yaml:"dispatch"`

	// Retention configures the listing staleness sweep.
	Retention RetentionConfig `json:"retention" yaml:"retention"`

	// Worker configures the cycle-trigger endpoint.
	Worker WorkerConfig `json:"worker" yaml:"worker"`
}

type Log struct {
	Pretty bool   `json:"pretty" yaml:"pretty"`
	Level  string `json:"level" yaml:"level"`
}

// UpstreamConfig defines the listing-search provider connection.
type UpstreamConfig struct {
	BaseURL   string        `json:"baseUrl" yaml:"baseUrl" validate:"required,url"`
	APIKey    string        `json:"apiKey" yaml:"apiKey"`
	Timeout   time.Duration `json:"timeout" yaml:"timeout"`
	PageLimit int           `json:"pageLimit" yaml:"pageLimit" validate:"min=0,max=500"`
}

// RegistryConfig defines the building-registry connection and enrichment
// policy knobs.
type RegistryConfig struct {
	BaseURL       string        `json:"baseUrl" yaml:"baseUrl" validate:"required,url"`
	AppToken      string        `json:"appToken" yaml:"appToken"`
	LookupTimeout time.Duration `json:"lookupTimeout" yaml:"lookupTimeout"`

	// CoordTolerance is the half-width in degrees of the bounding box used
	// for nearby-building lookups.
	CoordTolerance float64 `json:"coordTolerance" yaml:"coordTolerance"`

	// CacheTTL bounds the rounded-coordinate lookup cache.
	CacheTTL time.Duration `json:"cacheTtl" yaml:"cacheTtl"`

	// RecheckAfter is how long an enrichment result stays fresh.
	RecheckAfter time.Duration `json:"recheckAfter" yaml:"recheckAfter"`
}

// SMSConfig defines the Twilio sender.
type SMSConfig struct {
	AccountSID string        `json:"accountSid" yaml:"accountSid" validate:"required"`
	AuthToken  string        `json:"authToken" yaml:"authToken" validate:"required"`
	From       string        `json:"from" yaml:"from" validate:"required"`
	ChunkSize  int           `json:"chunkSize" yaml:"chunkSize"`
	ChunkDelay time.Duration `json:"chunkDelay" yaml:"chunkDelay"`
}

// EmailConfig defines the SendGrid sender.
type EmailConfig struct {
	APIKey      string `json:"apiKey" yaml:"apiKey" validate:"required"`
	FromAddress string `json:"fromAddress" yaml:"fromAddress" validate:"required,email"`
	FromName    string `json:"fromName" yaml:"fromName"`
}

// DispatchConfig defines queue draining behavior.
type DispatchConfig struct {
	PageSize int `json:"pageSize" yaml:"pageSize" validate:"min=0,max=500"`
}

// RetentionConfig defines storage hygiene windows.
type RetentionConfig struct {
	ListingDays int `json:"listingDays" yaml:"listingDays"`
}

// WorkerConfig defines the cycle-trigger endpoint.
type WorkerConfig struct {
	// Token, when set, is required as a bearer token on POST /cycle.
	Token string `json:"token" yaml:"token"`
}

const (
	defaultUpstreamTimeout  = 30 * time.Second
	defaultUpstreamPageSize = 100
	defaultLookupTimeout    = 5 * time.Second
	defaultCoordTolerance   = 0.0005
	defaultCacheTTL         = 12 * time.Hour
	defaultRecheckAfter     = 30 * 24 * time.Hour
	defaultSMSChunkSize     = 10
	defaultSMSChunkDelay    = time.Second
	defaultDispatchPage     = 50
	defaultListingDays      = 7
)

// LoadWithEnv loads .yaml files through koanf with env-var overlay.
func LoadWithEnv[T any](currEnv string, configPath ...string) (*T, error) {
	cfg := new(T)
	koanfInstance := koanf.New(".")

	// Build list of paths to search for config file
	searchPaths := []string{defaultPath}
	if len(configPath) != 0 {
		pwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "os.Getwd")
		}
		for _, path := range configPath {
			abs := filepath.Join(pwd, path)
			searchPaths = append(searchPaths, abs)
		}
	}

	// Try to find and load the config file
	var configFile string
	var found bool
	for _, path := range searchPaths {
		candidate := filepath.Join(path, currEnv+".yaml")
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
			found = true

			break
		}
	}

	if !found {
		return nil, errors.Errorf("config file %s.yaml not found in any search path", currEnv)
	}

	// Load YAML config file
	if err := koanfInstance.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, "read %s config failed", currEnv)
	}

	existingConfigMap := koanfInstance.Raw()

	// Load environment variables
	if err := koanfInstance.Load(env.Provider(".", env.Opt{
		TransformFunc: func(k, v string) (string, any) {
			// Convert ENV_VAR_NAME to path and align each segment with existing YAML keys.
			// Example: POSTGRES_SSLMODE -> postgres.sslMode (not postgres.sslmode)
			key := canonicalizeEnvKey(k, existingConfigMap)

			return key, v
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	// Unmarshal into the config struct (case-insensitive to match env vars)
	if err := koanfInstance.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				// Case-insensitive matching for env var overrides
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s config failed", currEnv)
	}

	return cfg, nil
}

func New() (*Config, error) {
	cfg, err := LoadWithEnv[Config]("config", "config", "../config", "../../config")
	if err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	// Build replicas from environment variables (POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, etc.)
	if cfg.Postgres != nil {
		cfg.Postgres.Replicas = buildReplicasFromEnv()
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Upstream != nil {
		if c.Upstream.Timeout <= 0 {
			c.Upstream.Timeout = defaultUpstreamTimeout
		}
		if c.Upstream.PageLimit <= 0 {
			c.Upstream.PageLimit = defaultUpstreamPageSize
		}
	}
	if c.Registry != nil {
		if c.Registry.LookupTimeout <= 0 {
			c.Registry.LookupTimeout = defaultLookupTimeout
		}
		if c.Registry.CoordTolerance <= 0 {
			c.Registry.CoordTolerance = defaultCoordTolerance
		}
		if c.Registry.CacheTTL <= 0 {
			c.Registry.CacheTTL = defaultCacheTTL
		}
		if c.Registry.RecheckAfter <= 0 {
			c.Registry.RecheckAfter = defaultRecheckAfter
		}
	}
	if c.SMS != nil {
		if c.SMS.ChunkSize <= 0 {
			c.SMS.ChunkSize = defaultSMSChunkSize
		}
		if c.SMS.ChunkDelay <= 0 {
			c.SMS.ChunkDelay = defaultSMSChunkDelay
		}
	}
	if c.Dispatch.PageSize <= 0 {
		c.Dispatch.PageSize = defaultDispatchPage
	}
	if c.Retention.ListingDays <= 0 {
		c.Retention.ListingDays = defaultListingDays
	}
}

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

func findExistingSegment(current map[string]any, segment string) (matched string, next map[string]any, ok bool) {
	if len(current) == 0 {
		return "", nil, false
	}

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
	var normalized strings.Builder
	normalized.Grow(len(s))

	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		normalized.WriteRune(unicode.ToLower(r))
	}

	return normalized.String()
}

// buildReplicasFromEnv builds the replicas slice from environment variables.
// Environment variable format: POSTGRES_REPLICAS_{index}_{field}
// Example: POSTGRES_REPLICAS_0_HOST, POSTGRES_REPLICAS_0_PORT, POSTGRES_REPLICAS_0_USERNAME, POSTGRES_REPLICAS_0_PASSWORD
func buildReplicasFromEnv() []postgres.ConnectionConfig {
	var replicas []postgres.ConnectionConfig

	for i := 0; ; i++ {
		prefix := "POSTGRES_REPLICAS_" + strconv.Itoa(i) + "_"

		host := os.Getenv(prefix + "HOST")
		port := os.Getenv(prefix + "PORT")
		if host == "" || port == "" {
			// No more replicas or incomplete configuration.
			break
		}

		replica := postgres.ConnectionConfig{
			Host:     host,
			Port:     port,
			UserName: os.Getenv(prefix + "USERNAME"),
			Password: os.Getenv(prefix + "PASSWORD"),
		}

		replicas = append(replicas, replica)
	}

	return replicas
}
