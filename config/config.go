package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"

	"github.com/trailtales/trailtales-api/scoring"
)

// ConfigFileEnvVar points at an optional YAML file with engine tuning
const ConfigFileEnvVar = "CONFIG_FILE"

// Config holds the project config values
type Config struct {
	URL                  string           `koanf:"db_uri"`
	DatabaseName         string           `koanf:"db_name"`
	BaseURL              string           `koanf:"base_url"`
	Port                 string           `koanf:"port"`
	Env                  string           `koanf:"env"`
	JWTSecret            string           `koanf:"jwt_secret"`
	RequestTimeout       time.Duration    `koanf:"request_timeout"`
	ItineraryURL         string           `koanf:"itinerary_service_url"`
	ItineraryTimeout     time.Duration    `koanf:"itinerary_timeout"`
	SendGridAPIKey       string           `koanf:"sendgrid_api_key"`
	MailFrom             string           `koanf:"mail_from"`
	ModerationAlertEmail string           `koanf:"moderation_alert_email"`
	Cloudinary           CloudinaryConfig `koanf:"cloudinary"`
	Moderation           ModerationConfig `koanf:"moderation"`
	Ranking              scoring.Weights  `koanf:"ranking"`
}

// CloudinaryConfig holds the CDN credentials used for content images
type CloudinaryConfig struct {
	CloudName string `koanf:"cloud_name"`
	APIKey    string `koanf:"api_key"`
	APISecret string `koanf:"api_secret"`
	Folder    string `koanf:"folder"`
}

// Enabled reports whether every credential is present
func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// ModerationConfig holds the auto-flag thresholds per window
type ModerationConfig struct {
	CriticalThreshold    float64 `koanf:"critical_threshold"`
	HighThreshold        float64 `koanf:"high_threshold"`
	ModerateThreshold    float64 `koanf:"moderate_threshold"`
	MaxDescriptionLength int     `koanf:"max_description_length"`
	DigestSchedule       string  `koanf:"digest_schedule"`
}

func defaultConfig() *Config {
	return &Config{
		DatabaseName:     "trailtales",
		Port:             "8080",
		Env:              "local",
		RequestTimeout:   30 * time.Second,
		ItineraryTimeout: 3 * time.Second,
		MailFrom:         "noreply@trailtales.app",
		Cloudinary: CloudinaryConfig{
			Folder: "trailtales",
		},
		Moderation: ModerationConfig{
			CriticalThreshold:    15,
			HighThreshold:        30,
			ModerateThreshold:    50,
			MaxDescriptionLength: 500,
			DigestSchedule:       "0 * * * *",
		},
		Ranking: scoring.DefaultWeights(),
	}
}

// newLogger is swapped in tests to capture start-up logs
var newLogger = setLogger

// New sets up all config related services
func New() *Config {
	conf, loadErr := Load()
	if loadErr != nil {
		// fall back to defaults plus the raw env so the service can still boot
		conf = defaultConfig()
		conf.URL = os.Getenv("DB_URI")
		if env := os.Getenv("ENV"); env != "" {
			conf.Env = env
		}
	}

	//setup zap logger and replace default logger
	logger, err := newLogger(conf.Env)
	if err != nil {
		logger = zap.NewExample()
	}
	_ = zap.ReplaceGlobals(logger)

	if loadErr != nil {
		zap.S().Errorw("failed to load configuration, using defaults", "error", loadErr)
	}
	return conf
}

// Load merges defaults, the optional YAML file named by CONFIG_FILE and
// the environment, in that order.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := os.Getenv(ConfigFileEnvVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	conf := &Config{}
	if err := k.Unmarshal("", conf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return conf, nil
}

var envMappings = map[string]string{
	"db_uri":                 "db_uri",
	"db_name":                "db_name",
	"base_url":               "base_url",
	"port":                   "port",
	"env":                    "env",
	"jwt_secret":             "jwt_secret",
	"request_timeout":        "request_timeout",
	"itinerary_service_url":  "itinerary_service_url",
	"itinerary_timeout":      "itinerary_timeout",
	"sendgrid_api_key":       "sendgrid_api_key",
	"mail_from":              "mail_from",
	"moderation_alert_email": "moderation_alert_email",

	"cloudinary_cloud_name": "cloudinary.cloud_name",
	"cloudinary_api_key":    "cloudinary.api_key",
	"cloudinary_api_secret": "cloudinary.api_secret",
	"cloudinary_folder":     "cloudinary.folder",

	"moderation_critical_threshold": "moderation.critical_threshold",
	"moderation_high_threshold":     "moderation.high_threshold",
	"moderation_moderate_threshold": "moderation.moderate_threshold",
	"moderation_digest_schedule":    "moderation.digest_schedule",

	"ranking_candidate_limit": "ranking.candidate_limit",
}

// envTransformFunc maps known variables onto config keys; the rest are ignored
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	if httpStatusCode >= http.StatusInternalServerError {
		zap.S().With(zap.Error(err)).Error(message)
	} else {
		zap.S().With(zap.Error(err)).Debug(message)
	}
	body := map[string]interface{}{
		"success": false,
		"error":   message,
	}
	if err != nil {
		body["details"] = err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	json.NewEncoder(w).Encode(body)
}
