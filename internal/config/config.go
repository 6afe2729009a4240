package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"servicegov/internal/notify"
	"servicegov/internal/servicenow"
)

// Defaults mirror the desk's production setup: five L1 queues, the two close
// codes that count as first-contact resolutions, Swedish business hours.
var (
	defaultL1Groups = []string{
		"Service Desk L1 Sweden",
		"Service Desk L1 Finland",
		"Service Desk L1 Denmark",
		"Service Desk L1 Norge",
		"Service Desk L1 English",
	}
	defaultResolutionCodes = []string{
		"Solved (Permanently)",
		"Solved Remotely (Permanently)",
	}
)

const defaultTimezone = "Europe/Stockholm"

// AppConfig holds the complete application configuration.
type AppConfig struct {
	ServiceNow servicenow.Config
	SMTP       notify.SMTPConfig

	L1Groups        []string
	ResolutionCodes []string

	BusinessLocation *time.Location
	SigmaThreshold   float64
	AlertCooldown    time.Duration

	DataPath     string
	LogDir       string
	AlertLogPath string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// Binary directory first (service deployments), then working directory.
	exeDir := ""
	if exePath, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file in working directory, relying on environment variables")
	}

	dataPath := getEnv("DATA_PATH", "")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}
	logDir := filepath.Join(dataPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	tzName := getEnv("BUSINESS_TIMEZONE", defaultTimezone)
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		log.Warn().Err(err).Str("timezone", tzName).Msg("Unknown timezone, falling back to UTC")
		loc = time.UTC
	}

	delaySecs, _ := strconv.Atoi(getEnv("SNOW_REQUEST_DELAY_SECONDS", "0"))
	cooldownHours, _ := strconv.Atoi(getEnv("ALERT_COOLDOWN_HOURS", "4"))
	sigma, err := strconv.ParseFloat(getEnv("SIGMA_THRESHOLD", "2"), 64)
	if err != nil || sigma <= 0 {
		sigma = 2
	}
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	pageSize, _ := strconv.Atoi(getEnv("SNOW_PAGE_SIZE", "1000"))

	cfg := &AppConfig{
		ServiceNow: servicenow.Config{
			InstanceURL:  getEnv("SNOW_URL", ""),
			Username:     getEnv("SNOW_USERNAME", ""),
			Password:     getEnv("SNOW_PASSWORD", ""),
			Table:        getEnv("SNOW_TABLE", "incident"),
			PageSize:     pageSize,
			RequestDelay: time.Duration(delaySecs) * time.Second,
		},
		SMTP: notify.SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     smtpPort,
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", ""),
			To:       getEnvList("ALERT_RECIPIENTS", nil),
		},
		L1Groups:         getEnvList("L1_GROUPS", defaultL1Groups),
		ResolutionCodes:  getEnvList("FCR_RESOLUTION_CODES", defaultResolutionCodes),
		BusinessLocation: loc,
		SigmaThreshold:   sigma,
		AlertCooldown:    time.Duration(cooldownHours) * time.Hour,
		DataPath:         dataPath,
		LogDir:           logDir,
		AlertLogPath:     filepath.Join(dataPath, "alerts.jsonl"),
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvList reads a comma-separated list, trimming whitespace around entries.
func getEnvList(key string, fallback []string) []string {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
