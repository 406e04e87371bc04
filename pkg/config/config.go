package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Storage
	DataDir     string
	DevicesFile string
	UsersFile   string

	// Logging
	LogLevel  string
	LogFormat string
	LogFile   string

	// MQTT Configuration
	MQTTEnabled          bool
	MQTTBroker           string
	MQTTClientID         string
	MQTTUsername         string
	MQTTPassword         string
	MQTTTopicAudio       string
	MQTTTopicDeviceState string

	// Speech recognition
	SpeechEnabled         bool
	STTURL                string
	STTAPIKey             string
	STTLanguage           string
	SpeechEnergyThreshold float64
	SpeechPauseThreshold  time.Duration
	SpeechPhraseLimit     time.Duration
	SpeechPollInterval    time.Duration

	// ClickHouse Configuration
	ClickHouseEnabled bool
	ClickHouseAddr    string
	ClickHouseDB      string
	ClickHouseUser    string
	ClickHousePass    string

	// Redis Streams
	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisStream   string

	// Warnings collected while parsing; logged once a logger exists
	Warnings []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()
	return fromEnv()
}

// LoadFile is Load with an explicit env file. A missing file is an error.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return fromEnv(), nil
}

func fromEnv() *Config {
	c := &Config{}

	c.DataDir = getEnv("PANEL_DATA_DIR", ".")
	c.DevicesFile = getEnv("PANEL_DEVICES_FILE", "devices.json")
	c.UsersFile = getEnv("PANEL_USERS_FILE", "users.json")

	c.LogLevel = getEnv("LOG_LEVEL", "info")
	c.LogFormat = getEnv("LOG_FORMAT", "console")
	c.LogFile = getEnv("LOG_FILE", "panel.log")

	c.MQTTEnabled = c.getEnvBool("MQTT_ENABLED", false)
	c.MQTTBroker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	c.MQTTClientID = getEnv("MQTT_CLIENT_ID", "smarthome-panel")
	c.MQTTUsername = getEnv("MQTT_USERNAME", "")
	c.MQTTPassword = getEnv("MQTT_PASSWORD", "")
	c.MQTTTopicAudio = getEnv("MQTT_TOPIC_AUDIO", "sensor/+/audio")
	c.MQTTTopicDeviceState = getEnv("MQTT_TOPIC_DEVICE_STATE", "home/device/{device_id}/state")

	c.SpeechEnabled = c.getEnvBool("SPEECH_ENABLED", true)
	c.STTURL = getEnv("STT_URL", "http://localhost:8090")
	c.STTAPIKey = getEnv("STT_API_KEY", "")
	c.STTLanguage = getEnv("STT_LANGUAGE", "ru-RU")
	c.SpeechEnergyThreshold = c.getEnvFloat("SPEECH_ENERGY_THRESHOLD", 300)
	c.SpeechPauseThreshold = c.getEnvSeconds("SPEECH_PAUSE_THRESHOLD", 0.8)
	c.SpeechPhraseLimit = c.getEnvSeconds("SPEECH_PHRASE_TIME_LIMIT", 5)
	c.SpeechPollInterval = c.getEnvDuration("SPEECH_POLL_INTERVAL", 100*time.Millisecond)

	c.ClickHouseEnabled = c.getEnvBool("CLICKHOUSE_ENABLED", false)
	c.ClickHouseAddr = getEnv("CLICKHOUSE_ADDR", "localhost:9000")
	c.ClickHouseDB = getEnv("CLICKHOUSE_DB", "smarthome")
	c.ClickHouseUser = getEnv("CLICKHOUSE_USER", "default")
	c.ClickHousePass = getEnv("CLICKHOUSE_PASS", "")

	c.RedisEnabled = c.getEnvBool("REDIS_ENABLED", false)
	c.RedisAddr = getEnv("REDIS_ADDR", "localhost:6379")
	c.RedisPassword = getEnv("REDIS_PASSWORD", "")
	c.RedisStream = getEnv("REDIS_STREAM", "smarthome:events")

	return c
}

// DevicesPath returns the location of the device store
func (c *Config) DevicesPath() string {
	return filepath.Join(c.DataDir, c.DevicesFile)
}

// UsersPath returns the location of the account store
func (c *Config) UsersPath() string {
	return filepath.Join(c.DataDir, c.UsersFile)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func (c *Config) getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		c.warn("failed to parse %s as float, using default: %v", key, err)
		return defaultValue
	}
	return floatValue
}

func (c *Config) getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		c.warn("failed to parse %s as bool, using default: %v", key, err)
		return defaultValue
	}
	return boolValue
}

func (c *Config) getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		c.warn("failed to parse %s as duration, using default: %v", key, err)
		return defaultValue
	}
	return d
}

// getEnvSeconds reads a fractional number of seconds ("0.8")
func (c *Config) getEnvSeconds(key string, defaultSeconds float64) time.Duration {
	seconds := c.getEnvFloat(key, defaultSeconds)
	return time.Duration(seconds * float64(time.Second))
}

func (c *Config) warn(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}
