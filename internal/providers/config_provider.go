package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"processingd/internal/structures"
	"strings"
	"time"
)

const (
	defaultRefreshInterval = 2 * time.Minute
	defaultHistoryLimit    = 100
	defaultTrackerTimeout  = 10 * time.Second
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.SetDefault("processing.refreshInterval", defaultRefreshInterval)
	viper.SetDefault("processing.historyLimit", defaultHistoryLimit)
	viper.SetDefault("tracker.timeout", defaultTrackerTimeout)
	viper.SetDefault("socket.initialBackoff", 500*time.Millisecond)
	viper.SetDefault("socket.maxBackoff", 30*time.Second)

	viper.BindEnv("logger.level", "PROCD_LOG_LEVEL")
	viper.BindEnv("tracker.baseUrl", "PROCD_TRACKER_URL")
	viper.BindEnv("tracker.socketUrl", "PROCD_SOCKET_URL")
	viper.BindEnv("tracker.eventId", "PROCD_EVENT_ID")
	viper.BindEnv("tracker.apiToken", "PROCD_API_TOKEN")
	viper.BindEnv("persistence.saveInterval", "PROCD_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "PROCD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "PROCD_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "ProcessingDaemon"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
