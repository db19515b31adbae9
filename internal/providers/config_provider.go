package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Andii-12/Deltasoft-backend/internal/structures"
	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "DELTASOFT_LOG_LEVEL")
	viper.BindEnv("storage.path", "DELTASOFT_STORAGE_PATH")
	viper.BindEnv("tracking.sessionTimeout", "DELTASOFT_SESSION_TIMEOUT")
	viper.BindEnv("snapshot.saveInterval", "DELTASOFT_SNAPSHOT_INTERVAL")
	viper.BindEnv("cache.enabled", "DELTASOFT_CACHE_ENABLED")
	viper.BindEnv("cache.size", "DELTASOFT_CACHE_SIZE")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	if conf.Tracking.SessionTimeout == 0 {
		conf.Tracking.SessionTimeout = 30 * time.Minute
	}
	if conf.Tracking.CookieMaxAge == 0 {
		conf.Tracking.CookieMaxAge = 24 * time.Hour
	}
	if conf.Tracking.FlushTimeout == 0 {
		conf.Tracking.FlushTimeout = 5 * time.Second
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "DeltasoftAnalytics"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
