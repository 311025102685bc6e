package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

const (
	defaultServerAddress    = "localhost:3333"
	defaultEnv              = EnvLocal
	defaultConfigDir        = ".medtracker"
	defaultLocale           = "en"
	defaultDeepLinkScheme   = "myapp"
	defaultPlatform         = "android"
	defaultAgentAddress     = "127.0.0.1:8787"
	defaultSyncInterval     = 300
	defaultStepTimeout      = 10 * time.Second
	defaultDispatchInterval = 15 * time.Second

	configFileName = "config.yaml"
	tokenFileName  = "token"
	dataFileName   = "medtracker.db"
	deviceFileName = "device_id"
)

type Config struct {
	Env                 string        `mapstructure:"app_env"`
	ServerAddress       string        `mapstructure:"server_address"`
	EnableTLS           bool          `mapstructure:"enable_tls"`
	LogLevel            string        `mapstructure:"log_level"`
	ConfigDir           string        `mapstructure:"config_dir"`
	TokenPath           string        `mapstructure:"token_path"`
	DataPath            string        `mapstructure:"data_path"`
	DeviceIDPath        string        `mapstructure:"device_id_path"`
	Locale              string        `mapstructure:"locale"`
	SyncInterval        int           `mapstructure:"sync_interval_seconds"`
	StepTimeout         time.Duration `mapstructure:"reminder_step_timeout"`
	DeepLinkScheme      string        `mapstructure:"deep_link_scheme"`
	DevicePlatform      string        `mapstructure:"device_platform"`
	DevicePhysical      bool          `mapstructure:"device_physical"`
	StrictChronological bool          `mapstructure:"strict_chronological_order"`
	AgentAddress        string        `mapstructure:"agent_address"`
	DispatchInterval    time.Duration `mapstructure:"dispatch_interval"`
}

// MustLoad загружает конфигурацию клиента
func MustLoad(configFile string) *Config {
	// Определяем путь к .env файлу (относительно места запуска)
	envPath := ".env"
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		// Пробуем найти .env в родительской директории
		envPath = "../.env"
	}

	// Загружаем .env файл если существует
	if _, err := os.Stat(envPath); err == nil {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Ошибка загрузки .env файла: %v\n", err)
		}
	}

	cfg, err := Load(viper.New(), configFile)
	if err != nil {
		panic(fmt.Sprintf("Ошибка конфигурации: %v", err))
	}

	// Создаем директории если их нет
	if err := os.MkdirAll(cfg.ConfigDir, 0o700); err != nil {
		fmt.Printf("Ошибка создания директории конфигурации: %v\n", err)
	}

	return cfg
}

// Load читает настройки из окружения и YAML-файла. Пустой configFile
// означает config.yaml в каталоге конфигурации, если он есть.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	v.AutomaticEnv()

	// Устанавливаем значения по умолчанию
	v.SetDefault("app_env", defaultEnv)
	v.SetDefault("server_address", defaultServerAddress)
	v.SetDefault("enable_tls", false)
	v.SetDefault("log_level", "")
	v.SetDefault("config_dir", defaultConfigDir)
	v.SetDefault("locale", defaultLocale)
	v.SetDefault("sync_interval_seconds", defaultSyncInterval)
	v.SetDefault("reminder_step_timeout", defaultStepTimeout)
	v.SetDefault("deep_link_scheme", defaultDeepLinkScheme)
	v.SetDefault("device_platform", defaultPlatform)
	v.SetDefault("device_physical", true)
	v.SetDefault("strict_chronological_order", false)
	v.SetDefault("agent_address", defaultAgentAddress)
	v.SetDefault("dispatch_interval", defaultDispatchInterval)

	// Получаем домашнюю директорию пользователя
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	// Вычисляем пути для хранения данных
	configDir := v.GetString("config_dir")
	if configDir == defaultConfigDir {
		configDir = filepath.Join(homeDir, configDir)
	}

	if configFile == "" {
		candidate := filepath.Join(configDir, configFileName)
		if _, err := os.Stat(candidate); err == nil {
			configFile = candidate
		}
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	config := &Config{
		Env:                 v.GetString("app_env"),
		ServerAddress:       v.GetString("server_address"),
		EnableTLS:           v.GetBool("enable_tls"),
		LogLevel:            v.GetString("log_level"),
		ConfigDir:           configDir,
		TokenPath:           filepath.Join(configDir, tokenFileName),
		DataPath:            filepath.Join(configDir, dataFileName),
		DeviceIDPath:        filepath.Join(configDir, deviceFileName),
		Locale:              v.GetString("locale"),
		SyncInterval:        v.GetInt("sync_interval_seconds"),
		StepTimeout:         v.GetDuration("reminder_step_timeout"),
		DeepLinkScheme:      v.GetString("deep_link_scheme"),
		DevicePlatform:      v.GetString("device_platform"),
		DevicePhysical:      v.GetBool("device_physical"),
		StrictChronological: v.GetBool("strict_chronological_order"),
		AgentAddress:        v.GetString("agent_address"),
		DispatchInterval:    v.GetDuration("dispatch_interval"),
	}

	// Валидация конфигурации
	if err := config.validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (c *Config) validate() error {
	if c.ServerAddress == "" {
		return errors.New("server_address не может быть пустым")
	}
	if c.SyncInterval <= 0 {
		return errors.New("sync_interval_seconds должен быть больше нуля")
	}
	if c.StepTimeout <= 0 {
		return errors.New("reminder_step_timeout должен быть больше нуля")
	}
	if c.DispatchInterval <= 0 {
		return errors.New("dispatch_interval должен быть больше нуля")
	}
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("неизвестное окружение app_env: %q", c.Env)
	}
	return nil
}

// SyncPeriod возвращает интервал периодической синхронизации напоминаний.
func (c *Config) SyncPeriod() time.Duration {
	return time.Duration(c.SyncInterval) * time.Second
}

// BaseURL возвращает адрес backend с протоколом.
func (c *Config) BaseURL() string {
	scheme := "http://"
	if c.EnableTLS {
		scheme = "https://"
	}
	return scheme + c.ServerAddress
}

// IsProd проверяет, prod ли окружение
func (c *Config) IsProd() bool {
	return c.Env == EnvProd
}

// IsDev проверяет, dev ли окружение
func (c *Config) IsDev() bool {
	return c.Env == EnvDev
}

// IsLocal проверяет, local ли окружение
func (c *Config) IsLocal() bool {
	return c.Env == EnvLocal || c.Env == ""
}
