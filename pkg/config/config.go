package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultAPIBaseURL    = "https://localhost:44352"
	DefaultPositionsPath = "/v1/equity-positions/details"
	DefaultExecutePath   = "/v1/equity-positions/execute"
	DefaultListen        = ":44352"
)

// APIConfig 后端 API 配置
type APIConfig struct {
	BaseURL            string
	PositionsPath      string
	ExecutePath        string
	Timeout            time.Duration
	RetryCount         int  // 仅 GET 的传输层重试次数（默认0，下单不重试）
	InsecureSkipVerify bool // 本地 https 开发证书
}

// UIConfig 视图配置
type UIConfig struct {
	RedirectDelay     time.Duration // 下单成功后返回持仓页的延迟
	PositionsFallback string        // mock | retry
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string
	File       string
	MaxSize    int
	MaxBackups int
	MaxAge     int
	Compress   bool
}

// ServerConfig 参考后端配置
type ServerConfig struct {
	Listen    string
	Store     string // sqlite | badger
	DBPath    string // sqlite 文件路径
	BadgerDir string // badger 目录
	Seed      bool   // 空库时写入示例持仓

	ExecuteRateLimit int // 下单接口每秒请求上限，0 表示不限制
}

// Config 应用配置
type Config struct {
	API    APIConfig
	UI     UIConfig
	Log    LogConfig
	Server ServerConfig
}

var configFilePath string

// SetConfigPath 设置配置文件路径
func SetConfigPath(path string) {
	configFilePath = path
}

// GetConfigPath 获取配置文件路径
func GetConfigPath() string {
	return configFilePath
}

// ConfigFile 配置文件结构（用于 YAML/JSON 解析）
type ConfigFile struct {
	API struct {
		BaseURL            string `yaml:"base_url" json:"base_url"`
		PositionsPath      string `yaml:"positions_path" json:"positions_path"`
		ExecutePath        string `yaml:"execute_path" json:"execute_path"`
		Timeout            string `yaml:"timeout" json:"timeout"`
		RetryCount         int    `yaml:"retry_count" json:"retry_count"`
		InsecureSkipVerify *bool  `yaml:"insecure_skip_verify" json:"insecure_skip_verify"`
	} `yaml:"api" json:"api"`
	UI struct {
		RedirectDelay     string `yaml:"redirect_delay" json:"redirect_delay"`
		PositionsFallback string `yaml:"positions_fallback" json:"positions_fallback"`
	} `yaml:"ui" json:"ui"`
	Log struct {
		Level      string `yaml:"level" json:"level"`
		File       string `yaml:"file" json:"file"`
		MaxSize    int    `yaml:"max_size" json:"max_size"`
		MaxBackups int    `yaml:"max_backups" json:"max_backups"`
		MaxAge     int    `yaml:"max_age" json:"max_age"`
		Compress   *bool  `yaml:"compress" json:"compress"`
	} `yaml:"log" json:"log"`
	Server struct {
		Listen    string `yaml:"listen" json:"listen"`
		Store     string `yaml:"store" json:"store"`
		DBPath    string `yaml:"db_path" json:"db_path"`
		BadgerDir string `yaml:"badger_dir" json:"badger_dir"`
		Seed      *bool  `yaml:"seed" json:"seed"`

		ExecuteRateLimit *int `yaml:"execute_rate_limit" json:"execute_rate_limit"`
	} `yaml:"server" json:"server"`
}

// Load 加载配置
func Load() (*Config, error) {
	return LoadFromFile(configFilePath)
}

// LoadFromFile 从指定文件加载配置（优先级：环境变量 > 配置文件 > 默认值）
func LoadFromFile(filePath string) (*Config, error) {
	cf := &ConfigFile{}
	if filePath != "" {
		var err error
		cf, err = loadConfigFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败 %s: %w", filePath, err)
		}
	}

	apiTimeout, err := parseDuration("EQUITYDESK_API_TIMEOUT", cf.API.Timeout, 10*time.Second)
	if err != nil {
		return nil, err
	}
	redirectDelay, err := parseDuration("EQUITYDESK_REDIRECT_DELAY", cf.UI.RedirectDelay, 2*time.Second)
	if err != nil {
		return nil, err
	}

	config := &Config{
		API: APIConfig{
			BaseURL:            getEnv("EQUITYDESK_API_BASE_URL", orDefault(cf.API.BaseURL, DefaultAPIBaseURL)),
			PositionsPath:      orDefault(cf.API.PositionsPath, DefaultPositionsPath),
			ExecutePath:        orDefault(cf.API.ExecutePath, DefaultExecutePath),
			Timeout:            apiTimeout,
			RetryCount:         parseIntEnv("EQUITYDESK_API_RETRY_COUNT", cf.API.RetryCount),
			InsecureSkipVerify: parseBoolEnv("EQUITYDESK_API_INSECURE", boolOr(cf.API.InsecureSkipVerify, true)),
		},
		UI: UIConfig{
			RedirectDelay:     redirectDelay,
			PositionsFallback: strings.ToLower(getEnv("EQUITYDESK_POSITIONS_FALLBACK", orDefault(cf.UI.PositionsFallback, "mock"))),
		},
		Log: LogConfig{
			Level:      getEnv("LOG_LEVEL", orDefault(cf.Log.Level, "info")),
			File:       getEnv("LOG_FILE", orDefault(cf.Log.File, "logs/equitydesk.log")),
			MaxSize:    intOr(cf.Log.MaxSize, 100),
			MaxBackups: intOr(cf.Log.MaxBackups, 3),
			MaxAge:     intOr(cf.Log.MaxAge, 7),
			Compress:   boolOr(cf.Log.Compress, true),
		},
		Server: ServerConfig{
			Listen:    getEnv("EQUITYDESK_LISTEN", orDefault(cf.Server.Listen, DefaultListen)),
			Store:     strings.ToLower(getEnv("EQUITYDESK_STORE", orDefault(cf.Server.Store, "sqlite"))),
			DBPath:    getEnv("EQUITYDESK_DB_PATH", orDefault(cf.Server.DBPath, "data/equitydesk.db")),
			BadgerDir: getEnv("EQUITYDESK_BADGER_DIR", orDefault(cf.Server.BadgerDir, "data/badger")),
			Seed:      parseBoolEnv("EQUITYDESK_SEED", boolOr(cf.Server.Seed, true)),

			ExecuteRateLimit: parseIntEnv("EQUITYDESK_EXECUTE_RATE_LIMIT", intPtrOr(cf.Server.ExecuteRateLimit, 20)),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	configFilePath = filePath
	return config, nil
}

// loadConfigFile 加载配置文件（支持 YAML 和 JSON）
func loadConfigFile(filePath string) (*ConfigFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var configFile ConfigFile
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &configFile); err != nil {
			return nil, fmt.Errorf("解析 YAML 配置文件失败: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &configFile); err != nil {
			return nil, fmt.Errorf("解析 JSON 配置文件失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的配置文件格式: %s (支持 .yaml, .yml, .json)", ext)
	}

	return &configFile, nil
}

// Validate 验证配置
func (c *Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return fmt.Errorf("EQUITYDESK_API_BASE_URL 未配置")
	}
	if !strings.HasPrefix(c.API.PositionsPath, "/") || !strings.HasPrefix(c.API.ExecutePath, "/") {
		return fmt.Errorf("api 路径必须以 / 开头")
	}
	if c.API.RetryCount < 0 {
		return fmt.Errorf("EQUITYDESK_API_RETRY_COUNT 不能为负数")
	}
	if c.Server.ExecuteRateLimit < 0 {
		return fmt.Errorf("EQUITYDESK_EXECUTE_RATE_LIMIT 不能为负数")
	}
	if c.UI.RedirectDelay < 0 {
		return fmt.Errorf("EQUITYDESK_REDIRECT_DELAY 不能为负数")
	}
	switch c.UI.PositionsFallback {
	case "mock", "retry":
	default:
		return fmt.Errorf("未知的持仓回退策略: %s (支持 mock, retry)", c.UI.PositionsFallback)
	}
	switch c.Server.Store {
	case "sqlite", "badger":
	default:
		return fmt.Errorf("未知的存储类型: %s (支持 sqlite, badger)", c.Server.Store)
	}
	return nil
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv 解析整数环境变量
func parseIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// parseBoolEnv 解析布尔环境变量
func parseBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// parseDuration 环境变量 > 配置文件 > 默认值
func parseDuration(envKey, fileValue string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(envKey, fileValue)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s 格式错误 %q: %w", envKey, raw, err)
	}
	return d, nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func intOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func intPtrOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
