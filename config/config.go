package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config 存储所有配置信息
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	ServerPort  string `mapstructure:"SERVER_PORT"`

	// 数据库配置
	DBDriver   string `mapstructure:"DB_DRIVER"` // mysql, sqlite
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	SQLitePath string `mapstructure:"SQLITE_PATH"`

	// Redis配置，REDIS_HOST 为空时不启用描述缓存
	RedisHost              string `mapstructure:"REDIS_HOST"`
	RedisPort              string `mapstructure:"REDIS_PORT"`
	RedisPassword          string `mapstructure:"REDIS_PASSWORD"`
	RedisDB                int    `mapstructure:"REDIS_DB"`
	NarrativeCacheTTLHours int    `mapstructure:"NARRATIVE_CACHE_TTL_HOURS"`

	// LLM API配置（OpenAI 兼容接口）
	LLMAPIKey         string  `mapstructure:"LLM_API_KEY"`
	LLMAPIEndpoint    string  `mapstructure:"LLM_API_ENDPOINT"`
	LLMModel          string  `mapstructure:"LLM_MODEL"`
	LLMTimeoutSeconds int     `mapstructure:"LLM_TIMEOUT_SECONDS"`
	LLMRatePerSecond  float64 `mapstructure:"LLM_RATE_PER_SECOND"`

	// JWT配置
	JWTSecret       string `mapstructure:"JWT_SECRET"`
	JWTExpiresHours int    `mapstructure:"JWT_EXPIRES_HOURS"`

	// 情绪分类模型文件
	ModelPath string `mapstructure:"MODEL_PATH"`

	LogDir            string `mapstructure:"LOG_DIR"`
	InternalAuthToken string `mapstructure:"INTERNAL_AUTH_TOKEN"`
}

var defaults = map[string]interface{}{
	"ENVIRONMENT":               "development",
	"SERVER_PORT":               "5000",
	"DB_DRIVER":                 "mysql",
	"DB_HOST":                   "localhost",
	"DB_PORT":                   "3306",
	"DB_USER":                   "root",
	"DB_PASSWORD":               "",
	"DB_NAME":                   "moodmap",
	"SQLITE_PATH":               "moodmap.db",
	"REDIS_HOST":                "",
	"REDIS_PORT":                "6379",
	"REDIS_PASSWORD":            "",
	"REDIS_DB":                  0,
	"NARRATIVE_CACHE_TTL_HOURS": 24,
	"LLM_API_KEY":               "",
	"LLM_API_ENDPOINT":          "https://api.openai.com/v1",
	"LLM_MODEL":                 "gpt-4o",
	"LLM_TIMEOUT_SECONDS":       30,
	"LLM_RATE_PER_SECOND":       2.0,
	"JWT_SECRET":                "",
	"JWT_EXPIRES_HOURS":         24,
	"MODEL_PATH":                "artifacts/emotion_classifier.json",
	"LOG_DIR":                   "logs",
	"INTERNAL_AUTH_TOKEN":       "",
}

// LoadConfig 从环境变量或配置文件加载配置
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	// 设置默认值，同时让 AutomaticEnv 能识别这些键
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	err = v.ReadInConfig()
	if err != nil {
		// 允许配置文件不存在，此时会从环境变量中读取
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}
	err = config.Validate()
	return
}

// Validate 检查必填配置
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTExpiresHours <= 0 {
		return fmt.Errorf("JWT_EXPIRES_HOURS must be positive")
	}
	return nil
}

// GetDBConnString 返回数据库连接字符串
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// GetRedisConnString 返回Redis连接字符串
func (c *Config) GetRedisConnString() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutSeconds) * time.Second
}

func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiresHours) * time.Hour
}

func (c *Config) NarrativeCacheTTL() time.Duration {
	return time.Duration(c.NarrativeCacheTTLHours) * time.Hour
}
