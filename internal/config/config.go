package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config 喷漆车间终端配置
type Config struct {
	API struct {
		// 后端 REST 服务地址，如 https://paint.example.com/api
		BaseURL string
		Timeout int // 秒
		Retries int // 仅幂等 GET 重试
	}

	Redis struct {
		// Addr 为空时终端退化为内存 KV（单机模式，声明不跨工位共享）
		Addr     string
		Password string
		DB       int
	}

	Lock struct {
		// 编辑声明租约时长（秒），到期自动失效，避免无限期的陈旧锁
		LeaseTTL int
	}

	Inspection struct {
		// 检验进度保留时长（秒），覆盖换班/重启场景
		ProgressTTL int
	}

	OpsLog struct {
		Enabled  bool
		Interval int // 轮询间隔（秒）
	}

	Log struct {
		Level  string
		Format string
	}
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.API.BaseURL = getEnv("API_BASE_URL", "")
	cfg.API.Timeout = getEnvInt("API_TIMEOUT", 30)
	cfg.API.Retries = getEnvInt("API_RETRIES", 2)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", "")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvInt("REDIS_DB", 0)

	cfg.Lock.LeaseTTL = getEnvInt("LOCK_LEASE_TTL", 7200)
	cfg.Inspection.ProgressTTL = getEnvInt("PROGRESS_TTL", 86400)

	cfg.OpsLog.Enabled = getEnvBool("OPSLOG_ENABLED", false)
	cfg.OpsLog.Interval = getEnvInt("OPSLOG_INTERVAL", 15)

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "console")

	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("API_BASE_URL is required")
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}
