package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rodamarket/backend/internal/logger"
	"github.com/rodamarket/backend/internal/utils"
)

type SchedulerConfig struct {
	// MileageCheckEvery and RuleCheckEvery are interval specs; the daily
	// tasks run at fixed local-time boundaries instead.
	MileageCheckEvery  time.Duration `yaml:"mileage_check_every"`
	RuleCheckEvery     time.Duration `yaml:"rule_check_every"`
	DocumentCheckAt    string        `yaml:"document_check_at"`
	RetentionPurgeAt   string        `yaml:"retention_purge_at"`
	DedupWindow        time.Duration `yaml:"dedup_window"`
	RetentionAge       time.Duration `yaml:"retention_age"`
	ExpiryNoticeWindow time.Duration `yaml:"expiry_notice_window"`
}

type Config struct {
	Port            string          `yaml:"port"`
	JWTSecretKey    string          `yaml:"jwt_secret_key"`
	AccessTokenTTL  time.Duration   `yaml:"access_token_ttl"`
	RefreshTokenTTL time.Duration   `yaml:"refresh_token_ttl"`
	RedisAddr       string          `yaml:"redis_addr"`
	Scheduler       SchedulerConfig `yaml:"scheduler"`
}

func defaults() Config {
	return Config{
		Port:            "8080",
		JWTSecretKey:    "defaultsecret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		RedisAddr:       "",
		Scheduler: SchedulerConfig{
			MileageCheckEvery:  6 * time.Hour,
			RuleCheckEvery:     12 * time.Hour,
			DocumentCheckAt:    "08:00",
			RetentionPurgeAt:   "02:00",
			DedupWindow:        7 * 24 * time.Hour,
			RetentionAge:       10 * 24 * time.Hour,
			ExpiryNoticeWindow: 3 * 24 * time.Hour,
		},
	}
}

// Load reads config.yaml (path overridable via RM_CONFIG_PATH) and then
// applies environment overrides on top, so containers can run without a file.
func Load(log *logger.Logger) (Config, error) {
	cfg := defaults()

	cfgPath := strings.TrimSpace(os.Getenv("RM_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config file: %w", err)
		}
		if log != nil {
			log.Info("Loaded config file", "path", cfgPath)
		}
	}

	cfg.Port = utils.GetEnv("PORT", cfg.Port, log)
	cfg.JWTSecretKey = utils.GetEnv("JWT_SECRET_KEY", cfg.JWTSecretKey, log)
	cfg.RedisAddr = utils.GetEnv("REDIS_ADDR", cfg.RedisAddr, log)
	if v := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 0, log); v > 0 {
		cfg.AccessTokenTTL = time.Duration(v) * time.Second
	}
	if v := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 0, log); v > 0 {
		cfg.RefreshTokenTTL = time.Duration(v) * time.Second
	}
	return cfg, nil
}
