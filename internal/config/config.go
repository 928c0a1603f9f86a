package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 服务端配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Game   GameConfig   `yaml:"game"`
}

// ServerConfig WebSocket 服务器配置
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// RedisConfig Redis 配置。Addr 留空表示不写房间镜像。
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// GameConfig 游戏配置
type GameConfig struct {
	RoomTTL       int `yaml:"room_ttl"`       // 房间最长存活（分钟）
	SweepInterval int `yaml:"sweep_interval"` // 过期房间清理间隔（秒）
}

// RoomTTLDuration 返回房间最长存活时长
func (c *GameConfig) RoomTTLDuration() time.Duration {
	return time.Duration(c.RoomTTL) * time.Minute
}

// SweepIntervalDuration 返回清理间隔时长
func (c *GameConfig) SweepIntervalDuration() time.Duration {
	return time.Duration(c.SweepInterval) * time.Second
}

// Load 加载配置文件
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// 设置默认值
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 3001
	}
	if cfg.Game.RoomTTL == 0 {
		cfg.Game.RoomTTL = 60
	}
	if cfg.Game.SweepInterval == 0 {
		cfg.Game.SweepInterval = 60
	}

	return &cfg, nil
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 3001,
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Game: GameConfig{
			RoomTTL:       60,
			SweepInterval: 60,
		},
	}
}
