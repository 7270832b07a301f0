// Package config 负责加载和验证 YAML 配置文件。
// 提供看板客户端所需的全部配置项：socket 连接、批量派发、跟踪交易对、输出与遥测。
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"trading-dashboard-client/internal/core/model"
)

// 环境变量覆盖项（main 会先通过 .env 加载）
const (
	EnvSocketURL = "DASHBOARD_SOCKET_URL"
	EnvAuthToken = "DASHBOARD_AUTH_TOKEN"
	EnvLogLevel  = "DASHBOARD_LOG_LEVEL"
)

// Config 应用配置根结构
type Config struct {
	// App 应用基础配置
	App AppConfig `yaml:"app"`
	// Socket socket 连接配置
	Socket SocketConfig `yaml:"socket"`
	// Auth 鉴权配置
	Auth AuthConfig `yaml:"auth"`
	// Bridge 事件缓冲与批量派发配置
	Bridge BridgeConfig `yaml:"bridge"`
	// Coins 启动时跟踪的交易对
	Coins []CoinConfig `yaml:"coins"`
	// Output 输出配置
	Output OutputConfig `yaml:"output"`
	// Telemetry 遥测配置
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	// Name 应用名称，用于日志标识
	Name string `yaml:"name"`
	// LogLevel 日志级别: debug, info, warn, error
	LogLevel string `yaml:"log_level"`
	// LogFile 日志文件路径，为空则只输出到 stderr
	LogFile string `yaml:"log_file"`
	// LogMaxSizeMB 单个日志文件大小上限（MB）
	LogMaxSizeMB int `yaml:"log_max_size_mb"`
	// LogMaxBackups 保留的历史日志文件数
	LogMaxBackups int `yaml:"log_max_backups"`
}

// SocketConfig socket 连接配置
type SocketConfig struct {
	// URL WebSocket 地址
	URL string `yaml:"url"`
	// HandshakeTimeoutMs 握手超时（毫秒）
	HandshakeTimeoutMs int `yaml:"handshake_timeout_ms"`
	// PingIntervalMs 心跳间隔（毫秒）
	PingIntervalMs int `yaml:"ping_interval_ms"`
	// PongTimeoutMs 心跳响应超时（毫秒）
	PongTimeoutMs int `yaml:"pong_timeout_ms"`
	// CommandRatePerSec 每秒最多发送的命令数
	CommandRatePerSec float64 `yaml:"command_rate_per_sec"`
	// CommandBurst 命令突发上限
	CommandBurst int `yaml:"command_burst"`
	// BackoffBaseMs 重连退避基础间隔（毫秒）
	BackoffBaseMs int `yaml:"backoff_base_ms"`
	// BackoffMaxMs 重连退避最大间隔（毫秒）
	BackoffMaxMs int `yaml:"backoff_max_ms"`
}

// AuthConfig 鉴权配置
type AuthConfig struct {
	// Token 访问令牌；非空即视为已授权
	Token string `yaml:"token"`
}

// BridgeConfig 事件缓冲与批量派发配置
type BridgeConfig struct {
	// FlushIntervalMs 批量派发间隔（毫秒）
	FlushIntervalMs int `yaml:"flush_interval_ms"`
	// InboxSize 事件收件箱容量
	InboxSize int `yaml:"inbox_size"`
	// StartLocation 启动时的导航位置，如 /coin/binance/BTC/USDT
	StartLocation string `yaml:"start_location"`
}

// CoinConfig 交易对配置
type CoinConfig struct {
	// Exchange 交易所
	Exchange string `yaml:"exchange"`
	// Base 基础币
	Base string `yaml:"base"`
	// Counter 计价币
	Counter string `yaml:"counter"`
}

// OutputConfig 输出配置
type OutputConfig struct {
	// Dir 输出目录
	Dir string `yaml:"dir"`
	// BatchesEnabled 是否记录派发的批次
	BatchesEnabled bool `yaml:"batches_enabled"`
	// SnapshotsEnabled 是否定期记录 store 快照
	SnapshotsEnabled bool `yaml:"snapshots_enabled"`
	// SnapshotIntervalMs 快照间隔（毫秒）
	SnapshotIntervalMs int `yaml:"snapshot_interval_ms"`
	// BufferSize 异步写入缓冲区大小
	BufferSize int `yaml:"buffer_size"`
}

// TelemetryConfig 遥测配置
type TelemetryConfig struct {
	// OTLPEndpoint OTLP/HTTP 指标导出地址，为空则不导出
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	// ServiceName 上报的服务名
	ServiceName string `yaml:"service_name"`
	// ExportIntervalMs 指标导出间隔（毫秒）
	ExportIntervalMs int `yaml:"export_interval_ms"`
}

// Load 从文件加载配置
// 参数 path: 配置文件路径
// 返回: 已应用环境变量覆盖与默认值、并通过验证的配置
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	cfg.applyEnv(os.Getenv)
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	return &cfg, nil
}

// applyEnv 使用环境变量覆盖配置
// 参数 getenv: 环境变量读取函数（便于测试注入）
func (c *Config) applyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvSocketURL)); v != "" {
		c.Socket.URL = v
	}
	if v := strings.TrimSpace(getenv(EnvAuthToken)); v != "" {
		c.Auth.Token = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		c.App.LogLevel = v
	}
}

// setDefaults 设置配置默认值
func (c *Config) setDefaults() {
	if c.App.Name == "" {
		c.App.Name = "trading-dashboard-client"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.LogMaxSizeMB == 0 {
		c.App.LogMaxSizeMB = 100
	}
	if c.App.LogMaxBackups == 0 {
		c.App.LogMaxBackups = 5
	}

	if c.Socket.HandshakeTimeoutMs == 0 {
		c.Socket.HandshakeTimeoutMs = 10000 // 10 秒
	}
	if c.Socket.PingIntervalMs == 0 {
		c.Socket.PingIntervalMs = 25000 // 25 秒
	}
	if c.Socket.PongTimeoutMs == 0 {
		c.Socket.PongTimeoutMs = 10000 // 10 秒
	}
	if c.Socket.CommandRatePerSec == 0 {
		c.Socket.CommandRatePerSec = 20
	}
	if c.Socket.CommandBurst == 0 {
		c.Socket.CommandBurst = 10
	}
	if c.Socket.BackoffBaseMs == 0 {
		c.Socket.BackoffBaseMs = 1000
	}
	if c.Socket.BackoffMaxMs == 0 {
		c.Socket.BackoffMaxMs = 30000
	}

	if c.Bridge.FlushIntervalMs == 0 {
		c.Bridge.FlushIntervalMs = 1000 // 1 秒
	}
	if c.Bridge.InboxSize == 0 {
		c.Bridge.InboxSize = 4096
	}

	if c.Output.Dir == "" {
		c.Output.Dir = "./output"
	}
	if c.Output.SnapshotIntervalMs == 0 {
		c.Output.SnapshotIntervalMs = 10000 // 10 秒
	}
	if c.Output.BufferSize == 0 {
		c.Output.BufferSize = 1000
	}

	if c.Telemetry.ServiceName == "" {
		c.Telemetry.ServiceName = c.App.Name
	}
	if c.Telemetry.ExportIntervalMs == 0 {
		c.Telemetry.ExportIntervalMs = 15000
	}
}

// Validate 验证配置合法性
// 返回: 汇总所有问题的描述性错误
func (c *Config) Validate() error {
	var errs []string

	if c.Socket.URL == "" {
		errs = append(errs, "socket.url: WebSocket 地址不能为空")
	} else if !strings.HasPrefix(c.Socket.URL, "ws://") && !strings.HasPrefix(c.Socket.URL, "wss://") {
		errs = append(errs, fmt.Sprintf("socket.url: 必须以 ws:// 或 wss:// 开头，当前值: %s", c.Socket.URL))
	}
	if c.Socket.PingIntervalMs < 0 {
		errs = append(errs, "socket.ping_interval_ms: 心跳间隔不能为负数")
	}
	if c.Socket.PongTimeoutMs < 0 {
		errs = append(errs, "socket.pong_timeout_ms: 心跳超时不能为负数")
	}
	if c.Socket.CommandRatePerSec < 0 {
		errs = append(errs, "socket.command_rate_per_sec: 命令速率不能为负数")
	}
	if c.Socket.BackoffBaseMs < 0 || c.Socket.BackoffMaxMs < c.Socket.BackoffBaseMs {
		errs = append(errs, "socket.backoff_*: 退避间隔必须满足 0 <= base <= max")
	}

	if c.Bridge.FlushIntervalMs <= 0 {
		errs = append(errs, "bridge.flush_interval_ms: 派发间隔必须为正数")
	}
	if c.Bridge.InboxSize <= 0 {
		errs = append(errs, "bridge.inbox_size: 收件箱容量必须为正数")
	}

	for i, coin := range c.Coins {
		if coin.Exchange == "" || coin.Base == "" || coin.Counter == "" {
			errs = append(errs, fmt.Sprintf("coins[%d]: exchange/base/counter 均不能为空", i))
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.App.LogLevel)] {
		errs = append(errs, fmt.Sprintf("app.log_level: 无效的日志级别 '%s'，有效值: debug, info, warn, error", c.App.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("配置验证错误:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// TrackedCoins 返回配置的跟踪交易对（已规范化、去重）
func (c *Config) TrackedCoins() []model.Coin {
	coins := make([]model.Coin, 0, len(c.Coins))
	seen := make(map[string]struct{}, len(c.Coins))
	for _, cc := range c.Coins {
		coin := model.NewCoin(cc.Exchange, cc.Base, cc.Counter)
		if _, ok := seen[coin.Key()]; ok {
			continue
		}
		seen[coin.Key()] = struct{}{}
		coins = append(coins, coin)
	}
	return coins
}

// Authorised 是否已配置访问令牌
func (c *Config) Authorised() bool {
	return c.Auth.Token != ""
}
