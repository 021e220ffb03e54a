// Package config 负责加载和管理应用程序的配置。
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Admin         AdminConfig         `mapstructure:"admin"`
	Chat          ChatConfig          `mapstructure:"chat"`
	Log           LogConfig           `mapstructure:"log"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

// ServerConfig 存储服务器相关的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// DatabaseConfig 存储所有数据库连接的配置。
type DatabaseConfig struct {
	MySQL MySQLConfig `mapstructure:"mysql"`
	Redis RedisConfig `mapstructure:"redis"`
}

// MySQLConfig 存储 MySQL 数据库的配置。
type MySQLConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 存储 Redis 的配置。
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AdminConfig 存储管理员面板相关的配置。
// PasswordHash 是管理员口令的 bcrypt 哈希；会话凭证由 JWT 签名并写入 Redis。
type AdminConfig struct {
	PasswordHash     string `mapstructure:"password_hash"`
	JWTSecret        string `mapstructure:"jwt_secret"`
	SessionTTLMinute int    `mapstructure:"session_ttl_minute"`
	CookieName       string `mapstructure:"cookie_name"`
	CookieSecure     bool   `mapstructure:"cookie_secure"`
}

// ChatConfig 存储聊天室相关的配置。
type ChatConfig struct {
	// HistoryLimit 是 GET /chat/messages 返回的最大历史条数。
	HistoryLimit int `mapstructure:"history_limit"`
	// SendBuffer 是每个连接出站队列的长度，写满即视为慢客户端并断开。
	SendBuffer int `mapstructure:"send_buffer"`
	// WriteWaitSecond / PongWaitSecond 控制单次写超时与心跳超时。
	WriteWaitSecond int `mapstructure:"write_wait_second"`
	PongWaitSecond  int `mapstructure:"pong_wait_second"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// KafkaConfig 存储 Kafka 相关的配置。Brokers 为空时消息归档功能关闭。
type KafkaConfig struct {
	Brokers string `mapstructure:"brokers"`
	Topic   string `mapstructure:"topic"`
}

// ElasticsearchConfig 存储 Elasticsearch 相关的配置。
type ElasticsearchConfig struct {
	Addresses string `mapstructure:"addresses"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	IndexName string `mapstructure:"index_name"`
}

// Init 初始化配置加载，从指定的路径读取 YAML 文件并解析到 Conf 变量中。
func Init(configPath string) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		panic(fmt.Errorf("读取配置文件失败: %w", err))
	}

	if err := viper.Unmarshal(&Conf); err != nil {
		panic(fmt.Errorf("无法将配置解析到结构体中: %w", err))
	}
}
