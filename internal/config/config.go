// Package config 负责加载和管理应用程序的配置。
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// 全局配置变量，存储从配置文件和环境变量加载的所有设置。
var Conf Config

// Config 是整个应用程序的配置结构体，与 config.yaml 文件结构对应。
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Keys     KeysConfig     `mapstructure:"keys"`
	Download DownloadConfig `mapstructure:"download"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Output   OutputConfig   `mapstructure:"output"`
}

// APIConfig 存储后端服务地址。
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// KeysConfig 存储比较分析所需的 LLM API 密钥（可选）。
type KeysConfig struct {
	Gemini string `mapstructure:"gemini"`
	OpenAI string `mapstructure:"openai"`
}

// DownloadConfig 决定下载的文档保存到哪里。
type DownloadConfig struct {
	// Sink 取值 "file" 或 "minio"
	Sink  string      `mapstructure:"sink"`
	Dir   string      `mapstructure:"dir"`
	MinIO MinIOConfig `mapstructure:"minio"`
}

// MinIOConfig 存储 MinIO 对象存储的配置。
type MinIOConfig struct {
	Endpoint         string `mapstructure:"endpoint"`
	AccessKeyID      string `mapstructure:"access_key_id"`
	SecretAccessKey  string `mapstructure:"secret_access_key"`
	UseSSL           bool   `mapstructure:"use_ssl"`
	BucketName       string `mapstructure:"bucket_name"`
	LinkExpiryMinute int    `mapstructure:"link_expiry_minute"`
}

// ServerConfig 存储本地 Web 界面的配置。
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// LogConfig 存储日志相关的配置。
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// OutputConfig 控制终端输出。
type OutputConfig struct {
	Colors bool `mapstructure:"colors"`
}

var defaults = map[string]interface{}{
	"api.base_url":                      "http://localhost:5000",
	"keys.gemini":                       "",
	"keys.openai":                       "",
	"download.sink":                     "file",
	"download.dir":                      ".",
	"download.minio.endpoint":           "",
	"download.minio.access_key_id":      "",
	"download.minio.secret_access_key":  "",
	"download.minio.use_ssl":            false,
	"download.minio.bucket_name":        "ordinance-documents",
	"download.minio.link_expiry_minute": 60,
	"server.port":                       "8080",
	"server.mode":                       "release",
	"log.level":                         "info",
	"log.format":                        "console",
	"log.output_path":                   "",
	"output.colors":                     true,
}

// Load 读取配置：默认值 < 配置文件 < ORDINANCE_ 前缀的环境变量。
// configPath 为空且默认文件不存在时只使用默认值与环境变量。
func Load(configPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("ORDINANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home + "/.ordinance")
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("读取配置文件失败: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("无法将配置解析到结构体中: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init 加载配置并写入全局 Conf。
func Init(configPath string) error {
	cfg, err := Load(configPath)
	if err != nil {
		return err
	}
	Conf = *cfg
	return nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url 不能为空")
	}
	switch c.Download.Sink {
	case "file", "minio":
	default:
		return fmt.Errorf("不支持的 download.sink: %q（可选 file 或 minio）", c.Download.Sink)
	}
	if c.Download.Sink == "minio" && (c.Download.MinIO.Endpoint == "" || c.Download.MinIO.BucketName == "") {
		return errors.New("download.sink=minio 时必须配置 endpoint 和 bucket_name")
	}
	return nil
}
