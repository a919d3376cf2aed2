package configuration

import (
	"fmt"
	"os"
	"strconv"

	"sentitube/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	YouTube     YouTube     `json:"youtube"`
	Sentiment   Sentiment   `json:"sentiment"`
	Analyzer    Analyzer    `json:"analyzer"`
	Pubsub      Pubsub      `json:"pubsub"`
	ServiceBus  ServiceBus  `json:"serviceBus"`
}

type App struct {
	Port      int    `json:"port"`
	SecretKey string `json:"secretKey"`
}

type Database struct {
	Vendor string `json:"vendor"` // psql (default) or mssql
	Psql   Db     `json:"psql"`
	Mssql  Db     `json:"mssql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type YouTube struct {
	APIKey       string `json:"apiKey"`
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	RedirectURI  string `json:"redirectURI"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Sentiment points at the external inference service.
type Sentiment struct {
	Host           string `json:"host"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// Analyzer holds the safety limits of the comment ingestion pipeline.
type Analyzer struct {
	MaxPages              int `json:"maxPages"`
	MaxComments           int `json:"maxComments"`
	MaxRetries            int `json:"maxRetries"`
	RequestTimeoutSeconds int `json:"requestTimeoutSeconds"`
}

type Pubsub struct {
	ProjectID string `json:"projectID"`
	Topic     string `json:"topic"`
}

type ServiceBus struct {
	Namespace string `json:"namespace"`
	Queue     string `json:"queue"`
}

var C Config

func init() {
	LoadConfig()
	applyEnvOverrides(&C)
	applyDefaults(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
}

func getConfig() string {
	name := "config"
	if env := os.Getenv("ENV"); env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func applyEnvOverrides(c *Config) {
	setIfEmpty(&c.Database.Vendor, "DB_VENDOR")
	setIfEmpty(&c.Database.Psql.Name, "DB_NAME")
	setIfEmpty(&c.Database.Psql.Host, "DB_HOST")
	setIfEmpty(&c.Database.Psql.Port, "DB_PORT")
	setIfEmpty(&c.Database.Psql.User, "DB_USER")
	setIfEmpty(&c.Database.Psql.Password, "DB_PASSWORD")

	setIfEmpty(&c.Database.Mssql.Name, "MSSQL_DB_NAME")
	setIfEmpty(&c.Database.Mssql.Host, "MSSQL_HOST")
	setIfEmpty(&c.Database.Mssql.Port, "MSSQL_PORT")
	setIfEmpty(&c.Database.Mssql.User, "MSSQL_USER")
	setIfEmpty(&c.Database.Mssql.Password, "MSSQL_PASSWORD")

	setIfEmpty(&c.RedisClient.Host, "REDIS_HOST")
	setIfEmpty(&c.RedisClient.Port, "REDIS_PORT")
	setIfEmpty(&c.RedisClient.Username, "REDIS_USERNAME")
	setIfEmpty(&c.RedisClient.Password, "REDIS_PASSWORD")

	setIfEmpty(&c.YouTube.APIKey, "YOUTUBE_API_KEY")
	setIfEmpty(&c.YouTube.ClientID, "YOUTUBE_CLIENT_ID")
	setIfEmpty(&c.YouTube.ClientSecret, "YOUTUBE_CLIENT_SECRET")
	setIfEmpty(&c.YouTube.AccessToken, "YOUTUBE_ACCESS_TOKEN")
	setIfEmpty(&c.YouTube.RefreshToken, "YOUTUBE_REFRESH_TOKEN")

	setIfEmpty(&c.Sentiment.Host, "SENTIMENT_HOST")
	setIfEmpty(&c.Pubsub.ProjectID, "PUBSUB_PROJECT_ID")
	setIfEmpty(&c.Pubsub.Topic, "PUBSUB_TOPIC")
	setIfEmpty(&c.ServiceBus.Namespace, "SERVICEBUS_NAMESPACE")
	setIfEmpty(&c.ServiceBus.Queue, "SERVICEBUS_QUEUE")

	// SECRET_KEY from environment overrides the config file when provided.
	if v := os.Getenv("SECRET_KEY"); v != "" {
		c.App.SecretKey = v
	}
	// Port resolution order: APP_PORT -> PORT -> config -> default.
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.App.Port = p
		}
	}
}

func applyDefaults(c *Config) {
	if c.App.Port == 0 {
		c.App.Port = 10001
	}
	if c.Database.Vendor == "" {
		c.Database.Vendor = "psql"
	}
	if c.Database.Psql.Port == "" {
		c.Database.Psql.Port = "5432"
	}
	if c.Database.Mssql.Port == "" {
		c.Database.Mssql.Port = "1433"
	}
	if c.Sentiment.TimeoutSeconds == 0 {
		c.Sentiment.TimeoutSeconds = 30
	}
	if c.Analyzer.MaxPages == 0 {
		c.Analyzer.MaxPages = 100
	}
	if c.Analyzer.MaxComments == 0 {
		c.Analyzer.MaxComments = 10000
	}
	if c.Analyzer.MaxRetries == 0 {
		c.Analyzer.MaxRetries = 2
	}
	if c.Analyzer.RequestTimeoutSeconds == 0 {
		c.Analyzer.RequestTimeoutSeconds = 30
	}
	if c.Pubsub.Topic == "" {
		c.Pubsub.Topic = "analysis-completed"
	}
	if c.ServiceBus.Queue == "" {
		c.ServiceBus.Queue = "analysis-completed"
	}
	if c.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func setIfEmpty(dst *string, envKey string) {
	if *dst == "" {
		if v := os.Getenv(envKey); v != "" {
			*dst = v
		}
	}
}
