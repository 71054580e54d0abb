package config

import (
	"github.com/spf13/viper"
)

// The service runs with its settings injected as environment variables per
// pod; AWS config and the notification queue URL are handled the same way.

type Config struct {
	DBHost            string `mapstructure:"DB_HOST"`
	DBPort            string `mapstructure:"DB_PORT"`
	DBUser            string `mapstructure:"DB_USER"`
	DBPassword        string `mapstructure:"DB_PASSWORD"`
	DBName            string `mapstructure:"DB_NAME"`
	ServerPort        string `mapstructure:"SERVER_PORT"`
	PublicBaseURL     string `mapstructure:"PUBLIC_BASE_URL"`
	AWSRegion         string `mapstructure:"AWS_REGION"`
	AWSEndpoint       string `mapstructure:"AWS_ENDPOINT"`
	NotifySQSQueueURL string `mapstructure:"NOTIFY_SQS_QUEUE_URL"`
	MailSender        string `mapstructure:"MAIL_SENDER"`
	OTLPEndpoint      string `mapstructure:"OTLP_ENDPOINT"`
	IsLocalDev        bool   `mapstructure:"IS_LOCAL_DEV"`
	ReportWorkerCount int    `mapstructure:"REPORT_WORKER_COUNT"`
	ReportQueueSize   int    `mapstructure:"REPORT_QUEUE_SIZE"`
	ReportTTLMinutes  int    `mapstructure:"REPORT_TTL_MINUTES"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (config Config, err error) {
	viper.SetDefault("DB_HOST", "db")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "attendance_db")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("AWS_ENDPOINT", "http://localstack:4566")
	viper.SetDefault("NOTIFY_SQS_QUEUE_URL", "http://localstack:4566/000000000000/notify-queue")
	viper.SetDefault("MAIL_SENDER", "no-reply@attendance-service.com")
	viper.SetDefault("OTLP_ENDPOINT", "jaeger:4317")
	viper.SetDefault("IS_LOCAL_DEV", false)
	viper.SetDefault("REPORT_WORKER_COUNT", 4)
	viper.SetDefault("REPORT_QUEUE_SIZE", 128)
	viper.SetDefault("REPORT_TTL_MINUTES", 60)

	// Read in environment variables that match the keys.
	viper.AutomaticEnv()

	err = viper.Unmarshal(&config)
	return
}
