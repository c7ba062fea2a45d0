package cmd

// Config carries the environment settings for the API server.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	RedisAddr  string
	KafkaHost  string
	KafkaTopic string
	RabbitURL  string
	JWTSecret  string
	OtpTTL     string
}
