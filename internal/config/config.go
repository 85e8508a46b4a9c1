package config

type Config struct {
	BaseURL  string
	HttpPort int
	Db       struct {
		Dsn         string
		Automigrate bool
	}
	Jwt struct {
		SecretKey string
	}
	Notifications struct {
		Email string
	}
	Smtp struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}
	FileUploader struct {
		CloudName string
		ApiKey    string
		ApiSecret string
	}
	Circle struct {
		ApiKey  string
		BaseURL string
	}
	Chat struct {
		ApiKey  string
		BaseURL string
		Model   string
	}
	RedisServer  string
	KafkaServers string
}
