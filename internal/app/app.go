package app

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/giw-app/giw/internal/cache"
	"github.com/giw-app/giw/internal/chat"
	"github.com/giw-app/giw/internal/circle"
	"github.com/giw-app/giw/internal/config"
	"github.com/giw-app/giw/internal/env"
	"github.com/giw-app/giw/internal/errHandler"
	"github.com/giw-app/giw/internal/file"
	"github.com/giw-app/giw/internal/helper"
	"github.com/giw-app/giw/internal/repository"
	"github.com/giw-app/giw/internal/smtp"
	"github.com/giw-app/giw/internal/stream"

	"github.com/joho/godotenv"
)

// Essential services and resources are exposed to the application
// this makes it possible for methods to have access to these items when they need them
type Application struct {
	Config       config.Config
	DB           repository.Database
	Logger       *slog.Logger
	Mailer       *smtp.Mailer
	WG           sync.WaitGroup
	Circle       circle.Client
	Chat         chat.Client
	Cache        *cache.Cache
	Kafka        *stream.KafkaStream
	FileUploader *file.FileUploader
	ErrorHandler *errHandler.ErrorRepository
	Helper       *helper.HelperRepository
}

func NewApplication(logger *slog.Logger) (*Application, error) {
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", "error", err)
	}

	var cfg config.Config

	// config values are loaded from the .env file
	// Default values are provided for these items and these should strictly be values for development mode only
	// make sure no production-level value is exposed as default value here
	cfg.BaseURL = env.GetString("BASE_URL", "http://localhost:4444")
	cfg.HttpPort = env.GetInt("HTTP_PORT", 4444)

	cfg.Db.Dsn = env.GetString("DB_DSN", "user:pass@localhost:5432/db")
	cfg.Db.Automigrate = env.GetBool("DB_AUTOMIGRATE", true)

	cfg.Jwt.SecretKey = env.GetString("JWT_SECRET_KEY", "ajf5nx3qmp6zquevllxocxqvyz42ypuo")

	// server errors won't be sent via email if the NOTIFICATIONS_EMAIL wasn't set in the .env file
	cfg.Notifications.Email = env.GetString("NOTIFICATIONS_EMAIL", "")

	cfg.Smtp.Host = env.GetString("SMTP_HOST", "example.smtp.host")
	cfg.Smtp.Port = env.GetInt("SMTP_PORT", 25)
	cfg.Smtp.Username = env.GetString("SMTP_USERNAME", "example_username")
	cfg.Smtp.Password = env.GetString("SMTP_PASSWORD", "pa55word")
	cfg.Smtp.From = env.GetString("SMTP_FROM", "Example Name <no_reply@example.org>")

	cfg.KafkaServers = env.GetString("KAFKA_SERVERS", "localhost:9092")
	cfg.RedisServer = env.GetString("REDIS_SERVER", "localhost:6379")

	cfg.FileUploader.ApiKey = env.GetString("CLOUDINARY_API_KEY", "")
	cfg.FileUploader.CloudName = env.GetString("CLOUDINARY_CLOUD_NAME", "")
	cfg.FileUploader.ApiSecret = env.GetString("CLOUDINARY_API_SECRET", "")

	cfg.Circle.ApiKey = env.GetString("CIRCLE_API_KEY", "")
	cfg.Circle.BaseURL = env.GetString("CIRCLE_BASE_URL", "https://api.circle.com")

	cfg.Chat.ApiKey = env.GetString("CHAT_API_KEY", "")
	cfg.Chat.BaseURL = env.GetString("CHAT_BASE_URL", "https://api.openai.com")
	cfg.Chat.Model = env.GetString("CHAT_MODEL", "gpt-4o-mini")

	db, err := repository.New(cfg.Db.Dsn, cfg.Db.Automigrate)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	mailer, err := smtp.NewMailer(cfg.Smtp.Host, cfg.Smtp.Port, cfg.Smtp.Username, cfg.Smtp.Password, cfg.Smtp.From)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mailer: %w", err)
	}

	app := &Application{
		Config: cfg,
		DB:     db,
		Logger: logger,
		Mailer: mailer,
	}

	app.Helper = helper.New(&cfg.BaseURL, &app.WG, logger)
	app.ErrorHandler = errHandler.New(cfg.Notifications.Email, mailer, logger, app.Helper)

	app.Kafka = stream.New(cfg.KafkaServers)
	app.Cache = cache.New(cfg.RedisServer, 0)
	app.FileUploader = file.New(cfg.FileUploader.CloudName, cfg.FileUploader.ApiKey, cfg.FileUploader.ApiSecret)

	app.Circle = circle.New(cfg.Circle.ApiKey, cfg.Circle.BaseURL, logger)
	app.Chat = chat.New(cfg.Chat.ApiKey, cfg.Chat.BaseURL, cfg.Chat.Model, logger)

	return app, nil
}
