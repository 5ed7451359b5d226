package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jinzhu/copier"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"
	"github.com/tendant/phone-verify/pkg/config"
	"github.com/tendant/phone-verify/pkg/notification"
	"github.com/tendant/phone-verify/pkg/phoneverification"
	"github.com/tendant/phone-verify/pkg/phoneverification/api"
	"github.com/tendant/phone-verify/pkg/ratelimit"
)

type PhoneDbConfig struct {
	Host     string `env:"PHONE_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"PHONE_PG_PORT" env-default:"5432"`
	Database string `env:"PHONE_PG_DATABASE" env-default:"phone_db"`
	User     string `env:"PHONE_PG_USER" env-default:"phone"`
	Password string `env:"PHONE_PG_PASSWORD" env-default:"pwd"`
}

func (d PhoneDbConfig) toDbConfig() dbutils.DbConfig {
	return dbutils.DbConfig{
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		User:     d.User,
		Password: d.Password,
	}
}

type JwtConfig struct {
	JwtSecret string `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
}

type Config struct {
	PhoneDbConfig           PhoneDbConfig
	AppConfig               app.AppConfig
	JwtConfig               JwtConfig
	PhoneVerificationConfig config.PhoneVerificationConfig
	EmailConfig             config.EmailConfig
	TwilioConfig            config.TwilioConfig
	PersistenceType         string `env:"PHONE_PERSISTENCE_TYPE" env-default:"postgres"`
	DataDir                 string `env:"PHONE_DATA_DIR" env-default:"./data"`
}

func main() {

	cfg := Config{}
	cleanenv.ReadEnv(&cfg)

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	repoConfig := phoneverification.RepositoryConfig{DataDir: cfg.DataDir}
	if cfg.PersistenceType == "postgres" || cfg.PersistenceType == "postgresql" {
		dbConfig := cfg.PhoneDbConfig.toDbConfig()
		pool, err := dbutils.NewDbPool(context.Background(), dbConfig)
		if err != nil {
			slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
			os.Exit(-1)
		}
		repoConfig.Pool = pool
	}

	repo, err := phoneverification.NewAccountRepository(cfg.PersistenceType, repoConfig)
	if err != nil {
		slog.Error("Failed creating account repository", "type", cfg.PersistenceType, "err", err)
		os.Exit(-1)
	}

	var twilioConfig notification.TwilioConfig
	copier.Copy(&twilioConfig, &cfg.TwilioConfig)

	notificationManager, err := notification.NewNotificationManager(
		notification.WithTwilio(twilioConfig),
		notification.WithSMTP(cfg.EmailConfig.ToSMTPConfig()),
	)
	if err != nil {
		slog.Error("Failed creating notification manager", "err", err)
		os.Exit(-1)
	}

	notificationManager.RegisterNotification(notification.PhoneVerificationNotice, notification.SMSSystem, notification.NoticeTemplate{
		Text: "{{.Code}} is your phone verification code.",
	})
	notificationManager.RegisterNotification(notification.PhoneVerificationNotice, notification.EmailSystem, notification.NoticeTemplate{
		Subject: "Your verification code",
		Text:    "{{.Code}} is your phone verification code.",
	})
	notificationManager.RegisterNotification(notification.PhoneConfirmedNotice, notification.EmailSystem, notification.NoticeTemplate{
		Subject: "Phone number verified",
		Text:    "The phone number {{.Phone}} was verified for your account.",
	})

	dispatcher := notification.NewDispatcher(notificationManager, notification.NotificationSystem(cfg.PhoneVerificationConfig.DeliverySystem))

	confirmationService := phoneverification.NewConfirmationService(
		repo,
		dispatcher,
		phoneverification.WithConfirmationWindow(cfg.PhoneVerificationConfig.ConfirmationWindow),
		phoneverification.WithIdentifierFields(cfg.PhoneVerificationConfig.Fields()),
		phoneverification.WithConfirmationRequired(cfg.PhoneVerificationConfig.ConfirmationRequired),
		phoneverification.WithTokenRetryLimit(cfg.PhoneVerificationConfig.TokenRetryLimit),
	)

	verifyHandle := api.NewHandler(confirmationService, notificationManager)

	rateLimitConfig := ratelimit.DefaultConfig()
	rateLimitConfig.EndpointLimits["POST /phone/request"] = ratelimit.EndpointLimit{
		Capacity:   5,
		RefillRate: 5.0 / 60.0,
	}
	rateLimitConfig.EndpointLimits["POST /phone/confirm"] = ratelimit.EndpointLimit{
		Capacity:   10,
		RefillRate: 10.0 / 60.0,
	}
	rateLimiter := ratelimit.NewMiddleware(rateLimitConfig)

	tokenAuth := jwtauth.New("HS256", []byte(cfg.JwtConfig.JwtSecret), nil)

	server.R.Group(func(r chi.Router) {
		r.Use(jwtauth.Verifier(tokenAuth))
		r.Use(jwtauth.Authenticator(tokenAuth))
		r.Use(rateLimiter.Handler)
		r.Mount("/phone", api.Routes(verifyHandle))
	})

	server.Run()

}
