package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection,
//   upstream credentials), security settings
// - default: Values common across all environments (timezone, intervals,
//   lookup keys), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server   ServerConfig
	DB       DBConfig
	CORS     CORSConfig
	Log      LogConfig
	JWT      JWTConfig
	Calendar CalendarConfig
	Billing  BillingConfig
	Mail     MailConfig
	Reminder ReminderConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Tokyo"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Stripe-Signature"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"Asia/Tokyo"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"32400"` // 9*60*60
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// CalendarConfig names the fixed calendar resources lessons are scheduled on.
// The test calendar is substituted for all of them when a request asks for it.
type CalendarConfig struct {
	CredentialsFile     string `envconfig:"CALENDAR_CREDENTIALS_FILE" required:"true"`
	FreeCalendarID      string `envconfig:"CALENDAR_FREE_ID" default:"primary"`
	PreschoolCalendarID string `envconfig:"CALENDAR_PRESCHOOL_ID" default:"primary"`
	PrivateCalendarID   string `envconfig:"CALENDAR_PRIVATE_ID" default:"primary"`
	PrimaryCalendarID   string `envconfig:"CALENDAR_PRIMARY_ID" default:"primary"`
	TestCalendarID      string `envconfig:"CALENDAR_TEST_ID" required:"true"`
}

type BillingConfig struct {
	SecretKey           string `envconfig:"BILLING_SECRET_KEY" required:"true"`
	WebhookSecret       string `envconfig:"BILLING_WEBHOOK_SECRET" required:"true"`
	SignupFeeLookupKey  string `envconfig:"BILLING_SIGNUP_FEE_LOOKUP_KEY" default:"sign_up_fee"`
	PointPriceLookupKey string `envconfig:"BILLING_POINT_PRICE_LOOKUP_KEY" default:"point_one_time"`
}

type MailConfig struct {
	Provider         string        `envconfig:"MAIL_PROVIDER" default:"noop"`
	FromAddress      string        `envconfig:"MAIL_FROM_ADDRESS" required:"true"`
	FromName         string        `envconfig:"MAIL_FROM_NAME" default:"Success Academy"`
	AdminAddress     string        `envconfig:"MAIL_ADMIN_ADDRESS" required:"true"`
	DispatchInterval time.Duration `envconfig:"MAIL_DISPATCH_INTERVAL" default:"15s"`
	DispatchBatch    int           `envconfig:"MAIL_DISPATCH_BATCH" default:"20"`

	SESRegion          string `envconfig:"MAIL_SES_REGION" default:"us-west-2"`
	SESAccessKeyID     string `envconfig:"MAIL_SES_ACCESS_KEY_ID"`
	SESSecretAccessKey string `envconfig:"MAIL_SES_SECRET_ACCESS_KEY"`
}

type ReminderConfig struct {
	Interval  time.Duration `envconfig:"REMINDER_INTERVAL" default:"30m"`
	Lookahead time.Duration `envconfig:"REMINDER_LOOKAHEAD" default:"24h"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Tokyo",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "Asia/Tokyo",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 32400,
		},
		Calendar: CalendarConfig{
			FreeCalendarID:      "free-calendar",
			PreschoolCalendarID: "preschool-calendar",
			PrivateCalendarID:   "private-calendar",
			PrimaryCalendarID:   "primary",
			TestCalendarID:      "test-calendar",
		},
		Billing: BillingConfig{
			SignupFeeLookupKey:  "sign_up_fee",
			PointPriceLookupKey: "point_one_time",
		},
		Mail: MailConfig{
			Provider:     "noop",
			FromAddress:  "noreply@example.com",
			AdminAddress: "admin@example.com",
		},
		Reminder: ReminderConfig{
			Interval:  30 * time.Minute,
			Lookahead: 24 * time.Hour,
		},
	}
}
