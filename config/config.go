package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port      string
	DBURL     string
	StaticDir string

	BusinessName  string
	BusinessEmail string

	EmailAPIURL string
	EmailAPIKey string
	EmailFrom   string

	AuthRequired   bool
	JWTSecret      string
	JWTExpiryHours int

	RemindersEnabled  bool
	TwilioAccountSID  string
	TwilioAuthToken   string
	TwilioPhoneNumber string
}

// App is the process-wide configuration, set by Load.
var App *Config

func Load() *Config {
	// .env is optional; real deployments set environment variables directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("BUSINESS_NAME", "Lesson Ledger")
	v.SetDefault("EMAIL_API_URL", "https://api.resend.com/emails")
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("AUTH_REQUIRED", false)
	v.SetDefault("REMINDERS_ENABLED", false)

	cfg := &Config{
		Port:      v.GetString("PORT"),
		DBURL:     v.GetString("DB_URL"),
		StaticDir: v.GetString("STATIC_DIR"),

		BusinessName:  v.GetString("BUSINESS_NAME"),
		BusinessEmail: v.GetString("BUSINESS_EMAIL"),

		EmailAPIURL: v.GetString("EMAIL_API_URL"),
		EmailAPIKey: v.GetString("EMAIL_API_KEY"),
		EmailFrom:   v.GetString("EMAIL_FROM"),

		AuthRequired:   v.GetBool("AUTH_REQUIRED"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		JWTExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),

		RemindersEnabled:  v.GetBool("REMINDERS_ENABLED"),
		TwilioAccountSID:  v.GetString("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:   v.GetString("TWILIO_AUTH_TOKEN"),
		TwilioPhoneNumber: v.GetString("TWILIO_PHONE_NUMBER"),
	}

	App = cfg
	return cfg
}
