package config

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	MainRoutes    string
	AppPort       string
	JWTSecret     string
	JWTExpiration int

	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	SnowflakeNode int64
	LogMode       string

	CookieSecure   bool
	CookieHTTPOnly bool
	CookieSameSite string

	SMTPHost        string
	SMTPPort        int
	SMTPUser        string
	SMTPPassword    string
	ReorderMailFrom string
	ReorderMailTo   []string

	AllowedOrigins map[string]bool
}

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("MAIN_ROUTES", "/api/v1")
	v.SetDefault("APP_PORT", "9000")
	v.SetDefault("JWT_SECRET", "molding_inventory_secret")
	v.SetDefault("JWT_EXPIRATION", 86400)

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "molding_inventory")

	v.SetDefault("SNOWFLAKE_NODE", 1)
	v.SetDefault("LOG_MODE", "dev")

	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("COOKIE_HTTPONLY", false)
	v.SetDefault("COOKIE_SAMESITE", "None")

	v.SetDefault("SMTP_HOST", "localhost")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("REORDER_MAIL_FROM", "inventory@localhost")
	v.SetDefault("REORDER_MAIL_TO", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	return v
}

// FromViper maps a populated viper instance onto Config.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		MainRoutes:    v.GetString("MAIN_ROUTES"),
		AppPort:       v.GetString("APP_PORT"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTExpiration: v.GetInt("JWT_EXPIRATION"),

		DBDriver:   strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),

		SnowflakeNode: v.GetInt64("SNOWFLAKE_NODE"),
		LogMode:       v.GetString("LOG_MODE"),

		CookieSecure:   v.GetBool("COOKIE_SECURE"),
		CookieHTTPOnly: v.GetBool("COOKIE_HTTPONLY"),
		CookieSameSite: v.GetString("COOKIE_SAMESITE"),

		SMTPHost:        v.GetString("SMTP_HOST"),
		SMTPPort:        v.GetInt("SMTP_PORT"),
		SMTPUser:        v.GetString("SMTP_USER"),
		SMTPPassword:    v.GetString("SMTP_PASSWORD"),
		ReorderMailFrom: v.GetString("REORDER_MAIL_FROM"),
		ReorderMailTo:   splitList(v.GetString("REORDER_MAIL_TO")),

		AllowedOrigins: loadAllowedOrigins(v.GetString("ALLOWED_ORIGINS")),
	}
}

func splitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func loadAllowedOrigins(raw string) map[string]bool {
	origins := splitList(raw)
	if len(origins) == 0 {
		return map[string]bool{"http://127.0.0.1:3000": true}
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return allowed
}

func SetupCORS(app *fiber.App, cfg *Config) {
	app.Use(func(c *fiber.Ctx) error {
		origin := c.Get("Origin")
		if cfg.AllowedOrigins[origin] {
			c.Set("Access-Control-Allow-Origin", origin)
			c.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
			c.Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
			c.Set("Access-Control-Allow-Credentials", "true")
		}

		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	})
}

func (cfg *Config) GetTokenCookie(token string) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     "access_token",
		Value:    token,
		Expires:  time.Now().Add(time.Duration(cfg.JWTExpiration) * time.Second),
		HTTPOnly: cfg.CookieHTTPOnly,
		SameSite: cfg.CookieSameSite,
		Path:     "/",
		Secure:   cfg.CookieSecure,
	}
}
