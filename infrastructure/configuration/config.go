package configuration

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sshamanello/reelflow/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	RedisClient RedisClient `json:"redisClient"`
	TikTok      TikTok      `json:"tiktok"`
	Google      Google      `json:"google"`
	Session     Session     `json:"session"`
	CORS        CORS        `json:"cors"`
}

type App struct {
	Port        int    `json:"port"`
	TLSEnabled  bool   `json:"tlsEnabled"`
	TLSCertFile string `json:"tlsCertFile"`
	TLSKeyFile  string `json:"tlsKeyFile"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// TikTok holds the open-api client credentials.
type TikTok struct {
	ClientKey    string `json:"clientKey"`
	ClientSecret string `json:"clientSecret"`
}

// Google holds the OAuth client credentials used for YouTube.
type Google struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

// Session controls the cookie the exchange endpoint sets.
type Session struct {
	CookieName string `json:"cookieName"`
	TTLDays    int    `json:"ttlDays"`
}

// CORS holds the origin allow-list; an entry of "*" allows any origin.
type CORS struct {
	AllowedOrigins []string `json:"allowedOrigins"`
}

// DefaultOrigin is echoed when the request carries no Origin header and no
// allow-list is configured.
const DefaultOrigin = "https://sshamanello.ru"

var C Config

func init() {
	LoadConfig()
	initApp(&C)
	initRedis(&C)
	initPlatforms(&C)
	initSession(&C)
	initCORS(&C)
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
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(C *Config) {
	// Port resolution order (env overrides config): APP_PORT -> PORT -> config -> default 8787
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 8787
	}
	if v := os.Getenv("TLS_ENABLED"); v != "" {
		switch v {
		case "1", "true", "TRUE", "True":
			C.App.TLSEnabled = true
		case "0", "false", "FALSE", "False":
			C.App.TLSEnabled = false
		}
	}
	if C.App.TLSCertFile == "" {
		C.App.TLSCertFile = os.Getenv("TLS_CERT_FILE")
	}
	if C.App.TLSKeyFile == "" {
		C.App.TLSKeyFile = os.Getenv("TLS_KEY_FILE")
	}
}

func initRedis(C *Config) {
	if C.RedisClient.Host == "" {
		C.RedisClient.Host = os.Getenv("REDIS_HOST")
	}
	if C.RedisClient.Port == "" {
		C.RedisClient.Port = os.Getenv("REDIS_PORT")
	}
	if C.RedisClient.Port == "" {
		C.RedisClient.Port = "6379"
	}
	if C.RedisClient.Username == "" {
		C.RedisClient.Username = os.Getenv("REDIS_USERNAME")
	}
	if C.RedisClient.Password == "" {
		C.RedisClient.Password = os.Getenv("REDIS_PASSWORD")
	}
}

func initPlatforms(C *Config) {
	if v := os.Getenv("TIKTOK_CLIENT_KEY"); v != "" {
		C.TikTok.ClientKey = v
	}
	if v := os.Getenv("TIKTOK_CLIENT_SECRET"); v != "" {
		C.TikTok.ClientSecret = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		C.Google.ClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		C.Google.ClientSecret = v
	}
	if C.TikTok.ClientKey == "" {
		logger.GetLogger().Warn("TikTok client key not set; TikTok OAuth exchange will fail. Provide TIKTOK_CLIENT_KEY via environment.")
	}
	if C.Google.ClientID == "" {
		logger.GetLogger().Warn("Google client id not set; YouTube OAuth exchange will fail. Provide GOOGLE_CLIENT_ID via environment.")
	}
}

func initSession(C *Config) {
	if v := os.Getenv("COOKIE_NAME"); v != "" {
		C.Session.CookieName = v
	}
	if C.Session.CookieName == "" {
		C.Session.CookieName = "rf_sid"
	}
	if v := os.Getenv("COOKIE_TTL_DAYS"); v != "" {
		if d, err := strconv.Atoi(v); err == nil && d > 0 {
			C.Session.TTLDays = d
		}
	}
	if C.Session.TTLDays == 0 {
		C.Session.TTLDays = 30
	}
}

func initCORS(C *Config) {
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		C.CORS.AllowedOrigins = origins
	}
	if len(C.CORS.AllowedOrigins) == 0 {
		C.CORS.AllowedOrigins = []string{DefaultOrigin}
	}
}
