package config

import (
	"log"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type HTTP struct {
	Host            string
	Port            int
	ReadTimeoutSec  int
	WriteTimeoutSec int
	IdleTimeoutSec  int
}

type AdminHTTP struct {
	Host string
	Port int
}

type App struct {
	Name  string
	Env   string
	HTTP  HTTP
	Admin AdminHTTP
}

type LogRotate struct {
	Enable     bool
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type Log struct {
	Level  string
	JSON   bool
	Rotate LogRotate
}

// JWT carries one secret per token class so a leaked access secret
// cannot forge refresh tokens (and vice versa).
type JWT struct {
	AccessSecret       string
	RefreshSecret      string
	Issuer             string
	AccessTokenTTLMin  int
	RefreshTokenTTLDay int
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type DB struct {
	Driver             string
	DSN                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeMin int
	AutoMigrate        bool
	LogLevel           string
}

// Media points at any S3-compatible object store (MinIO included).
// PublicBaseURL is what ends up in stored avatar/logo/document URLs.
type Media struct {
	Endpoint      string
	Region        string
	Bucket        string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
	TimeoutSec    int
}

type Upload struct {
	StagingDir string
	MaxSizeMB  int
}

// Recaptcha is optional; an empty SecretKey disables verification.
type Recaptcha struct {
	SecretKey string
	VerifyURL string
	MinScore  float64
}

type CORS struct {
	AllowOrigins []string
}

type RateLimit struct {
	LoginWindowMin int
	LoginMax       int
}

type Config struct {
	App       App
	Log       Log
	JWT       JWT
	DB        DB
	Redis     Redis `mapstructure:"redis"`
	Media     Media
	Upload    Upload
	Recaptcha Recaptcha
	CORS      CORS
	RateLimit RateLimit
}

func Load(path string) *Config {
	v := viper.New()
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
		if path == "" {
			path = "./configs/config.local.yaml"
		}
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.http.readtimeoutsec", 5)
	v.SetDefault("app.http.writetimeoutsec", 30)
	v.SetDefault("app.http.idletimeoutsec", 60)
	v.SetDefault("log.rotate.filename", "./logs/projectdesk.log")
	v.SetDefault("log.rotate.maxsizemb", 100)
	v.SetDefault("log.rotate.maxbackups", 7)
	v.SetDefault("log.rotate.maxagedays", 30)
	v.SetDefault("jwt.accesstokenttlmin", 60)
	v.SetDefault("jwt.refreshtokenttlday", 10)
	v.SetDefault("media.timeoutsec", 30)
	v.SetDefault("upload.stagingdir", "./tmp/uploads")
	v.SetDefault("upload.maxsizemb", 8)
	v.SetDefault("recaptcha.verifyurl", "https://www.google.com/recaptcha/api/siteverify")
	v.SetDefault("recaptcha.minscore", 0.3)
	v.SetDefault("ratelimit.loginwindowmin", 15)
	v.SetDefault("ratelimit.loginmax", 8)

	if err := v.ReadInConfig(); err != nil {
		log.Fatalf("read config: %v", err)
	}
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Fatalf("unmarshal config: %v", err)
	}
	return &c
}
