package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Pg       Pg            `yaml:"pg"`
	JwtTTL   time.Duration `yaml:"jwt_ttl"` // session token validity horizon
	SiteURL  string        `yaml:"site_url"`
	Port     string        `yaml:"port"`
	LogLevel string        `yaml:"log_level"`
	LogJSON  bool          `yaml:"log_json"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
	Email  Email  `yaml:"email"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	SenderName string `yaml:"sender_name"`
}

func (s *Config) JwtKey() string {
	return s.Private.JwtKey
}

func (s *Config) JwtTTL() time.Duration {
	if s.Public.JwtTTL == 0 {
		return 48 * time.Hour
	}
	return s.Public.JwtTTL
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

// MustLoad reads public.yaml and private.yaml from configFolder. Secrets can
// be overridden from the environment (see applyEnv) so deployments can keep
// private.yaml out of the image entirely.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	privatePath := path.Join(configFolder, "private.yaml")
	if _, err := os.Stat(privatePath); err == nil {
		mustLoadPath(privatePath, &private)
	}

	cfg := &Config{public, private}
	cfg.applyEnv()
	return cfg
}

func (s *Config) applyEnv() {
	if v := os.Getenv("JWT_SECRET"); v != "" {
		s.Private.JwtKey = v
	}
	if v := os.Getenv("SMTP_USERNAME"); v != "" {
		s.Private.Email.Username = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		s.Private.Email.Password = v
	}
	if v := os.Getenv("PG_PASSWORD"); v != "" {
		s.Public.Pg.Password = v
	}
}
