package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"animal-rfid-relay/internal/platform/errs"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Port string

	Database DatabaseConfig
	Telegram TelegramConfig
	Discord  DiscordConfig
	Webhooks WebhookConfig

	// NotifyTimeout acota cada dispatch de notificaciones/broadcast.
	NotifyTimeout time.Duration
	// ScanLocation es la zona horaria usada para waktu_scan.
	ScanLocation *time.Location

	Log LogConfig
}

type DatabaseConfig struct {
	Driver   string
	URL      string
	MaxConns int
}

type TelegramConfig struct {
	Token      string
	ChatIDs    []int64
	WebhookURL string // vacío => polling
}

type DiscordConfig struct {
	Token      string
	ChannelIDs []string
}

type WebhookConfig struct {
	URLs []string
}

type LogConfig struct {
	Level  string
	Format string
	App    string
}

// Load lee .env (si existe), env vars y opcionalmente un archivo de config.
// Las keys son las mismas en env y en archivo: PORT / port, DATABASE_URL / database_url, etc.
func Load(configFile string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errs.Wrap(err, "load .env")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if strings.TrimSpace(configFile) != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errs.Wrap(err, "read config")
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "3000")
	v.SetDefault("database_url", "")
	v.SetDefault("db_driver", "")
	v.SetDefault("db_max_conns", 10)
	v.SetDefault("bot_token", "")
	v.SetDefault("telegram_chat_ids", "")
	v.SetDefault("webhook_url", "")
	v.SetDefault("discord_bot_token", "")
	v.SetDefault("discord_channel_ids", "")
	v.SetDefault("notify_webhook_urls", "")
	v.SetDefault("notify_timeout", "10s")
	v.SetDefault("scan_timezone", "Asia/Jakarta")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("app_name", "animal-rfid-relay")
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port: strings.TrimSpace(v.GetString("port")),
		Database: DatabaseConfig{
			Driver:   strings.ToLower(strings.TrimSpace(v.GetString("db_driver"))),
			URL:      strings.TrimSpace(v.GetString("database_url")),
			MaxConns: v.GetInt("db_max_conns"),
		},
		Telegram: TelegramConfig{
			Token:      strings.TrimSpace(v.GetString("bot_token")),
			WebhookURL: strings.TrimRight(strings.TrimSpace(v.GetString("webhook_url")), "/"),
		},
		Discord: DiscordConfig{
			Token:      strings.TrimSpace(v.GetString("discord_bot_token")),
			ChannelIDs: stringList(v, "discord_channel_ids"),
		},
		Webhooks: WebhookConfig{
			URLs: stringList(v, "notify_webhook_urls"),
		},
		NotifyTimeout: v.GetDuration("notify_timeout"),
		Log: LogConfig{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
			App:    v.GetString("app_name"),
		},
	}

	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.Database.MaxConns <= 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 10 * time.Second
	}

	switch cfg.Database.Driver {
	case "":
		if cfg.Database.URL != "" {
			cfg.Database.Driver = DriverPostgres
		} else {
			cfg.Database.Driver = DriverMemory
		}
	case "postgresql", "pgx":
		cfg.Database.Driver = DriverPostgres
	case "sqlite3":
		cfg.Database.Driver = DriverSQLite
	case DriverPostgres, DriverSQLite, DriverMemory:
	default:
		return Config{}, fmt.Errorf("unsupported db_driver %q", cfg.Database.Driver)
	}
	if cfg.Database.Driver == DriverPostgres && cfg.Database.URL == "" {
		return Config{}, errors.New("database_url is required for postgres")
	}
	if cfg.Database.Driver == DriverSQLite && cfg.Database.URL == "" {
		cfg.Database.URL = "data/animals.db"
	}

	for _, raw := range stringList(v, "telegram_chat_ids") {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Config{}, errs.Wrapf(err, "invalid telegram chat id %q", raw)
		}
		cfg.Telegram.ChatIDs = append(cfg.Telegram.ChatIDs, id)
	}

	tz := strings.TrimSpace(v.GetString("scan_timezone"))
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Config{}, errs.Wrapf(err, "invalid scan_timezone %q", tz)
	}
	cfg.ScanLocation = loc

	return cfg, nil
}

// Addr devuelve la dirección de escucha para http.Server.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}

// stringList acepta "a,b c" desde env o una lista YAML desde archivo.
func stringList(v *viper.Viper, key string) []string {
	var raw []string
	switch val := v.Get(key).(type) {
	case nil:
		return nil
	case string:
		raw = strings.FieldsFunc(val, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t'
		})
	case []string:
		raw = val
	case []any:
		for _, item := range val {
			raw = append(raw, fmt.Sprint(item))
		}
	default:
		raw = []string{fmt.Sprint(val)}
	}

	out := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
