package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "STOREFRONT_CONFIG_FILE"
	envPrefix         = "STOREFRONT"
)

const (
	StoreMemory   = "memory"
	StoreMongoDB  = "mongodb"
	StorePostgres = "postgres"

	SessionMemory = "memory"
	SessionRedis  = "redis"
)

var ErrInvalidConfig = errors.New("invalid config")

type mongodb struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type postgres struct {
	DSN string `mapstructure:"dsn"`
}

type store struct {
	Driver   string   `mapstructure:"driver"`
	MongoDB  mongodb  `mapstructure:"mongodb"`
	Postgres postgres `mapstructure:"postgres"`
}

type session struct {
	Driver   string        `mapstructure:"driver"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

type topics struct {
	ProductsCreated    string `mapstructure:"products_created"`
	BlogPostsPublished string `mapstructure:"blog_posts_published"`
}

type tls struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

type broker struct {
	Enabled            bool     `mapstructure:"enabled"`
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	Topics             topics   `mapstructure:"topics"`
	TLS                tls      `mapstructure:"tls"`
}

type storefront struct {
	Name           string  `mapstructure:"name"`
	WhatsAppNumber string  `mapstructure:"whatsapp_number"`
	DeliveryCharge float64 `mapstructure:"delivery_charge"`
	FeaturedLimit  int     `mapstructure:"featured_limit"`
	Currency       string  `mapstructure:"currency"`
}

type Config struct {
	LogLevel       slog.Level `mapstructure:"log_level"`
	HTTPServerAddr string     `mapstructure:"http_server_addr"`
	AdminSecret    string     `mapstructure:"admin_secret"`
	Store          store      `mapstructure:"store"`
	Session        session    `mapstructure:"session"`
	Broker         broker     `mapstructure:"broker"`
	Storefront     storefront `mapstructure:"storefront"`
}

var defaults = map[string]any{
	"log_level":                         "info",
	"http_server_addr":                  ":8080",
	"admin_secret":                      "",
	"store.driver":                      StoreMemory,
	"store.mongodb.uri":                 "",
	"store.mongodb.database":            "storefront",
	"store.postgres.dsn":                "",
	"session.driver":                    SessionMemory,
	"session.redis_url":                 "",
	"session.ttl":                       "12h",
	"broker.enabled":                    false,
	"broker.seed_brokers":               []string{},
	"broker.schema_registry_urls":       []string{},
	"broker.topics.products_created":    "storefront.products.created",
	"broker.topics.blog_posts_published": "storefront.blog.published",
	"broker.tls.ca":                     "",
	"broker.tls.cert":                   "",
	"broker.tls.key":                    "",
	"storefront.name":                   "Storefront",
	"storefront.whatsapp_number":        "923167202164",
	"storefront.delivery_charge":        300,
	"storefront.featured_limit":         8,
	"storefront.currency":               "PKR",
}

// Load reads the config file named by the --config flag or
// STOREFRONT_CONFIG_FILE and exits the process on failure.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		die(err)
	}

	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFile reads path over the defaults. An empty path uses the defaults
// and the environment only. STOREFRONT_ prefixed variables override the
// file, e.g. STOREFRONT_STORE_DRIVER for store.driver.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every enabled backend has what it needs to
// connect.
func (c Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case StoreMemory:
	case StoreMongoDB:
		if c.Store.MongoDB.URI == "" {
			errs = append(errs, errors.New("store.mongodb.uri: required"))
		}
	case StorePostgres:
		if c.Store.Postgres.DSN == "" {
			errs = append(errs, errors.New("store.postgres.dsn: required"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.driver: unknown %q", c.Store.Driver))
	}

	switch c.Session.Driver {
	case SessionMemory:
	case SessionRedis:
		if c.Session.RedisURL == "" {
			errs = append(errs, errors.New("session.redis_url: required"))
		}
	default:
		errs = append(errs, fmt.Errorf("session.driver: unknown %q", c.Session.Driver))
	}

	if c.Broker.Enabled {
		if len(c.Broker.SeedBrokers) == 0 {
			errs = append(errs, errors.New("broker.seed_brokers: required"))
		}
		if len(c.Broker.SchemaRegistryURLs) == 0 {
			errs = append(errs, errors.New("broker.schema_registry_urls: required"))
		}
	}

	if c.Storefront.WhatsAppNumber == "" {
		errs = append(errs, errors.New("storefront.whatsapp_number: required"))
	}

	if len(errs) != 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	cmdLine.ParseErrorsWhitelist.UnknownFlags = true
	arg := cmdLine.String("config", "", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	template := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	AdminSecret=%q

	Store:
	Driver=%q
	MongoDBDatabase=%q
	PostgresDSNSet=%t

	Session:
	Driver=%q
	TTL=%q

	BrokerConfig:
	Enabled=%t
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		ProductsCreated=%q
		BlogPostsPublished=%q

	Storefront:
	Name=%q
	WhatsAppNumber=%q
	DeliveryCharge=%v
	FeaturedLimit=%d
	Currency=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(template, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		mask(c.AdminSecret),
		c.Store.Driver,
		c.Store.MongoDB.Database,
		c.Store.Postgres.DSN != "",
		c.Session.Driver,
		c.Session.TTL,
		c.Broker.Enabled,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.ProductsCreated,
		c.Broker.Topics.BlogPostsPublished,
		c.Storefront.Name,
		c.Storefront.WhatsAppNumber,
		c.Storefront.DeliveryCharge,
		c.Storefront.FeaturedLimit,
		c.Storefront.Currency,
	)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "******"
}
