package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	libconfig "txreceipt/libs/config"
)

// Config defines receipt service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
	Receipt  ReceiptConfig  `yaml:"receipt"`
}

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	Port        string   `yaml:"port" env:"PORT"`
	CORSOrigins []string `yaml:"corsOrigins" env:"CORS_ALLOWED_ORIGINS"`
}

// DatabaseConfig accepts either a full DSN or the discrete DB_* variables.
type DatabaseConfig struct {
	DSN         string `yaml:"dsn" env:"DATABASE_URL"`
	Host        string `yaml:"host" env:"DB_HOST"`
	Port        string `yaml:"port" env:"DB_PORT"`
	User        string `yaml:"user" env:"DB_USER"`
	Password    string `yaml:"password" env:"DB_PASSWORD"`
	Name        string `yaml:"name" env:"DB_NAME"`
	SSLMode     string `yaml:"sslMode" env:"DB_SSLMODE"`
	AutoMigrate bool   `yaml:"autoMigrate" env:"DB_AUTO_MIGRATE"`
	MaxOpen     int    `yaml:"maxOpenConns" env:"DB_MAX_OPEN_CONNS"`
	MaxIdle     int    `yaml:"maxIdleConns" env:"DB_MAX_IDLE_CONNS"`
}

// RedisConfig configures the optional transaction cache. An empty address disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
	TTL      int    `yaml:"ttlSeconds" env:"REDIS_TTL"`
}

// StorageConfig locates the public receipt directory and image assets.
type StorageConfig struct {
	PublicDir string `yaml:"publicDir" env:"PUBLIC_DIR"`
	AssetsDir string `yaml:"assetsDir" env:"ASSETS_DIR"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level    string `yaml:"level" env:"LOG_LEVEL"`
	Encoding string `yaml:"encoding" env:"LOG_ENCODING"`
}

// Field is one label/value row of a receipt info grid. When Field names a
// transaction attribute (txId, sender, receiver, account) its value is used instead of Value.
type Field struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
	Field string `yaml:"field"`
}

// ReceiptConfig carries the business data printed on every receipt.
type ReceiptConfig struct {
	PageSize          string  `yaml:"pageSize" env:"RECEIPT_PAGE_SIZE"`
	Margin            float64 `yaml:"margin" env:"RECEIPT_MARGIN"`
	Currency          string  `yaml:"currency" env:"RECEIPT_CURRENCY"`
	Locale            string  `yaml:"locale" env:"RECEIPT_LOCALE"`
	Timezone          string  `yaml:"timezone" env:"RECEIPT_TIMEZONE"`
	Commission        float64 `yaml:"commission" env:"RECEIPT_COMMISSION"`
	VATRate           float64 `yaml:"vatRate" env:"RECEIPT_VAT_RATE"`
	BankName          string  `yaml:"bankName" env:"RECEIPT_BANK_NAME"`
	Subtitle          string  `yaml:"subtitle" env:"RECEIPT_SUBTITLE"`
	BrandColor        string  `yaml:"brandColor" env:"RECEIPT_BRAND_COLOR"`
	Tagline           string  `yaml:"tagline" env:"RECEIPT_TAGLINE"`
	Copyright         string  `yaml:"copyright" env:"RECEIPT_COPYRIGHT"`
	ServiceReason     string  `yaml:"serviceReason" env:"RECEIPT_SERVICE_REASON"`
	PayerAccount      string  `yaml:"payerAccount" env:"RECEIPT_PAYER_ACCOUNT"`
	AccountMaskPrefix string  `yaml:"accountMaskPrefix" env:"RECEIPT_ACCOUNT_MASK_PREFIX"`
	LogoFile          string  `yaml:"logoFile" env:"RECEIPT_LOGO_FILE"`
	StampFile         string  `yaml:"stampFile" env:"RECEIPT_STAMP_FILE"`
	QRCode            bool    `yaml:"qrCode" env:"RECEIPT_QR_CODE"`
	Issuer            []Field `yaml:"issuer" env:"-"`
	Customer          []Field `yaml:"customer" env:"-"`
}

// Defaults returns the configuration used when nothing overrides it.
func Defaults() *Config {
	return &Config{
		HTTP: HTTPConfig{Port: "10000"},
		Database: DatabaseConfig{
			Port:    "5432",
			SSLMode: "disable",
			MaxOpen: 10,
			MaxIdle: 5,
		},
		Redis: RedisConfig{TTL: 3600},
		Storage: StorageConfig{
			PublicDir: "public",
			AssetsDir: "assets",
		},
		Log: LogConfig{Level: "info", Encoding: "json"},
		Receipt: ReceiptConfig{
			PageSize:          "letter",
			Margin:            30,
			Currency:          "ETB",
			Locale:            "en",
			Timezone:          "UTC",
			Commission:        3.00,
			VATRate:           0.15,
			BankName:          "Commercial Bank of Ethiopia",
			Subtitle:          "VAT Invoice / Customer Receipt",
			BrandColor:        "#81007f",
			Tagline:           "The Bank you can always rely on.",
			Copyright:         "© 2026 Commercial Bank of Ethiopia. All rights reserved.",
			ServiceReason:     "SGS done via Mobile",
			PayerAccount:      "1****9034",
			AccountMaskPrefix: "1****",
			LogoFile:          "logo.png",
			StampFile:         "cbe_stamp.png",
			QRCode:            true,
			Issuer: []Field{
				{Label: "Country:", Value: "Ethiopia"},
				{Label: "City:", Value: "Addis Ababa"},
				{Label: "Address:", Value: "Ras Desta Damtew St, 01, Kirkos"},
				{Label: "Postal code:", Value: "255"},
				{Label: "SWIFT Code:", Value: "CBETETAA"},
				{Label: "Email:", Value: "info@cbe.com.et"},
				{Label: "Tel:", Value: "251-551-42-04"},
				{Label: "Fax:", Value: "251-551-43-24"},
				{Label: "Tin:", Value: "0000000868"},
				{Label: "VAT Receipt No:", Field: "txId"},
				{Label: "VAT Registration No:", Value: "011140"},
				{Label: "VAT Registration Date", Value: "01/01/2003"},
			},
			Customer: []Field{
				{Label: "Customer Name:", Field: "sender"},
				{Label: "Region:", Value: "-"},
				{Label: "City:", Value: "YEKAWOREDA.6"},
				{Label: "Sub City:", Value: "-"},
				{Label: "Wereda/Kebele:", Value: "-"},
				{Label: "VAT Registration No:", Value: "-"},
				{Label: "VAT Registration Date", Value: "20024026"},
				{Label: "TIN ( TAX ID):", Value: "-"},
				{Label: "Branch:", Value: "BISHOFTU MENANERIA BR"},
			},
		},
	}
}

// Load configuration from .env, the optional YAML file at path and the environment.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if err := libconfig.LoadConfig(cfg, path); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if _, err := c.DatabaseDSN(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Storage.PublicDir) == "" {
		return errors.New("config: public dir required")
	}
	if strings.TrimSpace(c.Receipt.Currency) == "" {
		return errors.New("config: receipt currency required")
	}
	if c.Receipt.Commission < 0 {
		return errors.New("config: receipt commission must not be negative")
	}
	if c.Receipt.VATRate < 0 {
		return errors.New("config: receipt vat rate must not be negative")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// DatabaseDSN returns the explicit DSN or one assembled from the discrete settings.
func (c *Config) DatabaseDSN() (string, error) {
	if dsn := strings.TrimSpace(c.Database.DSN); dsn != "" {
		return dsn, nil
	}
	if strings.TrimSpace(c.Database.Host) == "" || strings.TrimSpace(c.Database.Name) == "" {
		return "", errors.New("config: database dsn or host and name required")
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   c.Database.Host,
		Path:   "/" + c.Database.Name,
	}
	if port := strings.TrimSpace(c.Database.Port); port != "" {
		u.Host = fmt.Sprintf("%s:%s", c.Database.Host, port)
	}
	if c.Database.User != "" {
		if c.Database.Password != "" {
			u.User = url.UserPassword(c.Database.User, c.Database.Password)
		} else {
			u.User = url.User(c.Database.User)
		}
	}
	if c.Database.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {c.Database.SSLMode}}.Encode()
	}
	return u.String(), nil
}

// HTTPAddress returns :port style string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "10000"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// CacheTTL returns the transaction cache ttl as duration.
func (c *Config) CacheTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return time.Hour
	}
	return time.Duration(c.Redis.TTL) * time.Second
}

// Location resolves the timezone receipt timestamps are printed in.
func (c *Config) Location() (*time.Location, error) {
	tz := strings.TrimSpace(c.Receipt.Timezone)
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("config: receipt timezone: %w", err)
	}
	return loc, nil
}
