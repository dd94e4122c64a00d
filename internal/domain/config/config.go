package config

import (
	"errors"
	"io/fs"
	"net"
	"net/url"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	domainerr "redimaq/internal/domain/errors"
)

type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Build    BuildConfig    `yaml:"build"`
	Server   ServerConfig   `yaml:"server"`
	Contact  ContactConfig  `yaml:"contact"`
	Carousel CarouselConfig `yaml:"carousel"`
}

type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	SiteURL     string `yaml:"site_url"`
	Theme       string `yaml:"theme"`
	Language    string `yaml:"language"`
}

type BuildConfig struct {
	// 为空时使用内置内容 / 主题
	ContentDir string    `yaml:"content_dir"`
	ThemeDir   string    `yaml:"theme_dir"`
	PublicDir  string    `yaml:"public_dir"`
	Now        time.Time `yaml:"-"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	IndexPath string `yaml:"index_path"`
	Dev       bool   `yaml:"dev"`
	// live connections per minute per client address
	LiveRate  int `yaml:"live_rate"`
	LiveBurst int `yaml:"live_burst"`
}

type ContactConfig struct {
	Address     string `yaml:"address"`
	Phone       string `yaml:"phone"`
	WhatsApp    string `yaml:"whatsapp"`
	Email       string `yaml:"email"`
	Instagram   string `yaml:"instagram"`
	LinkedIn    string `yaml:"linkedin"`
	MapEmbedURL string `yaml:"map_embed_url"`
}

type CarouselConfig struct {
	HeroInterval    time.Duration `yaml:"hero_interval"`
	CompareInterval time.Duration `yaml:"compare_interval"`
}

const defaultMapEmbed = "https://www.google.com/maps/embed?pb=!1m18!1m12!1m3!1d3584.953595913553!2d-52.67839502380119!3d-26.03517685619443!2m3!1f0!2f0!3f0!3m2!1i1024!2i768!4f13.1!3m3!1m2!1s0x94f0495513883c47%3A0x5ea5a4ca6207ff30!2sR.%20Caramuru%2C%20167%20-%20Centro%2C%20Pato%20Branco%20-%20PR%2C%2085501-064!5e0!3m2!1spt-BR!2sbr!4v1717800533351!5m2!1spt-BR!2sbr"

func Default() Config {
	return Config{
		Site: SiteConfig{
			Title:       "Redimaq - Móveis para Escritório",
			Description: "Redimaq Equipamentos - Soluções completas em móveis e equipamentos para escritório",
			SiteURL:     "http://localhost:8080",
			Theme:       "redimaq",
			Language:    "pt-BR",
		},
		Build: BuildConfig{
			PublicDir: "public",
			Now:       time.Now(),
		},
		Server: ServerConfig{
			Addr:      ":8080",
			IndexPath: ".redimaq/index.db",
			LiveRate:  30,
			LiveBurst: 5,
		},
		Contact: ContactConfig{
			Address:     "R. Caramuru, 167 - Centro, Pato Branco - PR, 85501-064",
			Phone:       "(46) 98401-8404",
			WhatsApp:    "5546984018404",
			Email:       "contato@redimaq.com.br",
			Instagram:   "https://www.instagram.com/redimaqequipamentos",
			LinkedIn:    "https://www.linkedin.com/company/redimaq-móveis-para-escritório/posts/",
			MapEmbedURL: defaultMapEmbed,
		},
		Carousel: CarouselConfig{
			HeroInterval:    5000 * time.Millisecond,
			CompareInterval: 3000 * time.Millisecond,
		},
	}
}

var digitsOnly = regexp.MustCompile(`^[0-9]+$`)

func (c Config) Validate() error {
	var ve domainerr.ValidationError

	if strings.TrimSpace(c.Site.Title) == "" {
		ve.Add("site.title", "must not be empty")
	}
	if strings.TrimSpace(c.Site.SiteURL) == "" {
		ve.Add("site.site_url", "must not be empty")
	} else if !isValidAbsURL(c.Site.SiteURL) {
		ve.Add("site.site_url", "must be a valid absolute URL")
	}
	if strings.TrimSpace(c.Site.Theme) == "" {
		ve.Add("site.theme", "must not be empty")
	}

	if strings.TrimSpace(c.Build.PublicDir) == "" {
		ve.Add("build.public_dir", "must not be empty")
	}

	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		ve.Addf("server.addr", "must be host:port (%v)", err)
	}
	if strings.TrimSpace(c.Server.IndexPath) == "" {
		ve.Add("server.index_path", "must not be empty")
	}
	if c.Server.LiveRate <= 0 {
		ve.Add("server.live_rate", "must be positive")
	}
	if c.Server.LiveBurst <= 0 {
		ve.Add("server.live_burst", "must be positive")
	}

	if !digitsOnly.MatchString(c.Contact.WhatsApp) {
		ve.Add("contact.whatsapp", "must contain only digits (country code + number)")
	}
	if strings.TrimSpace(c.Contact.Phone) == "" {
		ve.Add("contact.phone", "must not be empty")
	}

	if c.Carousel.HeroInterval <= 0 {
		ve.Add("carousel.hero_interval", "must be positive")
	}
	if c.Carousel.CompareInterval <= 0 {
		ve.Add("carousel.compare_interval", "must be positive")
	}

	return ve.Err()
}

func isValidAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return u.Host != ""
}

func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	// 文件中写到的字段覆盖默认值，其他字段保留 Default
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Build.Now.IsZero() {
		cfg.Build.Now = time.Now()
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadOrDefault is Load, except a missing file yields the defaults.
func LoadOrDefault(path string) (Config, error) {
	cfg, err := Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		cfg = Default()
		return cfg, cfg.Validate()
	}
	return cfg, err
}

// LoadEnv reads a dotenv file into the process environment. A missing file is
// not an error; variables already set win.
func LoadEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

const (
	EnvAddr       = "REDIMAQ_ADDR"
	EnvConfig     = "REDIMAQ_CONFIG"
	EnvContentDir = "REDIMAQ_CONTENT_DIR"
	EnvDev        = "REDIMAQ_DEV"
)

// ApplyEnv overlays REDIMAQ_* variables onto cfg.
func ApplyEnv(cfg Config, getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := strings.TrimSpace(getenv(EnvAddr)); v != "" {
		cfg.Server.Addr = v
	}
	if v := strings.TrimSpace(getenv(EnvContentDir)); v != "" {
		cfg.Build.ContentDir = v
	}
	if v := strings.TrimSpace(getenv(EnvDev)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Server.Dev = b
		}
	}
	return cfg
}
