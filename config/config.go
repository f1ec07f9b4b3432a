package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

type AppConfig struct {
	Logging       LoggingConfig       `yaml:"logging"`
	Plan          PlanConfig          `yaml:"plan"`
	Gemini        GeminiConfig        `yaml:"gemini"`
	Site          SiteConfig          `yaml:"site"`
	Images        ImagesConfig        `yaml:"images"`
	Enrichment    EnrichmentConfig    `yaml:"enrichment"`
	SearchConsole SearchConsoleConfig `yaml:"search_console"`

	// Populated from environment, not from config.yaml.
	MongoURI     string `yaml:"-"`
	MongoDBName  string `yaml:"-"`
	KafkaBrokers string `yaml:"-"`
	GeminiAPIKey string `yaml:"-"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// PlanConfig gates monthly idea/draft generation for non-pro installs.
// Limits of 0 or below mean unlimited regardless of tier.
type PlanConfig struct {
	Tier              string `yaml:"tier"` // "free" or "pro"
	MonthlyDraftLimit int    `yaml:"monthly_draft_limit"`
	MonthlyIdeaLimit  int    `yaml:"monthly_idea_limit"`
}

func (p PlanConfig) IsPro() bool {
	return p.Tier == "pro"
}

type GeminiConfig struct {
	Model            string `yaml:"model"`
	FallbackModel    string `yaml:"fallback_model"`
	ImageModel       string `yaml:"image_model"`
	MaxRetries       int    `yaml:"max_retries"`
	BaseDelaySeconds int    `yaml:"base_delay_seconds"`
	TimeoutSeconds   int    `yaml:"timeout_seconds"`
}

// SiteConfig describes the blog whose voice is analyzed into the style guide.
type SiteConfig struct {
	BaseURL          string `yaml:"base_url"`
	RSSURL           string `yaml:"rss_url"`
	AnalyzePostCount int    `yaml:"analyze_post_count"`
}

type ImagesConfig struct {
	Provider string `yaml:"provider"` // generative | pexels | unsplash | pixabay
}

type EnrichmentConfig struct {
	MaxInternalLinks int `yaml:"max_internal_links"`
	FocusKeywords    int `yaml:"focus_keywords"`
}

type SearchConsoleConfig struct {
	SiteURL         string `yaml:"site_url"`
	CredentialsFile string `yaml:"credentials_file"`
	Days            int    `yaml:"days"`
}

var config *AppConfig

func InitApp() {
	// load environment variables
	godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	// load configuration file
	data, err := os.ReadFile(filepath.Join(GetBasePath(), CONFIG_FILE))
	if err != nil {
		panic(err)
	}

	var c AppConfig
	err = yaml.Unmarshal(data, &c)
	if err != nil {
		panic(err)
	}

	c.MongoURI = os.Getenv("MONGO_URI")
	c.MongoDBName = os.Getenv("MONGO_DB_NAME")
	c.KafkaBrokers = os.Getenv("KAFKA_BROKERS")
	c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	applyDefaults(&c)
	config = &c

	InitLogger(c.Logging.Level)
}

func applyDefaults(c *AppConfig) {
	if c.Gemini.MaxRetries <= 0 {
		c.Gemini.MaxRetries = 3
	}
	if c.Gemini.BaseDelaySeconds <= 0 {
		c.Gemini.BaseDelaySeconds = 2
	}
	if c.Gemini.TimeoutSeconds <= 0 {
		c.Gemini.TimeoutSeconds = 60
	}
	if c.Site.AnalyzePostCount <= 0 {
		c.Site.AnalyzePostCount = 5
	}
	if c.Enrichment.MaxInternalLinks <= 0 {
		c.Enrichment.MaxInternalLinks = 3
	}
	if c.Enrichment.FocusKeywords <= 0 {
		c.Enrichment.FocusKeywords = 5
	}
	if c.SearchConsole.Days <= 0 {
		c.SearchConsole.Days = 28
	}
	if c.Images.Provider == "" {
		c.Images.Provider = "pexels"
	}
	if c.Plan.Tier == "" {
		c.Plan.Tier = "free"
	}
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
