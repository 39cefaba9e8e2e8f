package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the application configuration.
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	Spoonacular SpoonacularConfig `mapstructure:"spoonacular"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Notion      NotionConfig      `mapstructure:"notion"`
	Planner     PlannerConfig     `mapstructure:"planner"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Ntfy        NtfyConfig        `mapstructure:"ntfy"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	DedupWindow time.Duration     `mapstructure:"dedup_window"`
	LogLevel    string            `mapstructure:"log_level"`
}

// AppConfig holds process-level settings.
type AppConfig struct {
	Env      string `mapstructure:"env"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Version  string `mapstructure:"version"`
	Name     string `mapstructure:"name"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// SpoonacularConfig holds the recipe-search API settings. Extra keys are
// tried in order when the primary key runs out of daily quota.
type SpoonacularConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	APIKey2 string        `mapstructure:"api_key2"`
	APIKey3 string        `mapstructure:"api_key3"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	UseMock bool          `mapstructure:"use_mock"`
}

// Keys returns the configured API keys in fallback order.
func (c SpoonacularConfig) Keys() []string {
	var keys []string
	for _, k := range []string{c.APIKey, c.APIKey2, c.APIKey3} {
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// LLMConfig holds the chat-completions API settings.
type LLMConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// NotionConfig holds the workspace API settings and database ids.
type NotionConfig struct {
	Token          string        `mapstructure:"token"`
	RecipesDB      string        `mapstructure:"recipes_db"`
	GroceriesDB    string        `mapstructure:"groceries_db"`
	StockDB        string        `mapstructure:"stock_db"`
	MealPlanDB     string        `mapstructure:"mealplan_db"`
	RecipesViewURL string        `mapstructure:"recipes_view_url"`
	CoursesViewURL string        `mapstructure:"courses_view_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// PlannerConfig holds the weekly planning knobs.
type PlannerConfig struct {
	Diet              string  `mapstructure:"diet"`
	Lang              string  `mapstructure:"lang"`
	MaxReadyMinutes   int     `mapstructure:"max_ready_minutes"`
	CandidateCount    int     `mapstructure:"candidate_count"`
	FinalCount        int     `mapstructure:"final_count"`
	TargetCalories    int     `mapstructure:"target_calories"`
	FuzzyThreshold    float64 `mapstructure:"fuzzy_threshold"`
	ArtifactDir       string  `mapstructure:"artifact_dir"`
	StockPath         string  `mapstructure:"stock_path"`
	PortionsPerRecipe int     `mapstructure:"portions_per_recipe"`
}

// CacheConfig holds the LLM response cache settings.
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	RedisAddr string        `mapstructure:"redis_addr"`
	RedisDB   int           `mapstructure:"redis_db"`
	Password  string        `mapstructure:"password"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// NtfyConfig holds the push notification settings.
type NtfyConfig struct {
	Topic    string `mapstructure:"topic"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	BaseURL  string `mapstructure:"base_url"`
}

// RateLimitConfig holds the API rate limiter settings.
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LoadConfig reads .env, applies defaults and env bindings, and validates
// the result.
func LoadConfig() (*Config, error) {
	// A missing .env is fine in deployed environments.
	_ = godotenv.Load()

	setDefaults()

	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.BindEnv("spoonacular.api_key", "SPOONACULAR_API_KEY")
	viper.BindEnv("spoonacular.api_key2", "SPOONACULAR_API_KEY2")
	viper.BindEnv("spoonacular.api_key3", "SPOONACULAR_API_KEY3")
	viper.BindEnv("spoonacular.use_mock", "USE_MOCK_DATA")
	viper.BindEnv("llm.api_key", "OPENAI_API_KEY")
	viper.BindEnv("llm.model", "OPENAI_MODEL")
	viper.BindEnv("notion.token", "NOTION_TOKEN")
	viper.BindEnv("notion.recipes_db", "NOTION_RECIPES_DB")
	viper.BindEnv("notion.groceries_db", "NOTION_GROCERIES_DB")
	viper.BindEnv("notion.stock_db", "NOTION_STOCK_DB")
	viper.BindEnv("notion.mealplan_db", "NOTION_MEALPLAN_DB")
	viper.BindEnv("notion.recipes_view_url", "NOTION_RECIPES_VIEW_URL")
	viper.BindEnv("notion.courses_view_url", "NOTION_COURSES_VIEW_URL")
	viper.BindEnv("planner.diet", "DIET")
	viper.BindEnv("planner.lang", "PLANNER_LANG")
	viper.BindEnv("planner.max_ready_minutes", "MAX_READY_MIN")
	viper.BindEnv("planner.candidate_count", "N_RECIPES_CANDIDATES")
	viper.BindEnv("planner.final_count", "N_RECIPES_FINAL")
	viper.BindEnv("planner.target_calories", "TARGET_CALORIES")
	viper.BindEnv("cache.enabled", "CACHE_ENABLED")
	viper.BindEnv("cache.redis_addr", "REDIS_ADDR")
	viper.BindEnv("cache.password", "REDIS_PASSWORD")
	viper.BindEnv("ntfy.topic", "NTFY_TOPIC")
	viper.BindEnv("ntfy.user", "NTFY_USER")
	viper.BindEnv("ntfy.password", "NTFY_PASS")
	viper.BindEnv("rate_limit.enabled", "RATE_LIMIT_ENABLED")
	viper.BindEnv("rate_limit.requests", "RATE_LIMIT_REQUESTS")
	viper.BindEnv("rate_limit.window", "RATE_LIMIT_WINDOW")
	viper.BindEnv("dedup_window", "DEDUP_WINDOW")
	viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// The logger is not up yet, so plain stdout.
	fmt.Println("Loading configuration",
		"spoonacular_api_key:", maskAPIKey(viper.GetString("spoonacular.api_key")),
		"llm_model:", viper.GetString("llm.model"),
		"notion_token:", maskAPIKey(viper.GetString("notion.token")))

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// maskAPIKey keeps only the first and last four characters of a secret.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func setDefaults() {
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.debug", true)
	viper.SetDefault("app.log_level", "info")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.name", "meal-planner")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	viper.SetDefault("spoonacular.base_url", "https://api.spoonacular.com")
	viper.SetDefault("spoonacular.timeout", "30s")
	viper.SetDefault("spoonacular.use_mock", false)

	viper.SetDefault("llm.base_url", "https://api.openai.com/v1")
	viper.SetDefault("llm.model", "gpt-4o-mini")
	viper.SetDefault("llm.max_tokens", 2000)
	viper.SetDefault("llm.timeout", "60s")

	viper.SetDefault("notion.timeout", "30s")

	viper.SetDefault("planner.diet", "high-protein")
	viper.SetDefault("planner.lang", "fr")
	viper.SetDefault("planner.max_ready_minutes", 45)
	viper.SetDefault("planner.candidate_count", 70)
	viper.SetDefault("planner.final_count", 6)
	viper.SetDefault("planner.target_calories", 2100)
	viper.SetDefault("planner.fuzzy_threshold", 0.88)
	viper.SetDefault("planner.artifact_dir", "data")
	viper.SetDefault("planner.stock_path", "data/stock.json")
	viper.SetDefault("planner.portions_per_recipe", 2)

	viper.SetDefault("cache.enabled", false)
	viper.SetDefault("cache.redis_addr", "localhost:6379")
	viper.SetDefault("cache.redis_db", 0)
	viper.SetDefault("cache.ttl", "24h")

	viper.SetDefault("ntfy.base_url", "https://ntfy.sh")

	viper.SetDefault("rate_limit.enabled", true)
	viper.SetDefault("rate_limit.requests", 100)
	viper.SetDefault("rate_limit.window", "1m")

	viper.SetDefault("dedup_window", "1s")
}

func validateConfig(config *Config) error {
	if config.Server.Port == 0 {
		return fmt.Errorf("server port is required")
	}

	if config.Planner.FinalCount <= 0 {
		return fmt.Errorf("invalid planner final count")
	}
	if config.Planner.CandidateCount < config.Planner.FinalCount {
		return fmt.Errorf("candidate count must be at least the final count")
	}
	if config.Planner.FuzzyThreshold <= 0 || config.Planner.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzy threshold must be in (0, 1]")
	}

	if config.Cache.Enabled {
		if config.Cache.RedisAddr == "" {
			return fmt.Errorf("cache enabled but redis addr missing")
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	return nil
}
