// README: Config loader with env defaults for HTTP, history DB, dataset, and AI settings.
package config

import (
	"os"
	"strconv"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	Dataset struct {
		// File is an optional workbook loaded at startup; empty means
		// the dataset is loaded later over the API.
		File            string
		SuggestionLimit int
	}
	History struct {
		Path string
	}
	AI struct {
		// GeminiKey may be empty; answers then degrade to the
		// evidence-backed fallback text.
		GeminiKey string
	}
}

func Load() (Config, error) {
	var cfg Config
	cfg.HTTP.Addr = envOrDefault("FETII_HTTP_ADDR", ":8080")
	cfg.Dataset.File = envOrDefault("FETII_DATA_FILE", "")
	cfg.Dataset.SuggestionLimit = envOrDefaultInt("FETII_SUGGESTION_LIMIT", 10)
	cfg.History.Path = envOrDefault("FETII_HISTORY_DB", "fetii_history.db")
	cfg.AI.GeminiKey = envOrDefault("GEMINI_API_KEY", "")
	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
