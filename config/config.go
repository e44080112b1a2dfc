package config

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"
)

// Settings holds the runtime configuration read from the environment.
type Settings struct {
	ListenAddr        string
	ClassifierBaseURL string
	ClassifierToken   string
	ClassifyDebounce  time.Duration
	ReviewDelay       time.Duration
	DailyReportLimit  int
}

var (
	settings *Settings
	once     sync.Once
)

// Load reads the settings once and returns the shared instance
func Load() *Settings {
	once.Do(func() {
		settings = &Settings{
			ListenAddr:        ":" + envOr("PORT", "8080"),
			ClassifierBaseURL: os.Getenv("CLASSIFIER_BASE_URL"),
			ClassifierToken:   os.Getenv("CLASSIFIER_TOKEN"),
			ClassifyDebounce:  envDurationMs("CLASSIFY_DEBOUNCE_MS", 600),
			ReviewDelay:       envDurationMs("REVIEW_DELAY_MS", 700),
			DailyReportLimit:  envInt("DAILY_REPORT_LIMIT", 20),
		}

		if os.Getenv("JWT_SECRET") == "" {
			log.Fatal("Please define the JWT_SECRET environment variable")
		}
		if settings.ClassifierBaseURL == "" {
			log.Println("CLASSIFIER_BASE_URL not set, using the built-in demo classifier")
		}
	})

	return settings
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Invalid value for %s, using default %d", key, fallback)
	}
	return fallback
}

func envDurationMs(key string, fallbackMs int) time.Duration {
	return time.Duration(envInt(key, fallbackMs)) * time.Millisecond
}
