package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// The collector and the operator console both read the same database path so
// they operate on the same store file.
type Config struct {
	DatabasePath  string
	CSVOutputPath string

	SearchTerm    string
	MaxPages      int
	SettleSeconds int
	CaptchaWaitS  int
	ElementWaitS  int

	ChromeBin       string
	ChromeDebugAddr string

	ExportDir string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		DatabasePath:  getEnv("DB_PATH", "phone_sales.db"),
		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "output.csv"),

		SearchTerm:    getEnv("SEARCH_TERM", "手机"),
		MaxPages:      getEnvInt("MAX_PAGES", 10),
		SettleSeconds: getEnvInt("SETTLE_SECONDS", 5),
		CaptchaWaitS:  getEnvInt("CAPTCHA_WAIT_SECONDS", 30),
		ElementWaitS:  getEnvInt("ELEMENT_WAIT_SECONDS", 60),

		ChromeBin:       getEnv("CHROME_BIN", ""),
		ChromeDebugAddr: getEnv("CHROME_DEBUG_ADDR", ""),

		ExportDir: getEnv("EXPORT_DIR", "."),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
