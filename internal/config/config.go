package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ChatBotToken  string
	UpstreamToken string
	UpstreamRepo  string
	GitHubAPIURL  string
	Port          string
	MongoDBURI    string
	DatabaseName  string
}

var required = []string{
	"CHAT_BOT_TOKEN",
	"UPSTREAM_TOKEN",
	"UPSTREAM_REPO",
}

// Load reads the configuration and exits the process if it is incomplete.
func Load() *Config {
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

// FromEnv builds a Config from the current environment.
func FromEnv() (*Config, error) {
	var missing []string
	for _, key := range required {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	cfg := &Config{
		ChatBotToken:  os.Getenv("CHAT_BOT_TOKEN"),
		UpstreamToken: os.Getenv("UPSTREAM_TOKEN"),
		UpstreamRepo:  strings.TrimSpace(os.Getenv("UPSTREAM_REPO")),
		GitHubAPIURL:  os.Getenv("GITHUB_API_URL"),
		Port:          getEnv("PORT", "8080"),
		MongoDBURI:    os.Getenv("MONGODB_URI"),
		DatabaseName:  getEnv("DATABASE_NAME", "devops_bot"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be caught by a presence test.
func (c *Config) Validate() error {
	owner, name, ok := strings.Cut(c.UpstreamRepo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("UPSTREAM_REPO must be in format owner/repo, got: %q", c.UpstreamRepo)
	}
	if c.GitHubAPIURL != "" && !strings.HasPrefix(c.GitHubAPIURL, "http://") && !strings.HasPrefix(c.GitHubAPIURL, "https://") {
		return fmt.Errorf("GITHUB_API_URL must include a scheme, got: %q", c.GitHubAPIURL)
	}
	return nil
}

// RegistryEnabled reports whether chats should be recorded in MongoDB.
func (c *Config) RegistryEnabled() bool {
	return c.MongoDBURI != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
