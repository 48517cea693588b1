package config

import (
	"encoding/json"
	"os"
	"sync"
)

type Config struct {
	Port               int    `json:"port"`
	DatabasePath       string `json:"databasePath"`
	BaseURL            string `json:"baseUrl"`
	OpenBrowserOnStart bool   `json:"openBrowserOnStart"`
	HeadlessPDF        bool   `json:"headlessPdf"`
	SessionTTLHours    int    `json:"sessionTtlHours"`
}

var (
	cfg Config
	mu  sync.RWMutex
)

const configFilePath = "./renta_config.json"

func defaults() Config {
	return Config{
		Port:               8080,
		DatabasePath:       "./renta.db",
		BaseURL:            "http://localhost:8080",
		OpenBrowserOnStart: true,
		HeadlessPDF:        true,
		SessionTTLHours:    72,
	}
}

func applyDefaults(c *Config) {
	d := defaults()
	if c.Port == 0 {
		c.Port = d.Port
	}
	if c.DatabasePath == "" {
		c.DatabasePath = d.DatabasePath
	}
	if c.BaseURL == "" {
		c.BaseURL = d.BaseURL
	}
	if c.SessionTTLHours == 0 {
		c.SessionTTLHours = d.SessionTTLHours
	}
}

func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	file, err := os.ReadFile(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = defaults()
			return cfg, nil
		}
		return Config{}, err
	}

	var tempCfg Config
	if err := json.Unmarshal(file, &tempCfg); err != nil {
		return Config{}, err
	}
	applyDefaults(&tempCfg)
	cfg = tempCfg
	return cfg, nil
}

func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	applyDefaults(&newCfg)

	file, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(configFilePath, file, 0644); err != nil {
		return err
	}
	cfg = newCfg
	return nil
}

func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}
