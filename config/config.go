package config

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

type Config struct {
	BackupFolderPath string `json:"backupFolderPath"`
	SupplierCSVPath  string `json:"supplierCSVPath"`
	DefaultStatus    string `json:"defaultStatus"`
	PortalUserID     string `json:"portalUserID"`
	PortalPassword   string `json:"portalPassword"`
}

// Credentials are the record-platform secrets, loaded from .env so they
// never land in the JSON config file.
type Credentials struct {
	BaseURL string
	AppName string
	Token   string
}

var (
	cfg Config
	mu  sync.RWMutex
)

const configFilePath = "./pdc_config.json"

func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	file, err := os.ReadFile(configFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg = Config{
				DefaultStatus: "Rascunho",
			}
			return cfg, nil
		}
		return Config{}, err
	}

	var tempCfg Config
	if err := json.Unmarshal(file, &tempCfg); err != nil {
		return Config{}, err
	}
	cfg = tempCfg

	if cfg.DefaultStatus == "" {
		cfg.DefaultStatus = "Rascunho"
	}

	return cfg, nil
}

func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	if newCfg.DefaultStatus == "" {
		newCfg.DefaultStatus = "Rascunho"
	}

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

// LoadCredentials reads the platform credentials from the environment,
// loading a local .env first when one exists.
func LoadCredentials() Credentials {
	_ = godotenv.Load()
	return Credentials{
		BaseURL: envOr("CREATOR_BASE_URL", "https://app.zohocreator.com"),
		AppName: envOr("CREATOR_APP_NAME", "compras"),
		Token:   os.Getenv("CREATOR_TOKEN"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
