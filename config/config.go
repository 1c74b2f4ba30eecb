package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Environment variables consumed by the tool. The first three are required;
// the run aborts before touching any file or the network if one is missing.
const (
	EnvRepoOwnerAndName = "SOURCE_GITHUB_REPO_OWNER_AND_NAME"
	EnvRepoDir          = "MAIN_REPO_DIR"
	EnvBinaryDir        = "BINARY_PATH"

	EnvGithubToken = "GITHUB_TOKEN"
	EnvAPIBaseURL  = "GITHUB_API_URL"
)

// Config is the resolved run context. It is built once from the environment
// and the optional settings file and is read-only afterwards.
type Config struct {
	RepoOwnerAndName string
	RepoDir          string
	BinaryDir        string
	Token            string
	APIBaseURL       string
	UploadChecksums  bool
}

// Settings is the optional on-disk configuration.
type Settings struct {
	GithubTokenPath string `json:"github_token_path"`
	UploadChecksums bool   `json:"upload_checksums"`
}

// DefaultSettings returns the default settings
func DefaultSettings() Settings {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "~"
	}
	return Settings{
		GithubTokenPath: filepath.Join(homeDir, ".github", "token"),
	}
}

// FromEnv resolves the full run configuration. Required variables are
// checked first so a misconfigured run fails before any other side effect.
func FromEnv() (Config, error) {
	repoOwnerAndName, err := requireEnv(EnvRepoOwnerAndName)
	if err != nil {
		return Config{}, err
	}
	repoDir, err := requireEnv(EnvRepoDir)
	if err != nil {
		return Config{}, err
	}
	binaryDir, err := requireEnv(EnvBinaryDir)
	if err != nil {
		return Config{}, err
	}

	settings, err := LoadSettings()
	if err != nil {
		settings = DefaultSettings()
	}

	token, err := resolveToken(settings)
	if err != nil {
		return Config{}, err
	}

	return Config{
		RepoOwnerAndName: repoOwnerAndName,
		RepoDir:          repoDir,
		BinaryDir:        binaryDir,
		Token:            token,
		APIBaseURL:       strings.TrimSpace(os.Getenv(EnvAPIBaseURL)),
		UploadChecksums:  settings.UploadChecksums,
	}, nil
}

func requireEnv(name string) (string, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return "", fmt.Errorf("required environment variable %s is not set", name)
	}
	return value, nil
}

// resolveToken prefers the GITHUB_TOKEN environment variable and falls back
// to the token file named by the settings.
func resolveToken(settings Settings) (string, error) {
	if token := strings.TrimSpace(os.Getenv(EnvGithubToken)); token != "" {
		return token, nil
	}

	raw, err := os.ReadFile(settings.GithubTokenPath)
	if err != nil {
		return "", fmt.Errorf("no GitHub token: %s is not set and token file is unreadable: %w", EnvGithubToken, err)
	}

	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", settings.GithubTokenPath)
	}
	return token, nil
}

// LoadSettings loads the settings from the settings file, creating it with
// defaults on first use.
func LoadSettings() (Settings, error) {
	settingsPath := getSettingsPath()

	if _, err := os.Stat(settingsPath); os.IsNotExist(err) {
		return createDefaultSettings()
	}

	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error parsing settings file: %w", err)
	}

	return settings, nil
}

// SaveSettings saves the settings to the settings file
func SaveSettings(settings Settings) error {
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling settings: %w", err)
	}

	settingsPath := getSettingsPath()
	if err := os.MkdirAll(filepath.Dir(settingsPath), 0o755); err != nil {
		return fmt.Errorf("error creating settings directory: %w", err)
	}

	if err := os.WriteFile(settingsPath, data, 0o600); err != nil {
		return fmt.Errorf("error writing settings file: %w", err)
	}

	return nil
}

// getSettingsPath returns the path to the settings file
func getSettingsPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, "update-release", "config.json")
}

// createDefaultSettings creates a new settings file with default values
func createDefaultSettings() (Settings, error) {
	settings := DefaultSettings()
	if err := SaveSettings(settings); err != nil {
		return settings, err
	}
	return settings, nil
}
