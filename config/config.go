package config

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"tosho/parser"
)

// Settings holds the user-tunable knobs of the downloader.
type Settings struct {
	// UserAgent is sent as the client identity header on every fetch.
	UserAgent string `json:"user_agent"`

	// RateLimitMs is the minimum spacing between page fetches.
	RateLimitMs int `json:"rate_limit_ms"`

	// OutputDir is the base directory book directories are created in.
	OutputDir string `json:"output_dir"`
}

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() *Settings {
	return &Settings{
		UserAgent:   "Chrome 5.0",
		RateLimitMs: 1500,
		OutputDir:   ".",
	}
}

// LoadSettings loads settings from ~/.config/tosho/settings.json, creating a
// template with the defaults on first run. Defaults are returned when the
// file cannot be read.
func LoadSettings() *Settings {
	settingsLocation, err := verifyConfigFiles()
	if err != nil {
		log.Printf("error verifying config files: %v", err)
		return DefaultSettings()
	}

	file, err := os.Open(settingsLocation)
	if err != nil {
		log.Printf("error loading settings file: %v", err)
		return DefaultSettings()
	}
	defer file.Close()

	byteValues, err := io.ReadAll(file)
	if err != nil {
		log.Printf("error reading settings file: %v", err)
		return DefaultSettings()
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(byteValues, settings); err != nil {
		log.Printf("error unmarshalling settings: %v", err)
		return DefaultSettings()
	}

	return settings
}

// SaveSettings writes settings to ~/.config/tosho/settings.json.
func SaveSettings(settings *Settings) error {
	configDir, err := verifyConfigDirectory()
	if err != nil {
		return fmt.Errorf("error verifying config directory: %w", err)
	}

	settingsFile := filepath.Join(configDir, "settings.json")

	jsonData, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(settingsFile, jsonData, 0644)
}

// check config directory exists or create it
func verifyConfigDirectory() (string, error) {
	configDirectory, expandError := parser.ExpandPath("~/.config/tosho")
	if expandError != nil {
		return "", fmt.Errorf("cannot verify local configuration directory: %w", expandError)
	}

	_, err := os.Stat(configDirectory)

	if os.IsNotExist(err) {
		if err := os.MkdirAll(configDirectory, 0755); err != nil {
			return "", fmt.Errorf("error creating directory %s: %w", configDirectory, err)
		}
		log.Printf("Directory %s created successfully.\n", configDirectory)
	} else if err != nil {
		return "", fmt.Errorf("error checking directory %s: %w", configDirectory, err)
	}

	return configDirectory, nil
}

// check config files exist or create them
func verifyConfigFiles() (string, error) {
	configDir, err := verifyConfigDirectory()
	if err != nil {
		return "", err
	}

	settingsFile := filepath.Join(configDir, "settings.json")

	_, err = os.Stat(settingsFile)

	if os.IsNotExist(err) {
		log.Printf("Settings file not found, creating template at '%s'\n", settingsFile)

		if saveErr := SaveSettings(DefaultSettings()); saveErr != nil {
			return "", fmt.Errorf("error creating settings file: %w", saveErr)
		}
		log.Printf("File '%s' created successfully.\n", settingsFile)

	} else if err != nil {
		return "", fmt.Errorf("error checking file existence: %w", err)
	}

	return settingsFile, nil
}
