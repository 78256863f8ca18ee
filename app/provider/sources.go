package provider

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SourceConfig describes one RSS source configuration file.
type SourceConfig struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
	Enabled  bool   `yaml:"enabled"`
}

// LoadSources loads all RSS source definitions from yaml files in dir.
// A missing directory is not an error; disabled sources are skipped.
func LoadSources(dir, userAgent string) ([]Source, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YAML files: %w", err)
	}

	ymlFiles, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find YML files: %w", err)
	}
	files = append(files, ymlFiles...)

	var sources []Source
	for _, file := range files {
		config, err := loadSourceFile(file)
		if err != nil {
			return nil, fmt.Errorf("error loading %s: %w", file, err)
		}

		if !config.Enabled {
			slog.Debug("RSS source disabled, skipping", "source", config.Name)
			continue
		}

		sources = append(sources, NewRSSSource(config.Name, config.URL, config.Category, userAgent))
		slog.Info("Loaded RSS source", "source", config.Name, "url", config.URL)
	}

	return sources, nil
}

func loadSourceFile(path string) (*SourceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config SourceConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if config.Name == "" {
		return nil, fmt.Errorf("source name is required")
	}
	if config.URL == "" {
		return nil, fmt.Errorf("source url is required")
	}
	if config.Category == "" {
		config.Category = "General"
	}

	return &config, nil
}
