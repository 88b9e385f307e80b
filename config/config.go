// Package config loads engine configuration from environment variables
// and the collaborator endpoint map from a YAML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds configuration for the episteme service.
type Config struct {
	ServicePort    string
	ClientMode     string // "local" or "http"
	EndpointsFile  string
	ArchiveDir     string
	MaxRetries     int
	CausalFloor    float64
	Druggability   float64
	Similarity     float64
	GapConcurrency int
	RequestTimeout time.Duration
	LogLevel       string
	LogFormat      string
	JaegerEndpoint string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		ServicePort:    getEnv("EPISTEME_PORT", "8080"),
		ClientMode:     getEnv("EPISTEME_CLIENT_MODE", "local"),
		EndpointsFile:  getEnv("EPISTEME_ENDPOINTS_FILE", ""),
		ArchiveDir:     getEnv("EPISTEME_ARCHIVE_DIR", ""),
		MaxRetries:     getEnvInt("EPISTEME_MAX_RETRIES", 3),
		CausalFloor:    getEnvFloat("EPISTEME_CAUSAL_FLOOR", 0.5),
		Druggability:   getEnvFloat("EPISTEME_DRUGGABILITY_THRESHOLD", 0.5),
		Similarity:     getEnvFloat("EPISTEME_SIMILARITY_THRESHOLD", 0.75),
		GapConcurrency: getEnvInt("EPISTEME_GAP_CONCURRENCY", 1),
		RequestTimeout: getEnvDuration("EPISTEME_REQUEST_TIMEOUT", "30s"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", ""),
	}
}

// Endpoints maps each collaborator service to its base URL.
type Endpoints struct {
	Graph        string `yaml:"graph"`
	Ontology     string `yaml:"ontology"`
	Druggability string `yaml:"druggability"`
	Literature   string `yaml:"literature"`
	Simulation   string `yaml:"simulation"`
	Provenance   string `yaml:"provenance"`
}

// LoadEndpoints parses a YAML endpoint map and checks every
// collaborator has a base URL.
func LoadEndpoints(path string) (*Endpoints, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read endpoints file: %w", err)
	}
	var eps Endpoints
	if err := yaml.Unmarshal(data, &eps); err != nil {
		return nil, fmt.Errorf("parse endpoints file: %w", err)
	}
	for name, url := range map[string]string{
		"graph":        eps.Graph,
		"ontology":     eps.Ontology,
		"druggability": eps.Druggability,
		"literature":   eps.Literature,
		"simulation":   eps.Simulation,
		"provenance":   eps.Provenance,
	} {
		if url == "" {
			return nil, fmt.Errorf("endpoints file %s: missing %s url", path, name)
		}
	}
	return &eps, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable with a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default value
func getEnvDuration(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
