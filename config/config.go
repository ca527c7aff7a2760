package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	defaultPort    = "8080"
	defaultOrigin  = "http://localhost:3000"
	defaultDataDir = "dashboard/data-dashboard"
)

type Config struct {
	Port           string
	GinMode        string
	FrontendOrigin string
	DataDir        string
	Files          Files
}

// Files maps each dataset to its file name inside DataDir.
type Files struct {
	CustomerCounts  string `yaml:"customer_counts"`
	SellerCounts    string `yaml:"seller_counts"`
	PaymentPivot    string `yaml:"payment_pivot"`
	TopPerState     string `yaml:"top_per_state"`
	RFMAnalysis     string `yaml:"rfm_analysis"`
	MergedReviews   string `yaml:"merged_reviews"`
	MergedPayments  string `yaml:"merged_payments"`
	StateBoundaries string `yaml:"state_boundaries"`
}

// Manifest is the optional YAML file named by DASHBOARD_MANIFEST.
type Manifest struct {
	DataDir string `yaml:"data_dir"`
	Files   Files  `yaml:"files"`
}

func DefaultFiles() Files {
	return Files{
		CustomerCounts:  "customer_counts.csv",
		SellerCounts:    "seller_counts.csv",
		PaymentPivot:    "payment_pivot.csv",
		TopPerState:     "top_per_state.csv",
		RFMAnalysis:     "rfm_analysis.csv",
		MergedReviews:   "merged_reviews.csv",
		MergedPayments:  "merged_payments.csv",
		StateBoundaries: "brazil-states.geojson",
	}
}

// Load builds the configuration from the environment. .env loading is left to main.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           os.Getenv("PORT"),
		GinMode:        os.Getenv("GIN_MODE"),
		FrontendOrigin: os.Getenv("FE_ORIGIN"),
		DataDir:        os.Getenv("DASHBOARD_DATA_DIR"),
		Files:          DefaultFiles(),
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.FrontendOrigin == "" {
		cfg.FrontendOrigin = defaultOrigin
	}

	if path := os.Getenv("DASHBOARD_MANIFEST"); path != "" {
		m, err := LoadManifest(path)
		if err != nil {
			return nil, err
		}
		if m.DataDir != "" && cfg.DataDir == "" {
			// Relative data_dir is resolved against the manifest's own directory.
			cfg.DataDir = m.DataDir
			if !filepath.IsAbs(m.DataDir) {
				cfg.DataDir = filepath.Join(filepath.Dir(path), m.DataDir)
			}
		}
		cfg.Files = cfg.Files.merge(m.Files)
		log.Printf("Loaded dataset manifest from %s", path)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = defaultDataDir
	}
	return cfg, nil
}

func LoadManifest(path string) (*Manifest, error) {
	m := &Manifest{}

	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	if err := yaml.Unmarshal(file, m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	return m, nil
}

// Path joins a file name with the data directory.
func (c *Config) Path(name string) string {
	return filepath.Join(c.DataDir, name)
}

func (f Files) merge(o Files) Files {
	pick := func(cur, override string) string {
		if override != "" {
			return override
		}
		return cur
	}
	return Files{
		CustomerCounts:  pick(f.CustomerCounts, o.CustomerCounts),
		SellerCounts:    pick(f.SellerCounts, o.SellerCounts),
		PaymentPivot:    pick(f.PaymentPivot, o.PaymentPivot),
		TopPerState:     pick(f.TopPerState, o.TopPerState),
		RFMAnalysis:     pick(f.RFMAnalysis, o.RFMAnalysis),
		MergedReviews:   pick(f.MergedReviews, o.MergedReviews),
		MergedPayments:  pick(f.MergedPayments, o.MergedPayments),
		StateBoundaries: pick(f.StateBoundaries, o.StateBoundaries),
	}
}
