package commands

import (
	"context"

	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/configutil"
	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/scrapers/graphy"
	"github.com/VigyanShaala-Tech/graphy-assignment-scraper/lib/serviceutil"
)

// the "meta" sentinel in the assignment id list routes a scrape run to
// the metadata exporter instead.
const metaSentinel = "meta"

type GraphyConfig struct {
	BaseUrl       string   `json:"base_url"`
	Email         string   `json:"email"`
	Password      string   `json:"password"`
	AssignmentIds []string `json:"assignment_ids"`
}

type SupabaseConfig struct {
	Url    string `json:"url"`
	Key    string `json:"key"`
	Table  string `json:"table"`
	Schema string `json:"schema"`
}

type Config struct {
	// "scrape-only" or "scrape-and-upload"
	Mode       string         `json:"mode"`
	OutputDir  string         `json:"output_dir"`
	RosterPath string         `json:"roster_path"`
	BatchSize  int            `json:"batch_size"`
	Graphy     GraphyConfig   `json:"graphy_assignment_scraper"`
	Supabase   SupabaseConfig `json:"supabase"`
}

func loadConfig() Config {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil {
		serviceutil.Fatal("read config", err)
	}
	if cfg.Mode == "" {
		cfg.Mode = "scrape-and-upload"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "output/graphy/assignments"
	}
	if cfg.RosterPath == "" {
		cfg.RosterPath = "output/TSTT 7.0.xlsx"
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 50
	}
	if cfg.Graphy.BaseUrl == "" {
		cfg.Graphy.BaseUrl = "https://mytribe.vigyanshaala.com"
	}
	return cfg
}

// login builds a client and authenticates it. A rejected login is
// fatal, the run never proceeds unauthenticated.
func login(ctx context.Context, cfg Config) *graphy.Client {
	client, err := graphy.NewClient(graphy.ClientOptions{BaseUrl: cfg.Graphy.BaseUrl})
	if err != nil {
		serviceutil.Fatal("initialize graphy client", err)
	}
	err = client.Login(ctx, cfg.Graphy.Email, cfg.Graphy.Password)
	if err != nil {
		serviceutil.Fatal("login to graphy", err)
	}
	return client
}
