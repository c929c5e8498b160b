package supabase

import (
	"appforge-backend/internal/config"
	"github.com/supabase-community/supabase-go"
)

type Client struct {
	Supabase *supabase.Client
	Config   *config.Config
}

// NewClient connects with the service role key; requests are already
// authorized per user by the API before they reach Supabase.
func NewClient(cfg *config.Config) (*Client, error) {
	client, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceRoleKey, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		Supabase: client,
		Config:   cfg,
	}, nil
}
