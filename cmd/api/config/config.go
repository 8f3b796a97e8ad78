package config

import "time"

type Config struct {
	DailyGenerationLimit int
	GuestGenerationLimit int
	CooldownPeriod       time.Duration
	CacheTTL             time.Duration
	MaxHistoryItems      int
	RequestsPerMinute    int
	GuestSweepInterval   time.Duration
	GuestEntryMaxAge     time.Duration
	GenerationModel      string
	MaxOutputTokens      int32
}

func NewConfig() *Config {
	return &Config{
		DailyGenerationLimit: 10,
		GuestGenerationLimit: 1,
		CooldownPeriod:       10 * time.Second,
		CacheTTL:             5 * time.Minute,
		MaxHistoryItems:      20,
		RequestsPerMinute:    30,
		GuestSweepInterval:   1 * time.Hour,
		GuestEntryMaxAge:     48 * time.Hour,
		GenerationModel:      "gemini-2.5-flash",
		MaxOutputTokens:      1024,
	}
}
