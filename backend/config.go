package main

import "sync"

type Config struct {
	AiStrategy      string `json:"ai_strategy"`
	AiDepth         int    `json:"ai_depth"`
	AiMaxDepth      int    `json:"ai_max_depth"`
	AiAdaptiveDepth bool   `json:"ai_adaptive_depth"`
	AiTtEnabled     bool   `json:"ai_tt_enabled"`
	AiLogSearch     bool   `json:"ai_log_search"`
}

type ConfigStore struct {
	mu     sync.RWMutex
	config Config
}

func DefaultConfig() Config {
	return Config{
		// "auto" uses alpha-beta when the board height is even and
		// falls back to bfs otherwise.
		AiStrategy: StrategyAuto,

		AiDepth:    10,
		AiMaxDepth: 42,

		// Adaptive depth lets the player deepen between moves while
		// calculations stay fast; the search itself is fixed-depth.
		AiAdaptiveDepth: true,

		AiTtEnabled: true,
		AiLogSearch: false,
	}
}

var configStore = &ConfigStore{config: DefaultConfig()}

func GetConfig() Config {
	return configStore.Get()
}

func (c *ConfigStore) Get() Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config
}

func (c *ConfigStore) Update(newConfig Config) {
	c.mu.Lock()
	c.config = newConfig
	c.mu.Unlock()
}
