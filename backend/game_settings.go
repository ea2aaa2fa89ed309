package main

type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerAI
)

const (
	StrategyAuto      = "auto"
	StrategyAlphaBeta = "alphabeta"
	StrategyBFS       = "bfs"
)

// AIOptions overrides the global config for one seat. Zero values fall
// back to the config defaults.
type AIOptions struct {
	Strategy      string `json:"strategy,omitempty"`
	Depth         int    `json:"depth,omitempty"`
	MaxDepth      int    `json:"max_depth,omitempty"`
	AdaptiveDepth *bool  `json:"adaptive_depth,omitempty"`
	TtEnabled     *bool  `json:"tt_enabled,omitempty"`
}

type GameSettings struct {
	BoardWidth    int        `json:"board_width"`
	BoardHeight   int        `json:"board_height"`
	WinLength     int        `json:"win_length"`
	PlayerOneType PlayerType `json:"-"`
	PlayerTwoType PlayerType `json:"-"`
	PlayerOneAI   AIOptions  `json:"player_one_ai"`
	PlayerTwoAI   AIOptions  `json:"player_two_ai"`
}

func DefaultGameSettings() GameSettings {
	return GameSettings{
		BoardWidth:    7,
		BoardHeight:   6,
		WinLength:     4,
		PlayerOneType: PlayerHuman,
		PlayerTwoType: PlayerAI,
	}
}

// resolveAIOptions merges per-seat overrides onto the global config.
func resolveAIOptions(cfg Config, opts AIOptions) Config {
	if opts.Strategy != "" {
		cfg.AiStrategy = opts.Strategy
	}
	if opts.Depth > 0 {
		cfg.AiDepth = opts.Depth
	}
	if opts.MaxDepth > 0 {
		cfg.AiMaxDepth = opts.MaxDepth
	}
	if opts.AdaptiveDepth != nil {
		cfg.AiAdaptiveDepth = *opts.AdaptiveDepth
	}
	if opts.TtEnabled != nil {
		cfg.AiTtEnabled = *opts.TtEnabled
	}
	return cfg
}
