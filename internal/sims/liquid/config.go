package liquid

import "strconv"

// Params holds the tunable constants of the flow model and scene seeding.
type Params struct {
	MaxLiquid      float64
	MaxCompression float64
	MinLiquid      float64
	MinFlow        float64
	MaxFlow        float64
	FlowSpeed      float64

	SettleThreshold int
	SettleEpsilon   float64

	ObstacleChance float64
	PoolCount      int
	PoolRadiusMin  int
	PoolRadiusMax  int
	PoolFill       float64
}

// Config controls the liquid simulation dimensions and flow constants.
type Config struct {
	Width  int
	Height int

	Seed int64

	Params Params
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Width:  128,
		Height: 128,
		Seed:   1337,
		Params: Params{
			MaxLiquid:      1.0,
			MaxCompression: 0.25,
			MinLiquid:      0.005,
			MinFlow:        0.005,
			MaxFlow:        4.0,
			FlowSpeed:      1.0,

			SettleThreshold: 10,
			SettleEpsilon:   1e-4,

			ObstacleChance: 0.04,
			PoolCount:      5,
			PoolRadiusMin:  3,
			PoolRadiusMax:  8,
			PoolFill:       0.85,
		},
	}
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	if v, ok := cfg["w"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := cfg["h"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := cfg["max_liquid"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.MaxLiquid = parsed
		}
	}
	if v, ok := cfg["max_compression"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.MaxCompression = parsed
		}
	}
	if v, ok := cfg["min_liquid"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.MinLiquid = parsed
		}
	}
	if v, ok := cfg["min_flow"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.MinFlow = parsed
		}
	}
	if v, ok := cfg["max_flow"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.MaxFlow = parsed
		}
	}
	if v, ok := cfg["flow_speed"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 && parsed <= 1 {
			c.Params.FlowSpeed = parsed
		}
	}
	if v, ok := cfg["settle_threshold"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Params.SettleThreshold = parsed
		}
	}
	if v, ok := cfg["settle_epsilon"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.SettleEpsilon = parsed
		}
	}
	if v, ok := cfg["obstacle_chance"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			c.Params.ObstacleChance = parsed
		}
	}
	if v, ok := cfg["pool_count"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.PoolCount = parsed
		}
	}
	if v, ok := cfg["pool_radius_min"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.PoolRadiusMin = parsed
		}
	}
	if v, ok := cfg["pool_radius_max"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Params.PoolRadiusMax = parsed
		}
	}
	if c.Params.PoolRadiusMax < c.Params.PoolRadiusMin {
		c.Params.PoolRadiusMax = c.Params.PoolRadiusMin
	}
	if v, ok := cfg["pool_fill"]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			c.Params.PoolFill = parsed
		}
	}
	return c
}
