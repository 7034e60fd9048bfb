package liquid

import (
	"strconv"

	"liquid-ca/internal/core"
)

// Parameters returns a snapshot of the current tunables for display and
// reporting.
func (w *World) Parameters() core.ParameterSnapshot {
	params := w.cfg.Params
	groups := []core.ParameterGroup{
		{
			Name: "World",
			Params: []core.Parameter{
				intParam("w", "Width", w.cfg.Width),
				intParam("h", "Height", w.cfg.Height),
				int64Param("seed", "Seed", w.cfg.Seed),
			},
		},
		{
			Name: "Flow",
			Params: []core.Parameter{
				floatParam("max_liquid", "Max liquid per cell", params.MaxLiquid),
				floatParam("max_compression", "Max compression", params.MaxCompression),
				floatParam("min_liquid", "Min tracked liquid", params.MinLiquid),
				floatParam("min_flow", "Min flow", params.MinFlow),
				floatParam("max_flow", "Max flow per tick", params.MaxFlow),
				floatParam("flow_speed", "Flow speed", params.FlowSpeed),
			},
		},
		{
			Name: "Settling",
			Params: []core.Parameter{
				intParam("settle_threshold", "Settle threshold", params.SettleThreshold),
				floatParam("settle_epsilon", "Settle epsilon", params.SettleEpsilon),
			},
		},
		{
			Name: "Scene Seeding",
			Params: []core.Parameter{
				floatParam("obstacle_chance", "Obstacle chance", params.ObstacleChance),
				intParam("pool_count", "Pool count", params.PoolCount),
				intParam("pool_radius_min", "Pool radius min", params.PoolRadiusMin),
				intParam("pool_radius_max", "Pool radius max", params.PoolRadiusMax),
				floatParam("pool_fill", "Pool fill", params.PoolFill),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the tunables adjustable from the overlay.
func (w *World) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "flow_speed", Label: "Flow speed", Type: core.ParamTypeFloat, Step: 0.05, Min: 0.05, Max: 1, HasMin: true, HasMax: true},
		{Key: "max_compression", Label: "Max compression", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, Max: 1, HasMin: true, HasMax: true},
		{Key: "max_flow", Label: "Max flow per tick", Type: core.ParamTypeFloat, Step: 0.5, Min: 0.5, Max: 8, HasMin: true, HasMax: true},
		{Key: "settle_threshold", Label: "Settle threshold", Type: core.ParamTypeInt, Step: 1, Min: 1, Max: 60, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates a float tunable by key, clamping to the control
// bounds. Any change wakes the whole grid so the new constants apply to
// already-converged regions.
func (w *World) SetFloatParameter(key string, value float64) bool {
	switch key {
	case "flow_speed":
		w.cfg.Params.FlowSpeed = clampRange(value, 0.05, 1)
	case "max_compression":
		w.cfg.Params.MaxCompression = clampRange(value, 0, 1)
	case "max_flow":
		w.cfg.Params.MaxFlow = clampRange(value, 0.5, 8)
	default:
		return false
	}
	w.wakeAll()
	return true
}

// SetIntParameter updates an integer tunable by key.
func (w *World) SetIntParameter(key string, value int) bool {
	switch key {
	case "settle_threshold":
		if value < 1 {
			value = 1
		}
		if value > 60 {
			value = 60
		}
		w.cfg.Params.SettleThreshold = value
	default:
		return false
	}
	w.wakeAll()
	return true
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
