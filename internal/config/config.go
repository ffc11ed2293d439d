// Package config loads the engine's configuration file into the typed
// "cfgmap" shape that BuildTask, BuildCondition and BuildEvent turn into
// concrete task/condition/event variants, grounded on the teacher's internal/config environment-aware loading
// style but backed by spf13/viper instead of a hand-rolled env parser
// (SPEC_FULL.md §2.2).
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/almostearthling/whenever-sub000/internal/wres"
)

// Root is the parsed top-level configuration: a scheduler section plus
// three named-section slices, one cfgmap per task/condition/event.
type Root struct {
	Scheduler  SchedulerConfig
	Tasks      []CfgMap
	Conditions []CfgMap
	Events     []CfgMap
}

// SchedulerConfig configures the tick scheduler.
type SchedulerConfig struct {
	TickSeconds int
	Randomize   bool
}

// CfgMap is the generic per-item configuration map handed to BuildTask,
// BuildCondition or BuildEvent (builder.go), which read each variant's
// keys from it and construct the item. There is no separate
// validate-only entry point, and keys a builder does not read are
// ignored rather than rejected.
type CfgMap map[string]interface{}

// GetString and GetInt fetch a typed value from a CfgMap, returning a
// wres.Error of KindInvalid when the key is present with the wrong type,
// or KindEmpty when required and missing. GetBool returns def when the
// key is missing or not a bool, and GetStringSlice returns nil when the
// key is missing or not a list, skipping non-string elements; neither
// reports an error.
func (m CfgMap) GetString(key string, required bool) (string, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return "", wres.New(wres.KindEmpty, "missing parameter: "+key)
		}
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", wres.New(wres.KindInvalid, "invalid value for entry: "+key)
	}
	return s, nil
}

func (m CfgMap) GetInt(key string, required bool) (int, error) {
	v, ok := m[key]
	if !ok {
		if required {
			return 0, wres.New(wres.KindEmpty, "missing parameter: "+key)
		}
		return 0, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, wres.New(wres.KindInvalid, "invalid value for entry: "+key)
	}
}

func (m CfgMap) GetBool(key string, def bool) bool {
	v, ok := m[key]
	if !ok {
		return def
	}
	b, ok := v.(bool)
	if !ok {
		return def
	}
	return b
}

func (m CfgMap) GetStringSlice(key string) []string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Load reads path (TOML/YAML/JSON, sniffed from its extension) via
// viper, overlaying WHENEVER_* environment variables, into a Root.
func Load(path string) (*Root, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("whenever")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("scheduler.tick_seconds", 5)
	v.SetDefault("scheduler.randomize", true)

	if err := v.ReadInConfig(); err != nil {
		return nil, wres.Wrap(wres.KindInvalid, wres.OriginStdIO, "invalid configuration file", err)
	}

	root := &Root{
		Scheduler: SchedulerConfig{
			TickSeconds: v.GetInt("scheduler.tick_seconds"),
			Randomize:   v.GetBool("scheduler.randomize"),
		},
	}

	root.Tasks = toCfgMaps(v.Get("task"))
	root.Conditions = toCfgMaps(v.Get("condition"))
	root.Events = toCfgMaps(v.Get("event"))

	return root, nil
}

func toCfgMaps(raw interface{}) []CfgMap {
	list, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]CfgMap, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, CfgMap(m))
		}
	}
	return out
}
