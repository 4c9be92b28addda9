package primitives

import "math"

// OptionLogLevel is the options key controlling diagnostic verbosity.
const OptionLogLevel = "logLevel"

// Options holds caller-supplied configuration. Keys other than logLevel are
// passed through untouched.
type Options map[string]any

// Clone returns a shallow copy of the map. Nil clones to an empty map.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// LogLevel returns the numeric logLevel option.
// JSON and YAML decoders produce different numeric types, all of which are accepted.
func (o Options) LogLevel() (int, bool) {
	v, ok := o[OptionLogLevel]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint64:
		if n > math.MaxInt32 {
			return math.MaxInt32, true
		}
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// LogLevelOr returns the logLevel option, or fallback when it is absent or not numeric.
func (o Options) LogLevelOr(fallback int) int {
	if lvl, ok := o.LogLevel(); ok {
		return lvl
	}
	return fallback
}
