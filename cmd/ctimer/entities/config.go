package entities

const (
	// DefaultTimeLimitMs is the budget used when none is configured.
	DefaultTimeLimitMs = 1500

	// MaxDelimiterBytes bounds the wrapping delimiter. The limit is on
	// encoded bytes, not runes.
	MaxDelimiterBytes = 19

	// EffectiveInfiniteMs is the deadline armed for the "unbounded"
	// budget sentinel: over 24 days of processor time. A timer is always
	// installed, never skipped, so the signal semantics stay uniform.
	// NOTE Linux's itimerval struct only guarantees 32-bit or narrower
	// integers, so this must stay within int32 range.
	EffectiveInfiniteMs = 0x7FFFFFFF
)

// SupervisionConfig is the validated input for one supervision: the
// command to run, the processor-time budget and the report destination.
// It is constructed once by main and never mutated by the engine.
type SupervisionConfig struct {
	// Command is the target program followed by its arguments, passed to
	// the child verbatim. The first element is the program path.
	Command []string `mapstructure:"command" validate:"required,min=1,dive,required"`

	// TimeLimitMs is the processor-time budget in milliseconds. Zero is
	// the "unbounded" sentinel.
	TimeLimitMs uint32 `mapstructure:"time_limit_ms"`

	// StatsFile is the report destination; empty means stdout.
	StatsFile string `mapstructure:"stats_file"`

	// Delimiter optionally wraps the emitted report so it can be
	// extracted from a mixed output stream. Its byte length is bounded
	// by MaxDelimiterBytes, checked when the config is loaded.
	Delimiter string `mapstructure:"delimiter"`

	Verbose bool `mapstructure:"verbose"`
}

// EffectiveTimeLimitMs resolves the unbounded sentinel to the deadline
// actually armed in the child.
func (c *SupervisionConfig) EffectiveTimeLimitMs() uint32 {
	if c.TimeLimitMs == 0 {
		return EffectiveInfiniteMs
	}
	return c.TimeLimitMs
}
