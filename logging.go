package conc

import (
	"time"

	"github.com/joeycumines/go-catrate"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// Logger is the structured logger every ThreadGroup and DispatchQueue
// writes diagnostics through. It wraps a
// logiface.Logger[*stumpy.Event] the same way the teacher's test suite
// constructs one, with a github.com/joeycumines/go-catrate limiter wired in
// directly to de-duplicate noisy repeated warnings (such as a ThreadGroup's
// worker-failure warning) rather than going through logiface's own (less
// stable) rate limit modifier.
type Logger struct {
	base  *logiface.Logger[*stumpy.Event]
	limit *catrate.Limiter
}

// defaultRates caps repeated warnings of the same category to 1/second and
// 20/minute, which is enough to see the first few occurrences of a storm
// without flooding the log.
var defaultRates = map[time.Duration]int{
	time.Second: 1,
	time.Minute: 20,
}

// NewLogger wraps an existing logiface.Logger[*stumpy.Event]. Use this to
// share a *stumpy.Event backend across package boundaries; most callers
// should use NewJSONLogger or defaultLogger instead.
func NewLogger(base *logiface.Logger[*stumpy.Event]) *Logger {
	return &Logger{base: base, limit: catrate.NewLimiter(defaultRates)}
}

// NewJSONLogger constructs a Logger backed by stumpy's JSON writer, the same
// backend the teacher's event loop tests construct loggers with.
func NewJSONLogger(options ...stumpy.Option) *Logger {
	return NewLogger(stumpy.L.New(stumpy.L.WithStumpy(options...)))
}

var packageLogger = NewJSONLogger()

// SetLogger replaces the package-level default Logger used by any
// ThreadGroup or DispatchQueue constructed without an explicit logger
// option. Intended to be called once, during process startup.
func SetLogger(l *Logger) {
	if l == nil {
		l = NewJSONLogger()
	}
	packageLogger = l
}

func defaultLogger() *Logger { return packageLogger }

// debug logs a debug-level diagnostic with the given fields.
func (l *Logger) debug(msg string, fields ...field) {
	l.log(l.base.Debug(), msg, fields)
}

// info logs an informational diagnostic.
func (l *Logger) info(msg string, fields ...field) {
	l.log(l.base.Info(), msg, fields)
}

// warn logs a warning, rate-limited per category to avoid flooding the log
// during a repeated-failure storm (e.g. many ThreadGroups whose workers
// keep failing). category should be a small fixed set of string
// constants, never an unbounded value like an error message.
func (l *Logger) warn(category, msg string, fields ...field) {
	if l.limit != nil {
		if _, ok := l.limit.Allow(category); !ok {
			return
		}
	}
	l.log(l.base.Warning(), msg, fields)
}

// errorf logs an error-level diagnostic.
func (l *Logger) errorf(msg string, err error, fields ...field) {
	b := l.base.Err()
	if err != nil {
		b = b.Err(err)
	}
	l.log(b, msg, fields)
}

func (l *Logger) log(b *logiface.Builder[*stumpy.Event], msg string, fields []field) {
	for _, f := range fields {
		b = b.Field(f.key, f.val)
	}
	b.Log(msg)
}

// field is a single structured key/value pair attached to a log line.
type field struct {
	key string
	val any
}

// F constructs a field for passing to the unexported logging helpers.
func F(key string, val any) field { return field{key: key, val: val} }
