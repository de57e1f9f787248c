package zerolog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/goterm/term"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

// Options configures the zerolog backed logger
type Options struct {
	Level      string
	TimeLayout string
	Colored    bool
	JSON       bool
	Out        io.Writer
}

// New builds a zerolog logger writing to opts.Out (stderr when nil).
// JSON output skips the console formatters entirely.
func New(opts Options) (*Adapter, error) {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	layout := opts.TimeLayout
	if layout == "" {
		layout = time.DateTime
	}

	if !opts.JSON {
		out = zerolog.ConsoleWriter{
			Out:           out,
			NoColor:       !opts.Colored,
			TimeFormat:    layout,
			FormatLevel:   formatLevel(opts.Colored),
			FormatMessage: formatMessage,
			FormatCaller:  formatCaller,
			FormatTimestamp: func(i any) string {
				return formatTimestamp(i, layout, opts.Colored)
			},
		}
	}

	zl := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		CallerWithSkipFrameCount(3).
		Logger()

	return NewAdapter(&zl), nil
}

func formatLevel(colored bool) zerolog.Formatter {
	return func(i any) string {
		level, _ := i.(string)
		tag, paint := levelTag(level)
		if !colored {
			return tag
		}
		return paint(tag)
	}
}

func levelTag(level string) (string, func(string, ...any) string) {
	switch level {
	case zerolog.LevelTraceValue:
		return "[TRC]", term.Cyanf
	case zerolog.LevelDebugValue:
		return "[DBG]", term.Cyanf
	case zerolog.LevelInfoValue:
		return "[INF]", term.Greenf
	case zerolog.LevelWarnValue:
		return "[WAR]", term.Yellowf
	case zerolog.LevelErrorValue:
		return "[ERR]", term.Redf
	case zerolog.LevelFatalValue, zerolog.LevelPanicValue:
		return "[FTL]", term.Redf
	default:
		return "[UNK]", term.Whitef
	}
}

func formatMessage(i any) string {
	const width = 72

	msg, ok := i.(string)
	if !ok || msg == "" {
		return ">"
	}
	if len(msg) < width {
		msg += strings.Repeat(" ", width-len(msg))
	}
	return "> " + msg
}

func formatCaller(i any) string {
	fname, ok := i.(string)
	if !ok || fname == "" {
		return ""
	}

	file, line, found := strings.Cut(filepath.Base(fname), ":")
	if !found {
		return file
	}
	return fmt.Sprintf("[%-16.16s:%4s]", file, line)
}

func formatTimestamp(i any, layout string, colored bool) string {
	raw := fmt.Sprint(i)
	if ts, err := time.Parse(zerolog.TimeFieldFormat, raw); err == nil {
		raw = ts.Local().Format(layout)
	}
	if colored {
		return term.Cyanf("[%s]", raw)
	}
	return "[" + raw + "]"
}
