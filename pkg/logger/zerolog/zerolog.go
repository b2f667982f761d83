package zerolog

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/goterm/term"
	"github.com/raykavin/pricewatch/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	maxMessageSize = 72
	maxFileSize    = 18
	maxLineSize    = 4
)

// New builds a zerolog logger writing to stdout, either as JSON or as
// fixed-width colored console columns
func New(options logger.Options) (*ZerologAdapter, error) {
	level, err := zerolog.ParseLevel(options.Level)
	if err != nil {
		return nil, err
	}
	zerolog.SetGlobalLevel(level)

	if options.JSON {
		l := zerolog.New(os.Stdout).With().Timestamp().Caller().Logger()
		return &ZerologAdapter{&l}, nil
	}

	output := zerolog.ConsoleWriter{
		Out:             os.Stdout,
		NoColor:         !options.Colored,
		TimeFormat:      options.TimeFormat,
		FormatLevel:     formatLevel,
		FormatMessage:   formatMessage,
		FormatCaller:    formatCaller,
		FormatTimestamp: func(i any) string { return formatTimestamp(i, options.TimeFormat) },
	}

	l := log.
		Output(output).
		With().
		CallerWithSkipFrameCount(3).
		Logger()

	return &ZerologAdapter{&l}, nil
}

func formatLevel(i any) string {
	level, _ := i.(string)

	switch level {
	case zerolog.LevelTraceValue, zerolog.LevelDebugValue:
		return term.Cyanf("[%s]", strings.ToUpper(level[:3]))
	case zerolog.LevelInfoValue:
		return term.Greenf("[INF]")
	case zerolog.LevelWarnValue:
		return term.Yellowf("[WRN]")
	case zerolog.LevelErrorValue, zerolog.LevelFatalValue, zerolog.LevelPanicValue:
		return term.Redf("[%s]", strings.ToUpper(level[:3]))
	default:
		return term.Whitef("[UNK]")
	}
}

func formatMessage(i any) string {
	msg, ok := i.(string)
	if !ok || len(msg) == 0 {
		return ">"
	}

	if len(msg) > maxMessageSize {
		msg = msg[:maxMessageSize]
	}

	return term.Whitef("> %-*s", maxMessageSize, msg)
}

func formatCaller(i any) string {
	fname, ok := i.(string)
	if !ok || len(fname) == 0 {
		return ""
	}

	file, line, found := strings.Cut(filepath.Base(fname), ":")
	if !found {
		return file
	}

	if len(file) > maxFileSize {
		file = file[:maxFileSize]
	}
	if len(line) > maxLineSize {
		line = line[len(line)-maxLineSize:]
	}

	return term.Yellowf("[%-*s:%*s]", maxFileSize, file, maxLineSize, line)
}

func formatTimestamp(i any, layout string) string {
	value, ok := i.(string)
	if !ok {
		return term.Cyanf("[%v]", i)
	}

	if ts, err := time.ParseInLocation(time.RFC3339, value, time.Local); err == nil {
		value = ts.In(time.Local).Format(layout)
	}

	return term.Cyanf("[%s]", value)
}

