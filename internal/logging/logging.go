package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Init initializes the global logger with dual sinks: a console writer on
// stderr and a rotating file under LOGS_FOLDER (or DATA_PATH/logs).
func Init(verbose bool) {
	// Load .env from the binary directory early so LOGS_FOLDER is available
	// before config.Load runs.
	exeDir := ""
	if exePath, err := os.Executable(); err == nil {
		exeDir = filepath.Dir(exePath)
		_ = godotenv.Load(filepath.Join(exeDir, ".env"))
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	isTerminal := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isTerminal,
	}

	logDir := os.Getenv("LOGS_FOLDER")
	if logDir == "" {
		base := os.Getenv("DATA_PATH")
		if base == "" {
			base = exeDir
		}
		if base == "" {
			base = "."
		}
		logDir = filepath.Join(base, "logs")
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		// Keep running with console-only logging rather than refusing to start.
		log.Logger = zerolog.New(consoleWriter).With().Timestamp().Logger()
		log.Warn().Err(err).Str("path", logDir).Msg("Log directory unavailable, console sink only")
		return
	}

	fileWriter := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "servicegov.log"),
		MaxSize:    16, // megabytes
		MaxBackups: 8,
		MaxAge:     180, // days
		Compress:   true,
	}

	multi := zerolog.MultiLevelWriter(io.Writer(consoleWriter), fileWriter)
	log.Logger = zerolog.New(multi).With().Timestamp().Logger()
}
