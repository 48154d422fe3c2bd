// Package config builds the immutable run configuration of comic-ocr from
// the command line and the environment.
package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	ocrerrors "github.com/ironsheep/comic-ocr/internal/errors"
	"github.com/ironsheep/comic-ocr/internal/logging"
)

// Mode selects what the binary does.
type Mode int

const (
	// ModeHelp prints usage and exits successfully.
	ModeHelp Mode = iota
	// ModeVersion prints version information.
	ModeVersion
	// ModeFile processes a single image.
	ModeFile
	// ModeDirectory processes every image in a directory.
	ModeDirectory
	// ModeServe runs the MCP server over stdio.
	ModeServe
)

// Config holds everything one invocation needs. It is built once and
// passed by value.
type Config struct {
	Mode      Mode
	File      string
	Directory string
	Recursive bool

	// Rows forces the page split; zero means automatic.
	Rows int

	Workers        int
	Languages      []string
	TessdataPrefix string
	PageSegMode    int
	LogLevel       logging.Level
}

// Env holds settings read from the environment.
type Env struct {
	LogLevel       logging.Level
	Languages      []string
	TessdataPrefix string
	Workers        int
	PageSegMode    int
}

// Environment variable names.
const (
	EnvLogLevel       = "COMIC_OCR_LOG_LEVEL"
	EnvLanguage       = "COMIC_OCR_LANG"
	EnvTessdataPrefix = "COMIC_OCR_TESSDATA_PREFIX"
	EnvWorkers        = "COMIC_OCR_WORKERS"
	EnvPageSegMode    = "COMIC_OCR_PSM"
)

// LoadEnv reads an optional .env file from the working directory and then
// the COMIC_OCR_* variables. Variables already set in the process
// environment win over the file.
func LoadEnv() Env {
	// A missing .env file is the common case.
	_ = godotenv.Load()
	return EnvFromLookup(os.LookupEnv)
}

// EnvFromLookup reads settings through lookup, which has the signature of
// os.LookupEnv.
func EnvFromLookup(lookup func(string) (string, bool)) Env {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}
	getInt := func(key string, def int) int {
		n, err := strconv.Atoi(get(key, ""))
		if err != nil || n < 0 {
			return def
		}
		return n
	}

	return Env{
		LogLevel:       logging.ParseLevel(get(EnvLogLevel, "info")),
		Languages:      splitLanguages(get(EnvLanguage, "eng")),
		TessdataPrefix: get(EnvTessdataPrefix, ""),
		Workers:        getInt(EnvWorkers, 1),
		PageSegMode:    getInt(EnvPageSegMode, 0),
	}
}

// splitLanguages accepts "eng+deu" (Tesseract style) or "eng,deu".
func splitLanguages(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '+' || r == ',' })
	langs := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			langs = append(langs, f)
		}
	}
	return langs
}

// Parse builds a Config from command-line arguments (without the program
// name) on top of env.
//
// No arguments, or -h/--help anywhere, yields ModeHelp. Unknown flags and
// malformed values are UNSUPPORTED_ARGUMENT errors; a flag missing its value
// is a MISSING_ARGUMENT_VALUE error. When both --file and --directory are
// given the file wins; when neither is, the result is ModeHelp.
func Parse(args []string, env Env) (Config, error) {
	cfg := Config{
		Mode:           ModeHelp,
		Workers:        env.Workers,
		Languages:      env.Languages,
		TessdataPrefix: env.TessdataPrefix,
		PageSegMode:    env.PageSegMode,
		LogLevel:       env.LogLevel,
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if len(args) == 0 {
		return cfg, nil
	}
	for _, a := range args {
		if a == "-h" || a == "--help" {
			return cfg, nil
		}
	}

	var version, serve bool
	for i := 0; i < len(args); i++ {
		arg := args[i]

		value := func() (string, error) {
			if i+1 >= len(args) {
				return "", ocrerrors.NewMissingArgumentValueError(arg)
			}
			i++
			return args[i], nil
		}
		positive := func() (int, error) {
			v, err := value()
			if err != nil {
				return 0, err
			}
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return 0, ocrerrors.NewInvalidArgumentValueError(arg, v)
			}
			return n, nil
		}

		var err error
		switch arg {
		case "-f", "--file":
			cfg.File, err = value()
		case "-d", "--directory":
			cfg.Directory, err = value()
		case "-r", "--recursive":
			cfg.Recursive = true
		case "-n", "--rows":
			cfg.Rows, err = positive()
		case "-w", "--workers":
			cfg.Workers, err = positive()
		case "-l", "--lang":
			var v string
			if v, err = value(); err == nil {
				cfg.Languages = splitLanguages(v)
			}
		case "-s", "--serve":
			serve = true
		case "-v", "--version":
			version = true
		default:
			return Config{}, ocrerrors.NewUnsupportedArgumentError(arg)
		}
		if err != nil {
			return Config{}, err
		}
	}

	switch {
	case version:
		cfg.Mode = ModeVersion
	case serve:
		cfg.Mode = ModeServe
	case cfg.File != "":
		cfg.Mode = ModeFile
	case cfg.Directory != "":
		cfg.Mode = ModeDirectory
	}
	return cfg, nil
}

// Usage is the help text printed for -h and on argument errors.
const Usage = `Usage:
  comic-ocr [options]

Options:
  -f, --file <file>         Specify a single image file to process
  -d, --directory <dir>     Specify a directory containing images to process
  -r, --recursive           Recursively process images in the specified directory and subdirectories
  -n, --rows <num>          Specify the number of horizontal rows to split the images into (default: auto-detect based on aspect ratio)
  -w, --workers <num>       Number of images to process concurrently (default: 1)
  -l, --lang <codes>        Tesseract language codes, e.g. eng or eng+deu (default: eng)
  -s, --serve               Run as an MCP server over stdin/stdout
  -v, --version             Print version information
  -h, --help                Display this help message

Environment variables:
  COMIC_OCR_LOG_LEVEL=debug|info|warn|error
  COMIC_OCR_LANG=eng
  COMIC_OCR_TESSDATA_PREFIX=/path/to/tessdata
  COMIC_OCR_WORKERS=1
  COMIC_OCR_PSM=<tesseract page segmentation mode>

Values may also be placed in a .env file in the working directory.
`
