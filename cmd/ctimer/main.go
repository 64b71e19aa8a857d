package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/shlex"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/proctor-dev/ctimer/cmd/ctimer/entities"
	"github.com/proctor-dev/ctimer/cmd/ctimer/execute"
	"github.com/proctor-dev/ctimer/cmd/ctimer/sink"
	"github.com/proctor-dev/ctimer/cmd/ctimer/utils"
)

// Environment variables forming the external configuration contract.
const (
	statsFileEnvVar = "CTIMER_STATS"
	timeoutEnvVar   = "CTIMER_TIMEOUT"
	delimiterEnvVar = "CTIMER_DELIMITER"
	requestEnvVar   = "CTIMER_FILE"
)

const helpMessage = `usage: ctimer [-h] [-v] program [args ...]

ctimer: measure a program's processor time

positional arguments:
    program          path to the inspected program
    args             commandline arguments

optional arguments:
    -h, --help       print this help message and exit
    -v, --verbose    (dev) print verbosely

optional environment variables:
    %-16s  file to write stats in JSON, default: (stdout)
    %-16s  processor time limit (ms), default: %d
    %-16s  delimiter encompassing the stats string
    %-16s  read the request as a JSON document ('-' for stdin)
`

func init() {
	// stderr carries logs; stdout is reserved for the report
	logrus.SetOutput(os.Stderr)
	logrus.SetLevel(logrus.WarnLevel)
}

func main() {
	config, err := loadConfig(os.Args[1:])
	if err != nil {
		logrus.Fatal(err)
	}
	if config == nil {
		// help was printed
		return
	}

	if config.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := validator.New().Struct(config); err != nil {
		logrus.WithError(err).Fatal("Invalid supervision request")
	}

	logger := logrus.WithField("instance", utils.InstanceId)
	logger.Debugf("stats output: %s", lo.Ternary(config.StatsFile == "", "(stdout)", config.StatsFile))
	logger.Debugf("timeout (ms): %d%s", config.EffectiveTimeLimitMs(),
		lo.Ternary(config.TimeLimitMs == 0, " (infinite)", ""))
	logger.Debugf("command:      %s", strings.Join(config.Command, " "))
	if config.StatsFile != "" && utils.FileExists(config.StatsFile) {
		logger.Debugf("stats file %s exists and will be truncated", config.StatsFile)
	}

	report, err := execute.Execute(logger, config)
	if err != nil {
		logger.WithError(err).Fatal("Error supervising the child")
	}

	if err := sink.Write(report, config.StatsFile, config.Delimiter); err != nil {
		logger.WithError(err).Fatal("Error delivering the report")
	}
}

// loadConfig assembles the supervision request from the environment, the
// command line and, when CTIMER_FILE is set, a JSON request document.
// Later sources win: environment defaults, then the document, then the
// command line. A nil config with a nil error means help was printed.
func loadConfig(args []string) (*entities.SupervisionConfig, error) {
	config := &entities.SupervisionConfig{
		TimeLimitMs: entities.DefaultTimeLimitMs,
		StatsFile:   os.Getenv(statsFileEnvVar),
		Delimiter:   os.Getenv(delimiterEnvVar),
	}

	if raw, ok := os.LookupEnv(timeoutEnvVar); ok {
		ms, err := parseTimeout(raw)
		if err != nil {
			return nil, err
		}
		config.TimeLimitMs = ms
	}

	if requestFile, ok := os.LookupEnv(requestEnvVar); ok {
		if err := decodeRequest(requestFile, config); err != nil {
			return nil, err
		}
	}

	// Flag scanning stops at the first non-dash token; from there on the
	// arguments belong to the child, verbatim, dashes included.
	var command []string
	for i, arg := range args {
		if !strings.HasPrefix(arg, "-") {
			command = args[i:]
			break
		}
		switch arg {
		case "-h", "--help":
			printHelp()
			return nil, nil
		case "-v", "--verbose":
			config.Verbose = true
		default:
			return nil, fmt.Errorf("option '%s' not recognized, use '-h' for help", arg)
		}
	}
	if len(command) > 0 {
		config.Command = command
	}
	if len(config.Command) == 0 {
		return nil, fmt.Errorf("program name expected, use '-h' for help")
	}
	if len(config.Delimiter) > entities.MaxDelimiterBytes {
		return nil, fmt.Errorf("%s value is too long (>=%d bytes): %s",
			delimiterEnvVar, entities.MaxDelimiterBytes+1, config.Delimiter)
	}

	return config, nil
}

// decodeRequest merges a JSON request document into config. The command
// may be given as an array or as a single string, which is split the way
// a shell would.
func decodeRequest(path string, config *entities.SupervisionConfig) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("Error reading the request document: %w", err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("Error unmarshalling the request document: %w", err)
	}

	if raw, ok := payload["command"].(string); ok {
		parts, err := shlex.Split(raw)
		if err != nil {
			return fmt.Errorf("Error splitting the command string: %w", err)
		}
		payload["command"] = parts
	}

	if err := mapstructure.Decode(payload, config); err != nil {
		return fmt.Errorf("Error decoding the request document: %w", err)
	}
	return nil
}

// parseTimeout enforces the budget syntax: the literal "0" selects the
// unbounded sentinel; anything else must be 1 to 5 digits without a
// leading zero.
func parseTimeout(raw string) (uint32, error) {
	if raw == "0" {
		return 0, nil
	}
	valid := len(raw) > 0 && len(raw) <= 5 && raw[0] != '0' &&
		!strings.ContainsFunc(raw, func(r rune) bool { return r < '0' || r > '9' })
	if !valid {
		return 0, fmt.Errorf("%s value '%s' is led by '0', not pure digits, or too long", timeoutEnvVar, raw)
	}

	ms, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s value '%s' is out of range", timeoutEnvVar, raw)
	}
	return uint32(ms), nil
}

func printHelp() {
	fmt.Printf(helpMessage, statsFileEnvVar, timeoutEnvVar, entities.DefaultTimeLimitMs, delimiterEnvVar, requestEnvVar)
}
