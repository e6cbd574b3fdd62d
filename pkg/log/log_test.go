package log

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mwantia/fabric/pkg/container"
	"github.com/mwantia/tagalong/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(level string) config.LogConfig {
	cfg := config.GetDefault().Log
	cfg.Level = level
	return cfg
}

func TestParse(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   Debug,
		"INFO":    Info,
		"Warn":    Warn,
		"warning": Warn,
		"ERROR":   Error,
		"fatal":   Fatal,
		"":        Info,
		"verbose": Info,
	}
	for input, expected := range tests {
		assert.Equal(t, expected, Parse(input), input)
	}
}

func TestLogLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", Debug.String())
	assert.Equal(t, "FATAL", Fatal.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLoggerService("tagalong", testConfig("WARN"), &buf)

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("shown %d", 1)
	logger.Error("shown %d", 2)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "WARN  [tagalong] shown 1")
	assert.Contains(t, lines[1], "ERROR [tagalong] shown 2")
}

func TestLogger_NamedSharesWriter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLoggerService("tagalong", testConfig("DEBUG"), &buf)

	logger.Named("index").Named("walk").Debug("file %s", "a.pdf")
	assert.Contains(t, buf.String(), "[tagalong/index/walk] file a.pdf")
}

func TestLogger_NamedWithoutBaseName(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLoggerService("", testConfig("INFO"), &buf)

	logger.Named("autosort").Info("done")
	assert.Contains(t, buf.String(), "[autosort] done")
}

func TestLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig("INFO")
	cfg.JSON = true
	logger := NewWriterLoggerService("tagalong", cfg, &buf)

	logger.Info("scanned %d files", 3)

	var entry logEntry
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "tagalong", entry.Service)
	assert.Equal(t, "scanned 3 files", entry.Message)
}

func TestLogger_FatalExits(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriterLoggerService("tagalong", testConfig("INFO"), &buf).(*LoggerServiceImpl)

	code := -1
	logger.exit = func(c int) { code = c }

	logger.Fatal("cannot continue")
	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "FATAL [tagalong] cannot continue")
}

func TestLoggerTagProcessor_CanProcess(t *testing.T) {
	ltp := NewLoggerTagProcessor()

	assert.True(t, ltp.CanProcess("logger"))
	assert.True(t, ltp.CanProcess("Logger:index"))
	assert.False(t, ltp.CanProcess("inject"))
	assert.False(t, ltp.CanProcess("loggers"))
}

func TestLoggerName(t *testing.T) {
	assert.Equal(t, "", loggerName("logger"))
	assert.Equal(t, "index", loggerName("logger: index"))
	assert.Equal(t, "a:b", loggerName("logger:a:b"))
}

type taggedService struct {
	Base   LoggerService     `fabric:"logger"`
	Index  LoggerService     `fabric:"logger:index"`
	Config *config.LogConfig `fabric:"inject"`
}

func newTestContainer(t *testing.T, buf *bytes.Buffer) *container.ServiceContainer {
	t.Helper()

	cfg := testConfig("INFO")
	sc := container.NewServiceContainer()
	sc.AddTagProcessor(NewLoggerTagProcessor())

	require.NoError(t, container.Register[*LoggerServiceImpl](sc,
		container.With[LoggerService](),
		container.WithInstance(NewWriterLoggerService("tagalong", cfg, buf))))
	require.NoError(t, container.Register[*config.LogConfig](sc,
		container.WithInstance(&cfg)))

	return sc
}

func TestLoggerTagProcessor_InjectsThroughContainer(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	sc := newTestContainer(t, &buf)

	require.NoError(t, container.Register[*taggedService](sc))

	svc, err := container.Resolve[*taggedService](ctx, sc)
	require.NoError(t, err)
	require.NotNil(t, svc.Base)
	require.NotNil(t, svc.Index)
	require.NotNil(t, svc.Config)

	svc.Base.Info("base")
	svc.Index.Info("named")

	out := buf.String()
	assert.Contains(t, out, "[tagalong] base")
	assert.Contains(t, out, "[tagalong/index] named")
}

func TestLoggerTagProcessor_RequiredForRegistration(t *testing.T) {
	sc := container.NewServiceContainer()

	err := container.Register[*taggedService](sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logger")
}

func TestLoggerTagProcessor_MissingLoggerService(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig("INFO")

	sc := container.NewServiceContainer()
	sc.AddTagProcessor(NewLoggerTagProcessor())
	require.NoError(t, container.Register[*config.LogConfig](sc, container.WithInstance(&cfg)))
	require.NoError(t, container.Register[*taggedService](sc))

	_, err := container.Resolve[*taggedService](ctx, sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no logger service registered")
}
