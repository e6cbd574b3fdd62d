package log

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/mwantia/fabric/pkg/container"
)

// LoggerTagProcessor resolves fabric:"logger" and fabric:"logger:<name>"
// struct tags to the LoggerService registered in a service container.
// Add it with AddTagProcessor before registering services that carry these
// tags, otherwise fabric rejects the registration.
type LoggerTagProcessor struct{}

func NewLoggerTagProcessor() *LoggerTagProcessor {
	return &LoggerTagProcessor{}
}

// GetPriority runs this processor before the default inject processor (0).
func (ltp *LoggerTagProcessor) GetPriority() int {
	return 50
}

// CanProcess matches "logger" and "logger:<name>", case-insensitive.
func (ltp *LoggerTagProcessor) CanProcess(value string) bool {
	return strings.EqualFold(value, "logger") || strings.HasPrefix(strings.ToLower(value), "logger:")
}

// Process resolves the base LoggerService and returns it, or Named(name) of
// it when the tag carries a name.
func (ltp *LoggerTagProcessor) Process(ctx context.Context, sc *container.ServiceContainer, field reflect.StructField, value string) (any, error) {
	ok, resolved := sc.ResolveByType(ctx, reflect.TypeOf((*LoggerService)(nil)).Elem())
	if !ok {
		return nil, fmt.Errorf("failed to resolve LoggerService for field '%s': no logger service registered", field.Name)
	}

	baseLogger, ok := resolved.(LoggerService)
	if !ok {
		return nil, fmt.Errorf("resolved logger is not a LoggerService for field '%s'", field.Name)
	}

	if name := loggerName(value); name != "" {
		return baseLogger.Named(name), nil
	}
	return baseLogger, nil
}

func loggerName(value string) string {
	_, name, found := strings.Cut(value, ":")
	if !found {
		return ""
	}
	return strings.TrimSpace(name)
}
