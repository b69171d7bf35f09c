package log

import (
	"context"
	"fmt"
)

func emit(ctx context.Context, sev Severity, format string, args []interface{}) {
	dispatch(Record{
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
		Values:   values(ctx),
	})
}

// D logs at Debug severity.
func D(ctx context.Context, format string, args ...interface{}) { emit(ctx, Debug, format, args) }

// I logs at Info severity.
func I(ctx context.Context, format string, args ...interface{}) { emit(ctx, Info, format, args) }

// W logs at Warning severity.
func W(ctx context.Context, format string, args ...interface{}) { emit(ctx, Warning, format, args) }

// E logs at Error severity.
func E(ctx context.Context, format string, args ...interface{}) { emit(ctx, Error, format, args) }

// F logs at Fatal severity. It does not itself terminate the process;
// callers decide whether a fatal compile error should abort.
func F(ctx context.Context, format string, args ...interface{}) { emit(ctx, Fatal, format, args) }
