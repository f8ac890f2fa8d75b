package repomanager

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/avisos/internal/logging"
	"github.com/pressly/goose/v3"
)

// gooseLogger routes goose output through logging.Logger.
type gooseLogger struct {
	log logging.Logger
}

var exit = os.Exit

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Info(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Error(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)))
	exit(1)
}

// SetLogger sends migration output to l. goose keeps one process-wide logger.
func SetLogger(l logging.Logger) {
	if l == nil {
		l = logging.Nop()
	}
	goose.SetLogger(gooseLogger{log: l.With("component", "migrations")})
}
