package main

import (
	"bufio"
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/chrisuehlinger/htmltree/config"
)

type envKey struct{}

// localEnv keeps everything commands need in a single place.
type localEnv struct {
	Cfg *config.Config
	Log *zap.Logger
	Out *bufio.Writer

	start time.Time
}

func envFromContext(ctx context.Context) *localEnv {
	if env, ok := ctx.Value(envKey{}).(*localEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func contextWithEnv(ctx context.Context, out io.Writer) context.Context {
	return context.WithValue(ctx, envKey{}, &localEnv{
		Log:   zap.NewNop(),
		Out:   bufio.NewWriter(out),
		start: time.Now(),
	})
}

func (e *localEnv) uptime() time.Duration {
	return time.Since(e.start)
}
