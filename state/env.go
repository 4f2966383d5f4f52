// Package state defines shared program state.
package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"treegrid/config"
	"treegrid/tree"
	"treegrid/window"
)

type envKey struct{}

// LocalEnv keeps everything program needs in a single place.
type LocalEnv struct {
	Cfg *config.Config
	Rpt *config.Report
	Log *zap.Logger

	start         time.Time
	restoreStdLog func()
	index         func() (*tree.Index, error)
}

func EnvFromContext(ctx context.Context) *LocalEnv {
	if env, ok := ctx.Value(envKey{}).(*LocalEnv); ok {
		return env
	}
	// this should never happen
	panic("localenv not found in context")
}

func ContextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, newLocalEnv())
}

func (e *LocalEnv) Uptime() time.Duration {
	return time.Since(e.start)
}

// TreeIndex returns tree index generated from configuration. Tree is
// generated once, on first call.
func (e *LocalEnv) TreeIndex() (*tree.Index, error) {
	return e.index()
}

func (e *LocalEnv) generate() (*tree.Index, error) {
	if e.Cfg == nil {
		return nil, errors.New("configuration is not loaded")
	}

	l, err := e.Cfg.Tree.Labeler()
	if err != nil {
		return nil, fmt.Errorf("unable to prepare node labels: %w", err)
	}

	start := time.Now()
	idx, err := tree.Generate(e.Cfg.Tree.Generator(), tree.WithLabeler(l))
	if err != nil {
		return nil, fmt.Errorf("unable to generate tree: %w", err)
	}

	st := idx.Stats()
	if e.Log != nil {
		e.Log.Info("Tree generated",
			zap.String("generation", st.GenerationID),
			zap.Int("nodes", st.Nodes),
			zap.Int("groups", st.Groups),
			zap.Int("depth", st.MaxDepth),
			zap.Duration("elapsed", time.Since(start)))
	}
	if err := e.Rpt.StoreJSON("tree-stats.json", st); err != nil && e.Log != nil {
		e.Log.Warn("Unable to store tree stats in the report", zap.Error(err))
	}
	return idx, nil
}

// Resolver returns window resolver over generated tree configured according
// to server settings.
func (e *LocalEnv) Resolver() (*window.Resolver, error) {
	idx, err := e.TreeIndex()
	if err != nil {
		return nil, err
	}
	return window.NewResolver(idx,
		window.WithFoldMode(e.Cfg.Server.FoldMode),
		window.WithPathVerification(e.Cfg.Server.VerifyPaths),
	), nil
}

func (e *LocalEnv) RedirectStdLog() {
	if e.Log == nil {
		return
	}
	e.restoreStdLog = zap.RedirectStdLog(e.Log)
}

func (e *LocalEnv) RestoreStdLog() {
	if e.Log != nil {
		_ = e.Log.Sync()
	}
	if e.restoreStdLog != nil {
		e.restoreStdLog()
	}
}
