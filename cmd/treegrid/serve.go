package main

import (
	"context"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"treegrid/server"
	"treegrid/state"
)

func runServe(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("serve")

	if cmd.Args().Len() > 0 {
		log.Warn("Malformed command line, unexpected arguments", zap.Strings("ignoring", cmd.Args().Slice()))
	}

	cfg := env.Cfg.Server
	if addr := cmd.String("listen"); len(addr) > 0 {
		cfg.Listen = addr
	}

	r, err := env.Resolver()
	if err != nil {
		return err
	}

	log.Info("Starting server",
		zap.String("listen", cfg.Listen),
		zap.Stringer("fold", cfg.FoldMode),
		zap.Bool("verify paths", cfg.VerifyPaths),
		zap.Duration("delay", cfg.ResponseDelay))

	return server.New(cfg, r, log).Run(ctx)
}
