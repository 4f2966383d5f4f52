package main

import (
	"context"
	"fmt"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"treegrid/client"
	"treegrid/state"
)

func runCrawl(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("crawl")

	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many addresses", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	var (
		src    client.Source
		target string
	)
	if addr := cmd.Args().Get(0); len(addr) > 0 {
		hs, err := client.NewHTTPSource(addr, nil)
		if err != nil {
			return err
		}
		st, err := hs.Stats(ctx)
		if err != nil {
			return fmt.Errorf("unable to reach tree server: %w", err)
		}
		log.Info("Remote tree", zap.String("generation", st.GenerationID), zap.Int("nodes", st.Nodes), zap.Int("groups", st.Groups))
		src, target = hs, addr
	} else {
		r, err := env.Resolver()
		if err != nil {
			return err
		}
		src, target = client.NewLocalSource(r), "in-process"
	}

	opts := env.Cfg.Grid.Options()
	if size := cmd.Int("block-size"); size > 0 {
		opts.CacheBlockSize = size
	}

	model := client.NewMemoryModel()
	adapter := client.NewAdapter(src, log.Named("adapter"), client.WithGridOptions(opts))
	crawler := client.NewCrawler(adapter, model, log, cmd.Int("depth"))

	log.Info("Crawling starting", zap.String("source", target), zap.Int("block size", opts.CacheBlockSize), zap.Int("concurrency", opts.MaxConcurrentRequests))

	rpt, err := crawler.Run(ctx)

	if er := env.Rpt.StoreJSON("crawl-report.json", rpt); er != nil {
		log.Warn("Unable to store crawl report", zap.Error(er))
	}
	if er := env.Rpt.StoreJSON("crawl-model.json", model.Stats()); er != nil {
		log.Warn("Unable to store model stats", zap.Error(er))
	}
	if err != nil {
		return err
	}

	log.Info("Crawling completed",
		zap.Int("routes", rpt.Routes),
		zap.Int("rows", rpt.Rows),
		zap.Int64("requests", rpt.Requests),
		zap.Int64("prefilled", rpt.Prefilled),
		zap.Duration("elapsed", rpt.Elapsed.Round(time.Millisecond)))
	return nil
}
