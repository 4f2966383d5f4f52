package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"treegrid/common"
	"treegrid/config"
	"treegrid/state"
	"treegrid/tree"
)

// destination cleans up file name part of the path and adds extension when
// it is missing.
func destination(path, ext string) (string, error) {
	dir, name := filepath.Split(path)
	name = config.CleanFileName(name)
	if len(ext) > 0 && len(filepath.Ext(name)) == 0 {
		name += ext
	}
	return filepath.Abs(filepath.Join(dir, name))
}

func runDump(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("dump")

	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	format, err := common.ParseDumpFmt(cmd.String("format"))
	if err != nil {
		log.Warn("Unknown dump format requested, switching to text", zap.Error(err))
		format = common.DumpFmtText
	}

	idx, err := env.TreeIndex()
	if err != nil {
		return err
	}

	var (
		out   io.Writer = os.Stdout
		fname           = "STDOUT"
	)
	if arg := cmd.Args().Get(0); len(arg) > 0 {
		if fname, err = destination(arg, format.Ext()); err != nil {
			return err
		}
		f, err := os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer f.Close()
		out = f
	}

	log.Info("Dumping tree", zap.Stringer("format", format), zap.String("file", fname))
	return tree.Dump(out, idx, tree.DumpOptions{
		Format:   format,
		MaxDepth: cmd.Int("depth"),
		Groups:   cmd.Bool("groups"),
	})
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("export")

	arg := cmd.Args().Get(0)
	if len(arg) == 0 {
		return errors.New("no destination has been specified")
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname, err := destination(arg, ".sqlite")
	if err != nil {
		return err
	}
	if _, err := os.Stat(fname); err == nil {
		return fmt.Errorf("destination '%s' already exists", fname)
	}

	idx, err := env.TreeIndex()
	if err != nil {
		return err
	}

	log.Info("Exporting tree", zap.String("file", fname), zap.Int("nodes", idx.Len()))
	defer func(start time.Time) {
		log.Info("Export completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return tree.Export(ctx, fname, idx)
}
