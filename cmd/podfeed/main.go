package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"podfeed/internal/config"
	"podfeed/internal/library"
)

// CLI defines the command-line interface: three positional arguments and
// an optional watch mode.
type CLI struct {
	Subfolder string `arg:"" help:"Folder containing the audio files and config.json."`
	RepoOwner string `arg:"" help:"GitHub repository owner used in enclosure URLs."`
	RepoName  string `arg:"" help:"GitHub repository name used in enclosure URLs."`
	Watch     bool   `help:"Keep running and regenerate the feed when the folder changes."`
}

func main() {
	// A .env file is optional; environment variables win either way.
	_ = godotenv.Load()

	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("podfeed"),
		kong.Description("Generate a podcast RSS feed from a folder of audio files."),
		kong.UsageOnError(),
	)

	logger := log.New(os.Stdout, "podfeed ", log.LstdFlags|log.Lmsgprefix)

	if err := generate(cli.Subfolder, cli.RepoOwner, cli.RepoName, logger); err != nil {
		if errors.Is(err, config.ErrNotFound) {
			// Missing config stops this folder's feed without failing the
			// process, so a loop over many subfolders keeps going.
			logger.Printf("%v", err)
			return
		}
		kctx.FatalIfErrorf(err)
	}

	if !cli.Watch {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := library.NewWatcher(cli.Subfolder, config.Debounce(), func() {
		if err := generate(cli.Subfolder, cli.RepoOwner, cli.RepoName, logger); err != nil {
			logger.Printf("regenerate error: %v", err)
		}
	}, logger)
	kctx.FatalIfErrorf(err)
	defer func() {
		if err := watcher.Close(); err != nil {
			logger.Printf("error closing watcher: %v", err)
		}
	}()

	logger.Printf("watching %s for changes", cli.Subfolder)
	<-ctx.Done()
	logger.Println("shutdown complete")
}
