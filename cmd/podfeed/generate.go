package main

import (
	"fmt"
	"log"
	"path/filepath"

	"podfeed/internal/config"
	"podfeed/internal/feed"
	"podfeed/internal/library"
	"podfeed/internal/metadata"
	"podfeed/internal/models"
)

// generate runs the pipeline for one subfolder: load the channel
// configuration, scan for audio files, read per-episode metadata, then
// assemble and write feed.xml.
func generate(subfolder, owner, repo string, logger *log.Logger) error {
	cfg, err := config.Load(subfolder)
	if err != nil {
		return err
	}

	names, err := library.Scan(subfolder)
	if err != nil {
		return fmt.Errorf("could not list %s: %w", subfolder, err)
	}

	episodes := make([]models.Episode, 0, len(names))
	for _, name := range names {
		episode, err := metadata.BuildEpisode(filepath.Join(subfolder, name))
		if err != nil {
			logger.Printf("skipping %s: %v", name, err)
			continue
		}
		episodes = append(episodes, episode)
	}

	doc := feed.Build(cfg, episodes, owner, repo, subfolder)
	path, err := feed.Write(doc, subfolder)
	if err != nil {
		return err
	}

	logger.Printf("generated feed: %s", path)
	return nil
}
