package metadata

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/tcolgate/mp3"

	"podfeed/internal/extract"
	"podfeed/internal/models"
)

const unknownField = "Unknown"

// BuildEpisode constructs a metadata snapshot for the given audio file path.
// Tag fields fall back to the filename stem and "Unknown"; the description
// comes from a sibling .html file when its <main> content is non-empty,
// otherwise from the title.
func BuildEpisode(path string) (models.Episode, error) {
	info, err := os.Stat(path)
	if err != nil {
		return models.Episode{}, err
	}

	filename := filepath.Base(path)

	title, artist, album := readTags(path)
	if title == "" {
		title = strings.TrimSuffix(filename, filepath.Ext(filename))
	}
	if artist == "" {
		artist = unknownField
	}
	if album == "" {
		album = unknownField
	}

	var duration int64
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		if seconds, err := mp3Duration(path); err == nil {
			// Whole seconds, rounded down.
			duration = int64(seconds)
		}
	}

	description := title
	htmlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".html"
	if text := extract.FromFile(htmlPath); text != "" {
		description = text
	}

	return models.Episode{
		Filename:    filename,
		Title:       title,
		Artist:      artist,
		Album:       album,
		Description: description,
		Duration:    duration,
		Size:        info.Size(),
		ModifiedAt:  info.ModTime().UTC(),
	}, nil
}

func readTags(path string) (string, string, string) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", ""
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		return "", "", ""
	}

	return strings.TrimSpace(meta.Title()),
		strings.TrimSpace(meta.Artist()),
		strings.TrimSpace(meta.Album())
}

func mp3Duration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	decoder := mp3.NewDecoder(f)
	var frame mp3.Frame
	var skipped int
	var total float64

	for {
		err := decoder.Decode(&frame, &skipped)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
		total += frame.Duration().Seconds()
	}

	return total, nil
}
