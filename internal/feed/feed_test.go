package feed

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"podfeed/internal/config"
	"podfeed/internal/models"
)

func testEpisodes() []models.Episode {
	return []models.Episode{
		{
			Filename:    "a.mp3",
			Title:       "First",
			Artist:      "Unknown",
			Album:       "Unknown",
			Description: "Show notes here",
			Duration:    123,
			Size:        4567,
			ModifiedAt:  time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		},
		{
			Filename:    "b.mp3",
			Title:       "Second",
			Artist:      "Unknown",
			Album:       "Unknown",
			Description: "Second",
			Duration:    0,
			Size:        89,
			ModifiedAt:  time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC),
		},
	}
}

func channelOf(t *testing.T, doc *etree.Document) *etree.Element {
	t.Helper()
	root := doc.Root()
	require.NotNil(t, root)
	require.Equal(t, "rss", root.Tag)
	channel := root.SelectElement("channel")
	require.NotNil(t, channel)
	return channel
}

func TestBuildChannel(t *testing.T) {
	cfg := config.Podcast{
		Title:       "My Show",
		Description: "Weekly ramblings",
		Link:        "https://show.example",
		Language:    "en-us",
		Author:      "Alex",
	}

	doc := Build(cfg, nil, "owner", "repo", "episodes")
	channel := channelOf(t, doc)

	assert.Equal(t, "2.0", doc.Root().SelectAttrValue("version", ""))
	assert.Equal(t, "http://www.itunes.com/dtds/podcast-1.0.dtd",
		doc.Root().SelectAttrValue("xmlns:itunes", ""))

	assert.Equal(t, "My Show", channel.SelectElement("title").Text())
	assert.Equal(t, "Weekly ramblings", channel.SelectElement("description").Text())
	assert.Equal(t, "https://show.example", channel.SelectElement("link").Text())
	assert.Equal(t, "en-us", channel.SelectElement("language").Text())
	assert.Equal(t, "Alex", channel.SelectElement("itunes:author").Text())
	assert.Equal(t, "Weekly ramblings", channel.SelectElement("itunes:summary").Text())
	assert.Nil(t, channel.SelectElement("itunes:image"))
}

func TestBuildChannelImage(t *testing.T) {
	cfg := config.Defaults()
	cfg.Image = "http://x/y.png"

	channel := channelOf(t, Build(cfg, nil, "owner", "repo", "episodes"))
	images := channel.SelectElements("itunes:image")
	require.Len(t, images, 1)
	assert.Equal(t, "http://x/y.png", images[0].SelectAttrValue("href", ""))
}

func TestBuildItems(t *testing.T) {
	doc := Build(config.Defaults(), testEpisodes(), "owner", "repo", "episodes")
	items := channelOf(t, doc).SelectElements("item")
	require.Len(t, items, 2)

	first := items[0]
	assert.Equal(t, "First", first.SelectElement("title").Text())
	assert.Equal(t, "Show notes here", first.SelectElement("description").Text())
	assert.Equal(t, "Show notes here", first.SelectElement("itunes:summary").Text())
	assert.Equal(t, "Fri, 01 Mar 2024 10:30:00 GMT", first.SelectElement("pubDate").Text())
	assert.Equal(t, "123", first.SelectElement("itunes:duration").Text())

	enclosure := first.SelectElement("enclosure")
	require.NotNil(t, enclosure)
	assert.Equal(t, "https://raw.githubusercontent.com/owner/repo/main/episodes/a.mp3",
		enclosure.SelectAttrValue("url", ""))
	assert.Equal(t, "audio/mpeg", enclosure.SelectAttrValue("type", ""))
	assert.Equal(t, "4567", enclosure.SelectAttrValue("length", ""))

	// Episode order is preserved: a.mp3 before b.mp3.
	assert.Equal(t, "Second", items[1].SelectElement("title").Text())
	assert.Equal(t, "0", items[1].SelectElement("itunes:duration").Text())
}

func TestBuildIsDeterministic(t *testing.T) {
	first, err := Build(config.Defaults(), testEpisodes(), "owner", "repo", "episodes").WriteToString()
	require.NoError(t, err)
	second, err := Build(config.Defaults(), testEpisodes(), "owner", "repo", "episodes").WriteToString()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEnclosureURL(t *testing.T) {
	assert.Equal(t,
		"https://raw.githubusercontent.com/me/pods/main/season1/ep.mp3",
		EnclosureURL("me", "pods", "season1", "ep.mp3"))
}

func TestWriteOverwrites(t *testing.T) {
	dir := t.TempDir()

	path, err := Write(Build(config.Defaults(), testEpisodes(), "o", "r", "s"), dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, string(data), "<rss")

	_, err = Write(Build(config.Defaults(), nil, "o", "r", "s"), dir)
	require.NoError(t, err)

	rewritten, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(rewritten), "<item>")
}
