// Package feed assembles and serializes the podcast RSS document.
package feed

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/beevik/etree"

	"podfeed/internal/config"
	"podfeed/internal/models"
)

// FileName is the output file written into the episode folder.
const FileName = "feed.xml"

const (
	itunesNS      = "http://www.itunes.com/dtds/podcast-1.0.dtd"
	enclosureType = "audio/mpeg"
	pubDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"
)

// Build assembles the RSS 2.0 document for a channel and its episodes,
// in the order given. Enclosure URLs point at raw.githubusercontent.com
// for the named repository; subfolder is the episode folder's path
// within it.
func Build(cfg config.Podcast, episodes []models.Episode, owner, repo, subfolder string) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rss := doc.CreateElement("rss")
	rss.CreateAttr("version", "2.0")
	rss.CreateAttr("xmlns:itunes", itunesNS)

	channel := rss.CreateElement("channel")
	channel.CreateElement("title").SetText(cfg.Title)
	channel.CreateElement("description").SetText(cfg.Description)
	channel.CreateElement("link").SetText(cfg.Link)
	channel.CreateElement("language").SetText(cfg.Language)
	channel.CreateElement("itunes:author").SetText(cfg.Author)
	channel.CreateElement("itunes:summary").SetText(cfg.Description)
	if cfg.Image != "" {
		channel.CreateElement("itunes:image").CreateAttr("href", cfg.Image)
	}

	for _, ep := range episodes {
		item := channel.CreateElement("item")
		item.CreateElement("title").SetText(ep.Title)
		item.CreateElement("description").SetText(ep.Description)
		item.CreateElement("itunes:summary").SetText(ep.Description)
		item.CreateElement("pubDate").SetText(pubDate(ep.ModifiedAt))

		enclosure := item.CreateElement("enclosure")
		enclosure.CreateAttr("url", EnclosureURL(owner, repo, subfolder, ep.Filename))
		enclosure.CreateAttr("type", enclosureType)
		enclosure.CreateAttr("length", strconv.FormatInt(ep.Size, 10))

		item.CreateElement("itunes:duration").SetText(strconv.FormatInt(ep.Duration, 10))
	}

	doc.Indent(2)
	return doc
}

// EnclosureURL returns the raw-content URL for an episode file. The shape
// is a deployment contract; callers depend on it exactly.
func EnclosureURL(owner, repo, subfolder, filename string) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/main/%s/%s",
		owner, repo, filepath.ToSlash(subfolder), filename)
}

// Write serializes the document to feed.xml inside dir, overwriting any
// previous feed, and returns the written path.
func Write(doc *etree.Document, dir string) (string, error) {
	path := filepath.Join(dir, FileName)
	if err := doc.WriteToFile(path); err != nil {
		return "", fmt.Errorf("could not write feed to %s: %w", path, err)
	}
	return path, nil
}

func pubDate(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(pubDateLayout)
}
