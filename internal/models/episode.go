package models

import "time"

// Episode represents the metadata rendered for a single audio file.
type Episode struct {
	Filename    string
	Title       string
	Artist      string
	Album       string
	Description string
	Duration    int64 // whole seconds, 0 when the stream could not be decoded
	Size        int64 // bytes on disk
	ModifiedAt  time.Time
}
