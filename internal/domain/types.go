// Package domain holds the values that flow through the notes pipeline:
// source locator -> audio asset -> transcript.
package domain

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"
)

// ErrEmptySource is returned when a source locator is blank.
var ErrEmptySource = errors.New("source is empty")

// ErrNotRemote is returned when a locator that must be a URL is not one.
var ErrNotRemote = errors.New("source is not an http(s) URL")

// ErrEmptyTranscript is returned when a transcript would carry no text.
var ErrEmptyTranscript = errors.New("transcript text is empty")

// Source is a caller-supplied reference to media: a remote URL or a local path.
type Source struct {
	locator string
}

// ParseSource validates a locator and wraps it as a Source.
func ParseSource(raw string) (Source, error) {
	locator := strings.TrimSpace(raw)
	if locator == "" {
		return Source{}, ErrEmptySource
	}
	return Source{locator: locator}, nil
}

// ParseRemoteSource parses a locator that must name remote media. Bare
// host forms such as "youtu.be/abc" get an https scheme.
func ParseRemoteSource(raw string) (Source, error) {
	src, err := ParseSource(raw)
	if err != nil {
		return Source{}, err
	}
	if !strings.Contains(src.locator, "://") {
		src.locator = "https://" + src.locator
	}
	if !src.IsRemote() {
		return Source{}, fmt.Errorf("%w: %s", ErrNotRemote, raw)
	}
	return src, nil
}

// Locator returns the locator, with the scheme added by ParseRemoteSource.
func (s Source) Locator() string {
	return s.locator
}

// IsRemote reports whether the source is an http(s) URL.
func (s Source) IsRemote() bool {
	u, err := url.Parse(s.locator)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

func (s Source) String() string {
	return s.locator
}

// AudioAsset is a local audio file produced by acquisition.
// Owned assets were created by the pipeline and are deleted after the run
// unless the caller asks to keep them.
type AudioAsset struct {
	Path   string
	Owned  bool
	Size   int64
	Digest string
}

// BaseName is the file name without directory and extension. Output
// artifacts are named after it.
func (a AudioAsset) BaseName() string {
	base := filepath.Base(a.Path)
	name := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "audio"
	}
	return name
}

// Segment is one time-aligned piece of a transcript.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Transcript is the text output of speech recognition.
type Transcript struct {
	Text     string
	Language string
	Segments []Segment
}

// NewTranscript builds a Transcript, rejecting blank text.
func NewTranscript(text, language string, segments []Segment) (Transcript, error) {
	if strings.TrimSpace(text) == "" {
		return Transcript{}, ErrEmptyTranscript
	}
	return Transcript{
		Text:     text,
		Language: language,
		Segments: segments,
	}, nil
}

// TextFromSegments joins segment texts with single spaces.
func TextFromSegments(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// FormatTimestamp renders d as HH:MM:SS.
func FormatTimestamp(d time.Duration) string {
	total := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
