package feed

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/grvbrk/tubepulse/internal/models"
)

const (
	// MaxEntries caps the number of records kept from one feed document.
	MaxEntries = 15

	UnknownAuthor = "Unknown"
	WatchURLBase  = "https://www.youtube.com/watch?v="
)

// document is the outer container. Any root element decodes; only <feed>
// carries entries.
type document struct {
	XMLName xml.Name
	// A lone <entry> decodes into a one-element slice, the same as a
	// sequence of one.
	Entries []entry `xml:"entry"`
}

type entry struct {
	Inner     string     `xml:",innerxml"`
	VideoID   string     `xml:"videoId"`
	Title     string     `xml:"title"`
	Author    *author    `xml:"author"`
	Links     []link     `xml:"link"`
	Published string     `xml:"published"`
	Group     *mediaInfo `xml:"group"`
}

type author struct {
	Name string `xml:"name"`
}

type link struct {
	Rel  string `xml:"rel,attr"`
	Href string `xml:"href,attr"`
}

type mediaInfo struct {
	Thumbnails  []thumbnail `xml:"thumbnail"`
	Description *string     `xml:"description"`
}

type thumbnail struct {
	URL string `xml:"url,attr"`
}

// Normalize parses a raw feed document into canonical video records, in feed
// order, truncated to MaxEntries. It fails only when doc is not well-formed
// markup; a document without entries yields an empty slice.
func Normalize(doc []byte) ([]models.Video, error) {
	var root document
	dec := xml.NewDecoder(bytes.NewReader(doc))
	dec.Strict = true
	dec.CharsetReader = passthroughCharset

	if err := dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("no root element")
		}
		return nil, &MalformedFeedError{Err: err}
	}

	videos := make([]models.Video, 0, min(len(root.Entries), MaxEntries))
	if root.XMLName.Local != "feed" {
		return videos, nil
	}

	for _, e := range root.Entries {
		if len(videos) == MaxEntries {
			break
		}
		if strings.TrimSpace(e.Inner) == "" {
			continue
		}
		videos = append(videos, e.project())
	}
	return videos, nil
}

func (e entry) project() models.Video {
	v := models.Video{
		ID:          e.VideoID,
		Title:       e.Title,
		Author:      UnknownAuthor,
		PublishedAt: e.Published,
	}

	if e.Author != nil && strings.TrimSpace(e.Author.Name) != "" {
		v.Author = e.Author.Name
	}

	v.Link = e.primaryLink()
	if v.Link == "" {
		v.Link = WatchURL(e.VideoID)
	}

	if e.Group != nil {
		for _, th := range e.Group.Thumbnails {
			if th.URL != "" {
				v.Thumbnail = th.URL
				break
			}
		}
		if e.Group.Description != nil {
			v.Description = *e.Group.Description
		}
	}
	return v
}

// primaryLink prefers rel="alternate" and falls back to the first link that
// has an href.
func (e entry) primaryLink() string {
	first := ""
	for _, l := range e.Links {
		href := strings.TrimSpace(l.Href)
		if href == "" {
			continue
		}
		if l.Rel == "" || l.Rel == "alternate" {
			return href
		}
		if first == "" {
			first = href
		}
	}
	return first
}

// WatchURL synthesizes the canonical watch link for a video id.
func WatchURL(id string) string {
	return WatchURLBase + id
}

// passthroughCharset accepts documents that declare a non-UTF-8 encoding;
// upstream feeds are UTF-8 in practice regardless of the declaration.
func passthroughCharset(_ string, input io.Reader) (io.Reader, error) {
	return input, nil
}
