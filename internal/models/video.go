package models

// Video is the canonical record for one feed entry. Optional fields carry
// sentinel defaults instead of being left unset.
type Video struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Link        string `json:"link"`
	PublishedAt string `json:"publishedAt"`
	Thumbnail   string `json:"thumbnail"`
	Description string `json:"description"`
}

type ChannelAnalytics struct {
	AvgLength    string `json:"avgLength"`
	Cadence      string `json:"cadence"`
	LatestUpload string `json:"latestUpload"`
	SampleSize   int    `json:"sampleSize"`
}
