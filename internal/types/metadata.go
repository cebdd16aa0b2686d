package types

// TrackMetadata describes a video as reported by the metadata search provider.
type TrackMetadata struct {
	ID    string
	Title string
	// DurationDisplay is the provider's display string, e.g. "3:45".
	// Empty when the provider reported none.
	DurationDisplay string
	// DurationSeconds is 0 when the duration is absent.
	DurationSeconds int
	Thumbnail       string
	Link            string
	Channel         string
}
