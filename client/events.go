package client

// Event reports progress of a client operation.
type Event struct {
	Stage   string // "probe", "download", "transcode", "playlist", "credentials"
	Phase   string // "start", "complete", "failure", "cached", "fallback"
	VideoID string
	Path    string
	Detail  string
}

func (c *Client) emitEvent(stage, phase, videoID, path, detail string) {
	if c == nil || c.config.OnEvent == nil {
		return
	}
	c.config.OnEvent(Event{
		Stage:   stage,
		Phase:   phase,
		VideoID: videoID,
		Path:    path,
		Detail:  detail,
	})
}
