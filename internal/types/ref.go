package types

// Kind classifies what a CanonicalRef points at.
type Kind int

const (
	KindVideo Kind = iota + 1
	KindPlaylist
	// KindQuery is free text that has to go through search first.
	KindQuery
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindPlaylist:
		return "playlist"
	case KindQuery:
		return "query"
	default:
		return "unknown"
	}
}

// CanonicalRef is a normalized reference to a video, a playlist or a search query.
// For KindVideo the ID is always set and Link is the canonical watch URL.
// For KindQuery Link holds the query text and ID is empty.
type CanonicalRef struct {
	ID   string
	Kind Kind
	Link string
}

// RetrievalResult is what the retrieval orchestrator hands back.
// When Direct is true Location is a remote URL, otherwise it is a local
// path to a file that exists and is owned by the caller.
type RetrievalResult struct {
	Location string
	Direct   bool
	FormatID string
	// Reason records why the direct or download path was taken.
	Reason string
}
