package client

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// RetrievalMode is the outcome of the direct-versus-download decision.
type RetrievalMode int

const (
	// RetrievalDownload stores the rendition locally.
	RetrievalDownload RetrievalMode = iota
	// RetrievalDirect hands out the remote URL.
	RetrievalDirect
)

func (m RetrievalMode) String() string {
	if m == RetrievalDirect {
		return "direct"
	}
	return "download"
}

// Decision is a RetrievalMode with the reason it was chosen.
type Decision struct {
	Mode   RetrievalMode
	Reason string
}

// ChooseRetrievalMode decides whether f may be streamed directly. Only a
// rendition with a known size at or below maxDirect qualifies; an unknown
// size counts as over the ceiling.
func ChooseRetrievalMode(f StreamFormat, maxDirect int64) Decision {
	if !f.SizeKnown() {
		return Decision{Mode: RetrievalDownload, Reason: "size unknown"}
	}
	ceiling := humanize.IBytes(uint64(maxDirect))
	if f.ApproxSize > maxDirect {
		return Decision{
			Mode:   RetrievalDownload,
			Reason: fmt.Sprintf("size %s exceeds %s ceiling", humanize.IBytes(uint64(f.ApproxSize)), ceiling),
		}
	}
	return Decision{
		Mode:   RetrievalDirect,
		Reason: fmt.Sprintf("size %s within %s ceiling", humanize.IBytes(uint64(f.ApproxSize)), ceiling),
	}
}
