package topic

import (
	"strings"
)

// Topic segments shared between the AC and the management consumers.
// Changing them breaks existing subscribers.
const (
	// SegmentAC scopes every topic to one access controller.
	// Structure: {root}/ac/{acID}/...
	SegmentAC = "ac"

	// SuffixReset carries reset notifications (AC -> management).
	// Structure: {root}/ac/{acID}/reset
	SuffixReset = "reset"

	// SuffixStatus carries the retained backend online/offline marker.
	// Structure: {root}/ac/{acID}/status
	SuffixStatus = "status"
)

// Wildcard is the MQTT single-level wildcard.
const Wildcard = "+"

// Builder constructs MQTT topic strings under a fixed root namespace.
type Builder struct {
	root string
}

// NewBuilder creates a Builder rooted at root (e.g. "capwap/v1"). Surrounding
// slashes are trimmed.
func NewBuilder(root string) *Builder {
	return &Builder{root: strings.Trim(root, "/")}
}

// Reset returns the reset notification topic of the given AC.
func (b *Builder) Reset(acID string) string {
	return b.build(acID, SuffixReset)
}

// ResetWildcard returns the filter matching reset notifications of every AC.
func (b *Builder) ResetWildcard() string {
	return b.build(Wildcard, SuffixReset)
}

// Status returns the retained status topic of the given AC.
func (b *Builder) Status(acID string) string {
	return b.build(acID, SuffixStatus)
}

func (b *Builder) build(acID, suffix string) string {
	return strings.Join([]string{b.root, SegmentAC, acID, suffix}, "/")
}
