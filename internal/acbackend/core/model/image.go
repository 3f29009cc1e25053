package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidImageIdentifier is returned for an identifier that cannot be
// put on the wire.
var ErrInvalidImageIdentifier = errors.New("invalid image identifier")

// ImageIdentifier names the startup image a WTP reported before a reset.
// Values are immutable once built; pass them by value.
type ImageIdentifier struct {
	Vendor  string `json:"vendor" xml:"Vendor"`
	Model   string `json:"model" xml:"Model"`
	Version string `json:"version" xml:"Version"`
}

// NewImageIdentifier builds an identifier and validates it.
func NewImageIdentifier(vendor, model, version string) (ImageIdentifier, error) {
	img := ImageIdentifier{Vendor: vendor, Model: model, Version: version}
	if err := img.Validate(); err != nil {
		return ImageIdentifier{}, err
	}
	return img, nil
}

// Validate checks structural completeness only: every field is non-empty and
// consists of characters XML can carry.
func (i ImageIdentifier) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"vendor", i.Vendor},
		{"model", i.Model},
		{"version", i.Version},
	} {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidImageIdentifier, f.name)
		}
		if !isXMLText(f.value) {
			return fmt.Errorf("%w: %s contains characters not allowed in XML", ErrInvalidImageIdentifier, f.name)
		}
	}
	return nil
}

// String renders the identifier as vendor/model@version.
func (i ImageIdentifier) String() string {
	return i.Vendor + "/" + i.Model + "@" + i.Version
}

// ObjectKey is the object store key of the image: vendor/model/version.
func (i ImageIdentifier) ObjectKey() string {
	return i.Vendor + "/" + i.Model + "/" + i.Version
}

// isXMLText reports whether s is valid UTF-8 made of XML 1.0 Char runes.
func isXMLText(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		switch {
		case r == 0x09 || r == 0x0A || r == 0x0D:
		case r >= 0x20 && r <= 0xD7FF:
		case r >= 0xE000 && r <= 0xFFFD:
		case r >= 0x10000 && r <= 0x10FFFF:
		default:
			return false
		}
	}
	return true
}
