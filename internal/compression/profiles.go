package compression

import (
	"fmt"
	"strings"
)

// Purpose is the caller-declared use of an image
type Purpose string

const (
	PurposeProduct  Purpose = "product"
	PurposeBanner   Purpose = "banner"
	PurposeCategory Purpose = "category"
	PurposeGeneral  Purpose = "general"
	PurposeQuick    Purpose = "quick"
)

// Purposes lists every accepted purpose token
var Purposes = []Purpose{PurposeProduct, PurposeBanner, PurposeCategory, PurposeGeneral, PurposeQuick}

// ParsePurpose normalises s. An empty string selects PurposeQuick.
func ParsePurpose(s string) (Purpose, error) {
	p := Purpose(strings.ToLower(strings.TrimSpace(s)))
	if p == "" {
		return PurposeQuick, nil
	}
	for _, known := range Purposes {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownPurpose, s)
}

var (
	ProductProfile = Profile{
		Name:           "product",
		MaxWidth:       1000,
		MaxHeight:      1000,
		InitialQuality: 0.8,
		MaxSizeKB:      200,
		Format:         FormatJPEG,
	}

	BannerProfile = Profile{
		Name:           "banner",
		MaxWidth:       1400,
		MaxHeight:      800,
		InitialQuality: 0.82,
		MaxSizeKB:      300,
		Format:         FormatJPEG,
	}
)

const (
	kb = 1024
	mb = 1024 * kb
)

// Tier pairs a source size threshold with the profile used above it
type Tier struct {
	ThresholdBytes int64
	Profile        Profile
}

// QuickTiers is evaluated top-down; the first tier whose threshold the
// source size strictly exceeds wins. The last tier catches everything.
var QuickTiers = []Tier{
	{ThresholdBytes: 3 * mb, Profile: Profile{Name: "quick-xl", MaxWidth: 1200, MaxHeight: 1200, InitialQuality: 0.7, MaxSizeKB: 200, Format: FormatJPEG}},
	{ThresholdBytes: 1 * mb, Profile: Profile{Name: "quick-l", MaxWidth: 1400, MaxHeight: 1400, InitialQuality: 0.75, MaxSizeKB: 220, Format: FormatJPEG}},
	{ThresholdBytes: 500 * kb, Profile: Profile{Name: "quick-m", MaxWidth: 1500, MaxHeight: 1500, InitialQuality: 0.8, MaxSizeKB: 230, Format: FormatJPEG}},
	{ThresholdBytes: 200 * kb, Profile: Profile{Name: "quick-s", MaxWidth: 1600, MaxHeight: 1600, InitialQuality: 0.85, MaxSizeKB: 250, Format: FormatJPEG}},
	{ThresholdBytes: 0, Profile: Profile{Name: "quick-xs", MaxWidth: 1600, MaxHeight: 1600, InitialQuality: 0.88, MaxSizeKB: 250, Format: FormatJPEG}},
}

// QuickProfile selects the tier profile for a source of the given size
func QuickProfile(sizeBytes int64) Profile {
	for _, t := range QuickTiers {
		if sizeBytes > t.ThresholdBytes {
			return t.Profile
		}
	}
	return QuickTiers[len(QuickTiers)-1].Profile
}

// ProfileFor resolves the profile for a purpose and source size.
// Category imagery shares the banner profile; anything else not product or
// banner goes through the size tiers.
func ProfileFor(purpose Purpose, sizeBytes int64) Profile {
	switch purpose {
	case PurposeProduct:
		return ProductProfile
	case PurposeBanner, PurposeCategory:
		return BannerProfile
	default:
		return QuickProfile(sizeBytes)
	}
}

// Profiles returns every fixed profile, wrappers first
func Profiles() []Profile {
	out := []Profile{ProductProfile, BannerProfile}
	for _, t := range QuickTiers {
		out = append(out, t.Profile)
	}
	return out
}
