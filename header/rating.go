package header

import "fmt"

// Conventional values of the rating field. The field is free text and other
// values are kept as they are.
const (
	RatingEveryone  = "Everyone"
	RatingTeen      = "Teen+"
	RatingMature    = "Mature 16+"
	RatingAdult     = "Adult 18+"
	RatingAdultOnly = "Adults Only"
	RatingAOClean   = "AOClean"
)

// PatchSetting selects where the client finds the patch for a map.
type PatchSetting int

const (
	NoPatch PatchSetting = iota
	UseLocalPath
	UseRemotePatch
)

func (p PatchSetting) String() string {
	switch p {
	case NoPatch:
		return "none"
	case UseLocalPath:
		return "local"
	case UseRemotePatch:
		return "remote"
	default:
		return fmt.Sprintf("PatchSetting(%d)", int(p))
	}
}

// ParsePatchSetting is the inverse of PatchSetting.String for the named
// settings.
func ParsePatchSetting(s string) (PatchSetting, error) {
	for _, p := range []PatchSetting{NoPatch, UseLocalPath, UseRemotePatch} {
		if p.String() == s {
			return p, nil
		}
	}
	return NoPatch, fmt.Errorf("header: unknown patch setting %q", s)
}
