package models

// Bounds enforced by the validation predicates. The platform the original
// registry targeted baked these into its types; here they are explicit
// runtime checks invoked before any state write.
const (
	MaxLatitudeE6  = 90_000_000
	MaxLongitudeE6 = 180_000_000

	MaxDescriptionLen = 512
	MaxImageRefLen    = 256

	MinGoals = 1
	MaxGoals = 5

	MaxTags = 10

	MaxStatusLabelLen = 20

	MaxRoyaltyBps = 10_000
)

// ValidGPS reports whether both coordinates sit inside their inclusive
// micro-degree ranges.
func ValidGPS(latE6, lngE6 int64) bool {
	if latE6 < -MaxLatitudeE6 || latE6 > MaxLatitudeE6 {
		return false
	}
	return lngE6 >= -MaxLongitudeE6 && lngE6 <= MaxLongitudeE6
}

// ValidGoals reports whether the conservation-goal list holds between 1 and
// 5 entries.
func ValidGoals(goals []string) bool {
	return len(goals) >= MinGoals && len(goals) <= MaxGoals
}

// ValidMetadataText reports whether description and image reference fit
// their ceilings.
func ValidMetadataText(description, imageRef string) bool {
	return len(description) <= MaxDescriptionLen && len(imageRef) <= MaxImageRefLen
}

// ValidRoyalty reports whether the rate is a legal basis-point value.
func ValidRoyalty(bps uint16) bool {
	return bps <= MaxRoyaltyBps
}

// ValidTagBudget reports whether an existing tag list can absorb added
// entries without exceeding the per-token ceiling.
func ValidTagBudget(existing, added int) bool {
	return existing+added <= MaxTags
}

// ValidStatusLabel reports whether a lifecycle label fits its ceiling.
func ValidStatusLabel(label string) bool {
	return len(label) <= MaxStatusLabelLen
}
