package enums

// LocationType is the building level or zone of a campus location.
type LocationType string

const (
	LocationTypeParking      LocationType = "parking"
	LocationTypeGroundFloor  LocationType = "ground_floor"
	LocationTypeFirstFloor   LocationType = "first_floor"
	LocationTypeSecondFloor  LocationType = "second_floor"
	LocationTypeThirdFloor   LocationType = "third_floor"
	LocationTypeFourthFloor  LocationType = "fourth_floor"
	LocationTypeFifthFloor   LocationType = "fifth_floor"
	LocationTypeSixthFloor   LocationType = "sixth_floor"
	LocationTypeSeventhFloor LocationType = "seventh_floor"
	LocationTypeOther        LocationType = "other"
)

var locationTypeLabels = map[LocationType]string{
	LocationTypeParking:      "Parking Space",
	LocationTypeGroundFloor:  "Ground Floor",
	LocationTypeFirstFloor:   "First Floor",
	LocationTypeSecondFloor:  "Second Floor",
	LocationTypeThirdFloor:   "Third Floor",
	LocationTypeFourthFloor:  "Fourth Floor",
	LocationTypeFifthFloor:   "Fifth Floor",
	LocationTypeSixthFloor:   "Sixth Floor",
	LocationTypeSeventhFloor: "Seventh Floor",
	LocationTypeOther:        "Other",
}

// IsValid reports whether the value is a known LocationType.
func (l LocationType) IsValid() bool {
	_, ok := locationTypeLabels[l]
	return ok
}

// Label returns the display name, falling back to the raw value.
func (l LocationType) Label() string {
	if label, ok := locationTypeLabels[l]; ok {
		return label
	}
	return string(l)
}
