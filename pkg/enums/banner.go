package enums

// BannerType says who a campus banner promotes.
type BannerType string

const (
	BannerTypeSponsor      BannerType = "sponsor"
	BannerTypeEvent        BannerType = "event"
	BannerTypeAnnouncement BannerType = "announcement"
	BannerTypeClub         BannerType = "club"
)

// IsValid reports whether the value is a known BannerType.
func (b BannerType) IsValid() bool {
	switch b {
	case BannerTypeSponsor, BannerTypeEvent, BannerTypeAnnouncement, BannerTypeClub:
		return true
	}
	return false
}
