package vision

// Category is the commercial/institutional class of a web domain.
type Category string

// Category constants.
const (
	CategoryAuction     Category = "auction"
	CategoryMarketplace Category = "marketplace"
	CategoryMuseum      Category = "museum"
	CategorySocial      Category = "social"
	CategoryAcademic    Category = "academic"
	CategoryOther       Category = "other"
)

// IsValid checks if the category is one of the supported values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryAuction, CategoryMarketplace, CategoryMuseum,
		CategorySocial, CategoryAcademic, CategoryOther:
		return true
	}
	return false
}

// IsCommercial reports whether the category sells artworks (auction or marketplace).
func (c Category) IsCommercial() bool {
	return c == CategoryAuction || c == CategoryMarketplace
}
