package vision

// Stats aggregates web-search volume and spend.
type Stats struct {
	Requests            int64
	InterestingRequests int64
	ArtworksSearched    int64
	TotalCostUnits      int64
}
