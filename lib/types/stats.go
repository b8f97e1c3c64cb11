package types

// StatsData represents statistics about the podcast database.
type StatsData struct {
	TotalEpisodes      int64         `json:"episodes"`
	TotalGuests        int64         `json:"guests"`
	TotalAppearances   int64         `json:"appearances"`
	AverageRating      float64       `json:"average_rating"`
	RatingDistribution []RatingCount `json:"rating_distribution,omitempty"`
}

// RatingCount is the number of appearances with a given rating.
type RatingCount struct {
	Rating int   `json:"rating"`
	Count  int64 `json:"count"`
}
