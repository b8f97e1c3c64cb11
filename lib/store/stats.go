package store

import (
	"context"
	"fmt"

	"github.com/icco/podcast/lib/types"
	"github.com/icco/podcast/models"
)

// Stats counts rows in each table and summarises appearance ratings.
func (s *Store) Stats(ctx context.Context) (*types.StatsData, error) {
	var stats types.StatsData
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Episode{}).Count(&stats.TotalEpisodes).Error; err != nil {
		return nil, fmt.Errorf("failed to count episodes: %w", err)
	}
	if err := db.Model(&models.Guest{}).Count(&stats.TotalGuests).Error; err != nil {
		return nil, fmt.Errorf("failed to count guests: %w", err)
	}
	if err := db.Model(&models.Appearance{}).Count(&stats.TotalAppearances).Error; err != nil {
		return nil, fmt.Errorf("failed to count appearances: %w", err)
	}
	if stats.TotalAppearances == 0 {
		return &stats, nil
	}

	if err := db.Model(&models.Appearance{}).
		Select("rating, COUNT(*) AS count").
		Group("rating").
		Order("rating ASC").
		Scan(&stats.RatingDistribution).Error; err != nil {
		return nil, fmt.Errorf("failed to get rating distribution: %w", err)
	}

	var sum int64
	for _, rc := range stats.RatingDistribution {
		sum += int64(rc.Rating) * rc.Count
	}
	stats.AverageRating = float64(sum) / float64(stats.TotalAppearances)

	return &stats, nil
}
