package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/icco/podcast/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seedAppearance struct {
	rating  int
	episode int
	guest   int
}

var (
	seedEpisodes = []models.Episode{
		{Date: "1/11/99", Number: 1},
		{Date: "1/12/99", Number: 2},
		{Date: "1/13/99", Number: 3},
		{Date: "1/14/99", Number: 4},
	}
	seedGuests = []models.Guest{
		{Name: "Michael J. Fox", Occupation: "actor"},
		{Name: "Sandra Bernhard", Occupation: "Comedian"},
		{Name: "Tracey Ullman", Occupation: "television actress"},
		{Name: "Robin Williams", Occupation: "actor"},
	}
	// Indexes into seedEpisodes and seedGuests.
	seedAppearances = []seedAppearance{
		{rating: 4, episode: 0, guest: 0},
		{rating: 5, episode: 0, guest: 1},
		{rating: 3, episode: 1, guest: 2},
		{rating: 5, episode: 1, guest: 3},
		{rating: 4, episode: 2, guest: 0},
		{rating: 2, episode: 3, guest: 1},
	}
)

// Seed replaces all data with the demo set of four episodes, four guests and
// six appearances.
func (s *Store) Seed(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&models.Appearance{}, &models.Episode{}, &models.Guest{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return fmt.Errorf("failed to clear table: %w", err)
			}
		}

		episodes := make([]models.Episode, len(seedEpisodes))
		copy(episodes, seedEpisodes)
		if err := tx.Create(&episodes).Error; err != nil {
			return fmt.Errorf("failed to create episodes: %w", err)
		}

		guests := make([]models.Guest, len(seedGuests))
		copy(guests, seedGuests)
		if err := tx.Create(&guests).Error; err != nil {
			return fmt.Errorf("failed to create guests: %w", err)
		}

		for _, sa := range seedAppearances {
			a, err := models.NewAppearance(sa.rating, episodes[sa.episode].ID, guests[sa.guest].ID)
			if err != nil {
				return err
			}
			if err := tx.Omit(clause.Associations).Create(a).Error; err != nil {
				return fmt.Errorf("failed to create appearance: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Database seeded",
		slog.Int("episodes", len(seedEpisodes)),
		slog.Int("guests", len(seedGuests)),
		slog.Int("appearances", len(seedAppearances)))
	return nil
}
