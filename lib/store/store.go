package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/icco/podcast/lib/validation"
	"github.com/icco/podcast/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the only component that reads or writes podcast data. It applies
// the cascade and referential rules itself, so behaviour does not depend on
// the backing database enforcing its foreign keys.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// New returns a Store backed by db.
func New(db *gorm.DB, logger *slog.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// ListEpisodes returns every episode ordered by ID, without appearances.
func (s *Store) ListEpisodes(ctx context.Context) ([]models.Episode, error) {
	var episodes []models.Episode
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&episodes).Error; err != nil {
		return nil, fmt.Errorf("failed to list episodes: %w", err)
	}
	return episodes, nil
}

// GetEpisode returns the episode with its appearances, each carrying its
// guest.
func (s *Store) GetEpisode(ctx context.Context, id uint) (*models.Episode, error) {
	var episode models.Episode
	err := s.db.WithContext(ctx).
		Preload("Appearances", func(db *gorm.DB) *gorm.DB {
			return db.Order("appearances.id ASC")
		}).
		Preload("Appearances.Guest").
		First(&episode, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("Episode", id)
		}
		return nil, fmt.Errorf("failed to get episode %d: %w", id, err)
	}
	return &episode, nil
}

// DeleteEpisode removes the episode and all of its appearances in one
// transaction.
func (s *Store) DeleteEpisode(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteWithAppearances(tx, &models.Episode{}, "Episode", "episode_id", id)
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Deleted episode", slog.Uint64("id", uint64(id)))
	return nil
}

// ListGuests returns every guest ordered by ID, without appearances.
func (s *Store) ListGuests(ctx context.Context) ([]models.Guest, error) {
	var guests []models.Guest
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&guests).Error; err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	return guests, nil
}

// DeleteGuest removes the guest and all of their appearances in one
// transaction.
func (s *Store) DeleteGuest(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteWithAppearances(tx, &models.Guest{}, "Guest", "guest_id", id)
	})
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Deleted guest", slog.Uint64("id", uint64(id)))
	return nil
}

// CreateAppearance validates the rating before touching the database, then
// checks both parents exist and inserts the row. The returned appearance has
// its Episode and Guest populated.
func (s *Store) CreateAppearance(ctx context.Context, rating int, episodeID, guestID uint) (*models.Appearance, error) {
	appearance, err := models.NewAppearance(rating, episodeID, guestID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var episode models.Episode
		if err := first(tx, &episode, "Episode", episodeID); err != nil {
			return err
		}
		var guest models.Guest
		if err := first(tx, &guest, "Guest", guestID); err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Create(appearance).Error; err != nil {
			return fmt.Errorf("failed to create appearance: %w", err)
		}
		appearance.Episode = &episode
		appearance.Guest = &guest
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Created appearance",
		slog.Uint64("id", uint64(appearance.ID)),
		slog.Uint64("episode_id", uint64(episodeID)),
		slog.Uint64("guest_id", uint64(guestID)),
		slog.Int("rating", appearance.Rating))
	return appearance, nil
}

// ListAppearances returns every appearance ordered by ID with its episode and
// guest loaded.
func (s *Store) ListAppearances(ctx context.Context) ([]models.Appearance, error) {
	var appearances []models.Appearance
	err := s.db.WithContext(ctx).
		Preload("Episode").
		Preload("Guest").
		Order("id ASC").
		Find(&appearances).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list appearances: %w", err)
	}
	return appearances, nil
}

// UpdateAppearanceRating changes the rating of an existing appearance.
// Out of range ratings are rejected before any query runs.
func (s *Store) UpdateAppearanceRating(ctx context.Context, id uint, rating int) (*models.Appearance, error) {
	if _, err := validation.ValidateRating(rating); err != nil {
		return nil, err
	}

	var appearance models.Appearance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := first(tx, &appearance, "Appearance", id); err != nil {
			return err
		}
		if err := appearance.SetRating(rating); err != nil {
			return err
		}
		if err := tx.Model(&appearance).Update("rating", appearance.Rating).Error; err != nil {
			return fmt.Errorf("failed to update appearance %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &appearance, nil
}

func first(tx *gorm.DB, dest interface{}, entity string, id uint) error {
	if err := tx.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(entity, id)
		}
		return fmt.Errorf("failed to get %s %d: %w", entity, id, err)
	}
	return nil
}

// deleteWithAppearances deletes the parent row identified by id together with
// the appearances whose fkColumn references it. It must run inside tx.
func deleteWithAppearances(tx *gorm.DB, parent interface{}, entity, fkColumn string, id uint) error {
	if err := first(tx, parent, entity, id); err != nil {
		return err
	}

	if err := tx.Where(fkColumn+" = ?", id).Delete(&models.Appearance{}).Error; err != nil {
		return fmt.Errorf("failed to delete appearances of %s %d: %w", entity, id, err)
	}

	result := tx.Delete(parent)
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s %d: %w", entity, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return notFound(entity, id)
	}
	return nil
}
