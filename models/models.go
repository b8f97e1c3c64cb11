package models

import (
	"fmt"

	"github.com/icco/podcast/lib/validation"
)

// Episode is a single show recording. Deleting an episode removes its
// appearances.
type Episode struct {
	ID     uint   `gorm:"primaryKey"`
	Date   string `gorm:"not null"`
	Number int    `gorm:"not null"`

	Appearances []Appearance `gorm:"foreignKey:EpisodeID;constraint:OnDelete:CASCADE"`
}

func (e Episode) String() string {
	return fmt.Sprintf("<Episode %d - %s>", e.Number, e.Date)
}

// Guest is a person who has been on the show. Deleting a guest removes their
// appearances.
type Guest struct {
	ID         uint   `gorm:"primaryKey"`
	Name       string `gorm:"not null"`
	Occupation string `gorm:"not null"`

	Appearances []Appearance `gorm:"foreignKey:GuestID;constraint:OnDelete:CASCADE"`
}

func (g Guest) String() string {
	return fmt.Sprintf("<Guest %s - %s>", g.Name, g.Occupation)
}

// Appearance joins a guest to an episode with a 1-5 rating. It is owned by
// both parents and cannot outlive either of them.
type Appearance struct {
	ID        uint `gorm:"primaryKey"`
	Rating    int  `gorm:"not null;check:chk_appearances_rating,rating >= 1 AND rating <= 5"`
	EpisodeID uint `gorm:"not null;index"`
	GuestID   uint `gorm:"not null;index"`

	Episode *Episode
	Guest   *Guest
}

// NewAppearance builds an appearance with a validated rating. It does not
// check that the episode and guest exist; the store does that.
func NewAppearance(rating int, episodeID, guestID uint) (*Appearance, error) {
	r, err := validation.ValidateRating(rating)
	if err != nil {
		return nil, err
	}
	if episodeID == 0 {
		return nil, validation.Required("episode_id")
	}
	if guestID == 0 {
		return nil, validation.Required("guest_id")
	}

	return &Appearance{
		Rating:    r,
		EpisodeID: episodeID,
		GuestID:   guestID,
	}, nil
}

// SetRating replaces the rating, leaving the appearance untouched when the
// new value is out of range.
func (a *Appearance) SetRating(rating int) error {
	r, err := validation.ValidateRating(rating)
	if err != nil {
		return err
	}
	a.Rating = r
	return nil
}

func (a Appearance) String() string {
	return fmt.Sprintf("<Appearance Episode:%d Guest:%d Rating:%d>", a.EpisodeID, a.GuestID, a.Rating)
}
