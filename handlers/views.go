package handlers

import "github.com/icco/podcast/models"

// The response shapes below are direction specific: an episode carries its
// appearances and their guests, an appearance carries summaries of both
// parents, and summaries never nest further.

type EpisodeSummary struct {
	ID     uint   `json:"id"`
	Date   string `json:"date"`
	Number int    `json:"number"`
}

type GuestSummary struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Occupation string `json:"occupation"`
}

type EpisodeAppearance struct {
	ID        uint          `json:"id"`
	Rating    int           `json:"rating"`
	EpisodeID uint          `json:"episode_id"`
	GuestID   uint          `json:"guest_id"`
	Guest     *GuestSummary `json:"guest"`
}

type EpisodeDetail struct {
	EpisodeSummary
	Appearances []EpisodeAppearance `json:"appearances"`
}

type AppearanceDetail struct {
	ID        uint            `json:"id"`
	Rating    int             `json:"rating"`
	EpisodeID uint            `json:"episode_id"`
	GuestID   uint            `json:"guest_id"`
	Episode   *EpisodeSummary `json:"episode"`
	Guest     *GuestSummary   `json:"guest"`
}

func newEpisodeSummary(e *models.Episode) *EpisodeSummary {
	if e == nil {
		return nil
	}
	return &EpisodeSummary{ID: e.ID, Date: e.Date, Number: e.Number}
}

func newGuestSummary(g *models.Guest) *GuestSummary {
	if g == nil {
		return nil
	}
	return &GuestSummary{ID: g.ID, Name: g.Name, Occupation: g.Occupation}
}

func newEpisodeDetail(e *models.Episode) EpisodeDetail {
	detail := EpisodeDetail{
		EpisodeSummary: *newEpisodeSummary(e),
		Appearances:    make([]EpisodeAppearance, 0, len(e.Appearances)),
	}
	for _, a := range e.Appearances {
		detail.Appearances = append(detail.Appearances, EpisodeAppearance{
			ID:        a.ID,
			Rating:    a.Rating,
			EpisodeID: a.EpisodeID,
			GuestID:   a.GuestID,
			Guest:     newGuestSummary(a.Guest),
		})
	}
	return detail
}

func newAppearanceDetail(a *models.Appearance) AppearanceDetail {
	return AppearanceDetail{
		ID:        a.ID,
		Rating:    a.Rating,
		EpisodeID: a.EpisodeID,
		GuestID:   a.GuestID,
		Episode:   newEpisodeSummary(a.Episode),
		Guest:     newGuestSummary(a.Guest),
	}
}
