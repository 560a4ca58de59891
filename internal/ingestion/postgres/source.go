package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pitchside/horizon-planner/internal/params"
	"github.com/pitchside/horizon-planner/internal/planner"
)

// SquadSource reads the matchday-eligible squad for a club. Implementations
// other than this Postgres one (an in-memory fixture loader for tests, a
// different club's data warehouse) only need to satisfy this interface.
type SquadSource interface {
	Squad(ctx context.Context, clubID uuid.UUID) ([]planner.Player, error)
}

// FixtureSource reads the upcoming fixture list for a club.
type FixtureSource interface {
	Fixtures(ctx context.Context, clubID uuid.UUID, horizon int) ([]planner.Fixture, error)
}

// Source is the Postgres-backed SquadSource and FixtureSource.
type Source struct {
	db *DB
}

// NewSource wraps an open connection as a Source.
func NewSource(db *DB) *Source {
	return &Source{db: db}
}

// Squad loads every player row for a club and rebuilds each planner.Player's
// rating and familiarity maps from their parallel-array encoding.
func (s *Source) Squad(ctx context.Context, clubID uuid.UUID) ([]planner.Player, error) {
	var records []PlayerRecord
	if err := s.db.WithContext(ctx).Where("club_id = ?", clubID).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("load squad: %w", err)
	}

	players := make([]planner.Player, 0, len(records))
	for _, r := range records {
		ratings := map[string]int{}
		for i, col := range r.RatingColumns {
			if i < len(r.RatingValues) {
				ratings[col] = int(r.RatingValues[i])
			}
		}
		familiarity := map[string]float64{}
		for i, col := range r.FamiliarityCols {
			if i < len(r.FamiliarityVals) {
				familiarity[col] = r.FamiliarityVals[i]
			}
		}

		buffer := planner.RollingLoadBuffer{}
		for i, dateStr := range r.RollingLoadDates {
			if i >= len(r.RollingLoadMins) {
				break
			}
			date, err := time.Parse(time.RFC3339, dateStr)
			if err != nil {
				continue
			}
			buffer = buffer.Add(date, int(r.RollingLoadMins[i]), 0, params.Default().RollingWindowDays)
		}

		players = append(players, planner.Player{
			ID:              r.ID,
			Name:            r.Name,
			Age:             r.Age,
			NaturalFitness:  r.NaturalFitness,
			Stamina:         r.Stamina,
			InjuryProneness: r.InjuryProneness,
			Condition:       r.Condition,
			Sharpness:       r.Sharpness,
			Jadedness:       r.Jadedness,
			Injured:         r.Injured,
			Suspended:       r.Suspended,
			RoleRatings:     ratings,
			Familiarity:     familiarity,
			RollingLoad:     buffer,
		})
	}
	return players, nil
}

// Fixtures loads the next `horizon` fixtures for a club, ordered by the
// sequence index the schema maintains (not by date, since postponements
// can leave dates non-monotonic while the intended play order stays fixed).
func (s *Source) Fixtures(ctx context.Context, clubID uuid.UUID, horizon int) ([]planner.Fixture, error) {
	var records []FixtureRecord
	err := s.db.WithContext(ctx).
		Where("club_id = ?", clubID).
		Order("sequence_index ASC").
		Limit(horizon).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("load fixtures: %w", err)
	}

	fixtures := make([]planner.Fixture, 0, len(records))
	for _, r := range records {
		fixtures = append(fixtures, planner.Fixture{
			ID:               r.ID,
			Date:             r.Date,
			Importance:       r.Importance,
			Scenario:         planner.Scenario(r.Scenario),
			OpponentStrength: r.OpponentStrength,
		})
	}
	return fixtures, nil
}
