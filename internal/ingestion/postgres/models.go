package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PlayerRecord is the gorm row backing one planner.Player. Role ratings and
// familiarity are stored as parallel pq arrays rather than a jsonb map so
// the slot-family columns stay indexable; ToPlayer zips them back together.
type PlayerRecord struct {
	ID               uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	ClubID           uuid.UUID      `gorm:"type:uuid;index" json:"club_id"`
	Name             string         `json:"name"`
	Age              int            `json:"age"`
	NaturalFitness   int            `json:"natural_fitness"`
	Stamina          int            `json:"stamina"`
	InjuryProneness  int            `json:"injury_proneness"`
	Condition        float64        `json:"condition"`
	Sharpness        float64        `json:"sharpness"`
	Jadedness        float64        `json:"jadedness"`
	Injured          bool           `json:"injured"`
	Suspended        bool           `json:"suspended"`
	RatingColumns    pq.StringArray  `gorm:"type:text[]" json:"rating_columns"`
	RatingValues     pq.Int64Array   `gorm:"type:integer[]" json:"rating_values"`
	FamiliarityCols  pq.StringArray  `gorm:"type:text[]" json:"familiarity_columns"`
	FamiliarityVals  pq.Float64Array `gorm:"type:double precision[]" json:"familiarity_values"`
	RollingLoadDates pq.StringArray `gorm:"type:text[]" json:"rolling_load_dates"`
	RollingLoadMins  pq.Int64Array  `gorm:"type:integer[]" json:"rolling_load_minutes"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// TableName pins the table name so gorm's pluralization convention can't
// drift it away from the migration-managed schema.
func (PlayerRecord) TableName() string { return "horizon_players" }

// FixtureRecord is the gorm row backing one planner.Fixture.
type FixtureRecord struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ClubID           uuid.UUID `gorm:"type:uuid;index" json:"club_id"`
	Date             time.Time `json:"date"`
	Importance       float64   `json:"importance"`
	Scenario         string    `json:"scenario"`
	OpponentStrength *float64  `json:"opponent_strength"`
	SequenceIndex    int       `gorm:"index" json:"sequence_index"`
}

func (FixtureRecord) TableName() string { return "horizon_fixtures" }
