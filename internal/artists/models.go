package artists

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Term is a capability term inside one of the five fixed taxonomies
type Term struct {
	ID       uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Taxonomy string    `json:"taxonomy" gorm:"not null;size:50;uniqueIndex:idx_term_taxonomy_slug"`
	Slug     string    `json:"slug" gorm:"not null;size:100;uniqueIndex:idx_term_taxonomy_slug"`
	Name     string    `json:"name" gorm:"not null;size:100"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// DemoVideo is one entry of a profile's ordered demo reel (1-5 per profile)
type DemoVideo struct {
	ID              uuid.UUID   `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	ArtistProfileID uuid.UUID   `json:"artist_profile_id" gorm:"type:uuid;not null;index"`
	Position        int         `json:"position" gorm:"not null"`
	URL             string      `json:"url" gorm:"not null;size:500"`
	Orientation     Orientation `json:"orientation" gorm:"type:varchar(20);not null"`
	DurationSeconds int         `json:"duration_seconds" gorm:"not null;check:duration_seconds > 0"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

type ArtistProfile struct {
	ID     uuid.UUID     `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID uuid.UUID     `json:"user_id" gorm:"type:uuid;not null;index"`
	Title  string        `json:"title" gorm:"size:255"`
	Bio    string        `json:"bio" gorm:"type:text"`
	Status ProfileStatus `json:"status" gorm:"type:varchar(20);default:'DRAFT'"`

	// Capability terms across the five taxonomies
	Terms []Term `json:"-" gorm:"many2many:artist_profile_terms;constraint:OnDelete:CASCADE;"`

	// Demo reel
	DemoVideos []DemoVideo `json:"-" gorm:"foreignKey:ArtistProfileID;constraint:OnDelete:CASCADE;"`

	// Reliability block, adjusted only through the event vocabulary
	ResponseHours    float64 `json:"response_hours" gorm:"default:24"`
	AcceptanceRate   float64 `json:"acceptance_rate" gorm:"default:100"`
	CancellationRate float64 `json:"cancellation_rate" gorm:"default:0"`
	NoShowCount      int     `json:"no_show_count" gorm:"default:0"`

	// Reputation block, two independent axes
	PerformanceAvg   float64 `json:"performance_avg" gorm:"default:0"`
	PerformanceCount int     `json:"performance_count" gorm:"default:0"`
	ReliabilityAvg   float64 `json:"reliability_avg" gorm:"default:0"`
	ReliabilityCount int     `json:"reliability_count" gorm:"default:0"`

	// Availability block
	AvailableNow      bool           `json:"available_now" gorm:"default:false"`
	BaseArea          string         `json:"base_area" gorm:"size:255"`
	TravelRadiusKm    int            `json:"travel_radius_km" gorm:"default:0;check:travel_radius_km >= 0"`
	VisibilityMode    VisibilityMode `json:"visibility_mode" gorm:"type:varchar(20);default:'APPROXIMATE'"`
	AvailabilityDays  string         `json:"availability_days" gorm:"size:100"` // CSV of weekday names
	AvailabilityStart string         `json:"availability_start" gorm:"size:5"`  // "HH:MM", optional
	AvailabilityEnd   string         `json:"availability_end" gorm:"size:5"`

	// Optimistic concurrency token
	Version int `json:"version" gorm:"default:1;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Reliability extracts the profile's reliability block.
func (p *ArtistProfile) Reliability() ReliabilityMetrics {
	return ReliabilityMetrics{
		ResponseHours:    p.ResponseHours,
		AcceptanceRate:   p.AcceptanceRate,
		CancellationRate: p.CancellationRate,
		NoShowCount:      p.NoShowCount,
	}
}

// SetReliability writes the reliability block back onto the profile.
func (p *ArtistProfile) SetReliability(m ReliabilityMetrics) {
	p.ResponseHours = m.ResponseHours
	p.AcceptanceRate = m.AcceptanceRate
	p.CancellationRate = m.CancellationRate
	p.NoShowCount = m.NoShowCount
}

// AvailabilityDaySet returns the availability days as a lookup set.
func (p *ArtistProfile) AvailabilityDaySet() map[string]bool {
	set := make(map[string]bool)
	for _, day := range strings.Split(p.AvailabilityDays, ",") {
		if day = strings.TrimSpace(day); day != "" {
			set[day] = true
		}
	}
	return set
}

// TermsByTaxonomy groups the profile's terms per taxonomy.
func (p *ArtistProfile) TermsByTaxonomy() map[string][]Term {
	grouped := make(map[string][]Term)
	for _, t := range p.Terms {
		grouped[t.Taxonomy] = append(grouped[t.Taxonomy], t)
	}
	return grouped
}

// TableName specifies the table name for GORM
func (ArtistProfile) TableName() string {
	return "artist_profiles"
}

func (Term) TableName() string {
	return "terms"
}

func (DemoVideo) TableName() string {
	return "demo_videos"
}
