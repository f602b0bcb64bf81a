package main

import (
	"fmt"
	"log"

	"gigtune/internal/artists"
	"gigtune/internal/shared/config"
	"gigtune/internal/shared/database"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting GigTune Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in reverse dependency order
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"bookings",
		"artist_profile_terms",
		"demo_videos",
		"artist_profiles",
		"terms",
	}

	gormDB := s.db.GetPostgreSQL()
	for _, table := range tables {
		if err := gormDB.Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

func (s *Seeder) SeedAll() error {
	terms, err := s.seedTerms()
	if err != nil {
		return err
	}
	if err := s.seedProfiles(terms); err != nil {
		return err
	}
	return nil
}

// seedTerms creates the taxonomy vocabulary used for tagging and
// filtering artist profiles.
func (s *Seeder) seedTerms() (map[string]artists.Term, error) {
	definitions := map[string][][2]string{
		artists.TaxonomyPerformerType: {
			{"dj", "DJ"},
			{"live-band", "Live Band"},
			{"solo-singer", "Solo Singer"},
			{"instrumentalist", "Instrumentalist"},
			{"tribute-act", "Tribute Act"},
		},
		artists.TaxonomyInstrumentCategory: {
			{"guitar", "Guitar"},
			{"keyboard", "Keyboard"},
			{"drums", "Drums"},
			{"strings", "Strings"},
			{"brass", "Brass"},
		},
		artists.TaxonomyKeyboardParts: {
			{"piano", "Piano"},
			{"synth", "Synth"},
			{"organ", "Organ"},
		},
		artists.TaxonomyVocalType: {
			{"soprano", "Soprano"},
			{"alto", "Alto"},
			{"tenor", "Tenor"},
			{"baritone", "Baritone"},
		},
		artists.TaxonomyVocalRole: {
			{"lead", "Lead Vocals"},
			{"backing", "Backing Vocals"},
		},
	}

	gormDB := s.db.GetPostgreSQL()
	created := make(map[string]artists.Term)
	count := 0
	for taxonomy, entries := range definitions {
		for _, entry := range entries {
			term := artists.Term{
				Taxonomy: taxonomy,
				Slug:     entry[0],
				Name:     entry[1],
			}
			if err := gormDB.Create(&term).Error; err != nil {
				return nil, fmt.Errorf("failed to create term %s/%s: %w", taxonomy, entry[0], err)
			}
			created[taxonomy+"/"+entry[0]] = term
			count++
		}
	}
	fmt.Printf("   Created %d taxonomy terms\n", count)
	return created, nil
}

// seedProfiles creates a handful of published demo profiles covering
// different taxonomies, availability and reliability shapes.
func (s *Seeder) seedProfiles(terms map[string]artists.Term) error {
	type profileSeed struct {
		title          string
		bio            string
		termKeys       []string
		availableNow   bool
		baseArea       string
		travelRadiusKm int
		days           string
		responseHours  float64
		acceptanceRate float64
	}

	seeds := []profileSeed{
		{
			title:          "Midnight Groove Collective",
			bio:            "A five-piece live band playing funk, soul and disco classics. We bring our own PA and lighting rig and have played over 200 weddings and corporate events.",
			termKeys:       []string{artists.TaxonomyPerformerType + "/live-band", artists.TaxonomyInstrumentCategory + "/guitar", artists.TaxonomyInstrumentCategory + "/drums"},
			availableNow:   true,
			baseArea:       "Manchester",
			travelRadiusKm: 120,
			days:           "friday,saturday,sunday",
			responseHours:  4,
			acceptanceRate: 92,
		},
		{
			title:          "DJ Marlowe",
			bio:            "Open-format DJ for clubs and private parties. House, R&B and throwback sets tailored to the room.",
			termKeys:       []string{artists.TaxonomyPerformerType + "/dj"},
			availableNow:   true,
			baseArea:       "Leeds",
			travelRadiusKm: 80,
			days:           "thursday,friday,saturday",
			responseHours:  2,
			acceptanceRate: 97,
		},
		{
			title:          "Elena Voss, Soprano",
			bio:            "Classically trained soprano for ceremonies and recitals. Repertoire from opera arias to contemporary crossover.",
			termKeys:       []string{artists.TaxonomyPerformerType + "/solo-singer", artists.TaxonomyVocalType + "/soprano", artists.TaxonomyVocalRole + "/lead"},
			availableNow:   false,
			baseArea:       "London",
			travelRadiusKm: 200,
			days:           "saturday,sunday",
			responseHours:  12,
			acceptanceRate: 85,
		},
		{
			title:          "Keys by Jordan",
			bio:            "Pianist and synth player for cocktail hours, hotel lounges and session work.",
			termKeys:       []string{artists.TaxonomyPerformerType + "/instrumentalist", artists.TaxonomyInstrumentCategory + "/keyboard", artists.TaxonomyKeyboardParts + "/piano", artists.TaxonomyKeyboardParts + "/synth"},
			availableNow:   true,
			baseArea:       "Birmingham",
			travelRadiusKm: 60,
			days:           "monday,tuesday,wednesday,thursday,friday",
			responseHours:  8,
			acceptanceRate: 90,
		},
	}

	gormDB := s.db.GetPostgreSQL()
	for _, seed := range seeds {
		profile := artists.ArtistProfile{
			UserID:           uuid.New(),
			Title:            seed.title,
			Bio:              seed.bio,
			Status:           artists.ProfileStatusPublished,
			ResponseHours:    seed.responseHours,
			AcceptanceRate:   seed.acceptanceRate,
			AvailableNow:     seed.availableNow,
			BaseArea:         seed.baseArea,
			TravelRadiusKm:   seed.travelRadiusKm,
			VisibilityMode:   artists.VisibilityApproximate,
			AvailabilityDays: seed.days,
			Version:          1,
		}
		if err := gormDB.Create(&profile).Error; err != nil {
			return fmt.Errorf("failed to create profile %q: %w", seed.title, err)
		}

		var profileTerms []artists.Term
		for _, key := range seed.termKeys {
			term, ok := terms[key]
			if !ok {
				return fmt.Errorf("unknown seed term %q", key)
			}
			profileTerms = append(profileTerms, term)
		}
		if err := gormDB.Model(&profile).Association("Terms").Replace(profileTerms); err != nil {
			return fmt.Errorf("failed to attach terms to %q: %w", seed.title, err)
		}

		video := artists.DemoVideo{
			ArtistProfileID: profile.ID,
			Position:        1,
			URL:             fmt.Sprintf("https://cdn.gigtune.example/demos/%s.mp4", profile.ID),
			Orientation:     artists.OrientationLandscape,
			DurationSeconds: 90,
		}
		if err := gormDB.Create(&video).Error; err != nil {
			return fmt.Errorf("failed to create demo video for %q: %w", seed.title, err)
		}
	}

	fmt.Printf("   Created %d published artist profiles\n", len(seeds))
	return nil
}
