// Package seed loads the deterministic demo dataset into a store. Running it
// twice is safe: records that already exist are skipped.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"discoverme-mcp/internal/logging"
	"discoverme-mcp/internal/storage"
	"discoverme-mcp/internal/types"
)

// Summary reports what a seeding run inserted and skipped.
type Summary struct {
	ProfilesCreated        int
	ProfilesSkipped        int
	ConnectionsCreated     int
	ConnectionsSkipped     int
	RecommendationsCreated int
	RecommendationsSkipped int
}

// Seeder inserts the demo dataset.
type Seeder struct {
	store  storage.Store
	logger logging.Logger
}

// NewSeeder creates a seeder for the given store.
func NewSeeder(store storage.Store, logger logging.Logger) *Seeder {
	return &Seeder{store: store, logger: logger.WithComponent("seed")}
}

// Run inserts the dataset, skipping anything already present.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{}

	for _, p := range Profiles() {
		profile := p
		err := s.store.CreateProfile(ctx, &profile)
		switch {
		case errors.Is(err, storage.ErrDuplicate):
			summary.ProfilesSkipped++
		case err != nil:
			return summary, fmt.Errorf("failed to seed profile %s: %w", profile.ID, err)
		default:
			summary.ProfilesCreated++
		}
	}

	for _, c := range Connections() {
		conn := c
		err := s.store.AddConnection(ctx, &conn)
		switch {
		case errors.Is(err, storage.ErrDuplicate):
			summary.ConnectionsSkipped++
		case err != nil:
			return summary, fmt.Errorf("failed to seed connection %s: %w", conn.ID, err)
		default:
			summary.ConnectionsCreated++
		}
	}

	existing := map[string]bool{}
	for _, r := range Recommendations() {
		rec := r
		if !existing[string(rec.OwnerID)] {
			stored, err := s.store.FindRecommendationsByOwner(ctx, rec.OwnerID)
			if err != nil {
				return summary, fmt.Errorf("failed to check recommendations for %s: %w", rec.OwnerID, err)
			}
			for i := range stored {
				existing[string(rec.OwnerID)+"/"+stored[i].ID] = true
			}
			existing[string(rec.OwnerID)] = true
		}
		if existing[string(rec.OwnerID)+"/"+rec.ID] {
			summary.RecommendationsSkipped++
			continue
		}
		if err := s.store.AddRecommendation(ctx, &rec); err != nil {
			return summary, fmt.Errorf("failed to seed recommendation %s: %w", rec.ID, err)
		}
		summary.RecommendationsCreated++
	}

	s.logger.InfoContext(ctx, "Seeding complete",
		"profiles_created", summary.ProfilesCreated,
		"profiles_skipped", summary.ProfilesSkipped,
		"connections_created", summary.ConnectionsCreated,
		"recommendations_created", summary.RecommendationsCreated)
	return summary, nil
}

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y, m, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func yearPtr(y int) *int { return &y }

// Profiles returns the demo profiles. The dataset is fixed so searches give
// reproducible results in demos and tests.
func Profiles() []types.Profile {
	return []types.Profile{
		{
			ID:         "sophie-martin",
			Name:       "Sophie Martin",
			Email:      "sophie.martin@example.com",
			Phone:      "+33 6 12 34 56 78",
			Headline:   "Fullstack Engineer | React & Go",
			OpenToWork: true,
			Skills: []types.Skill{
				{Name: "React", Level: "Expert", Endorsements: 25},
				{Name: "Go", Level: "Advanced", Endorsements: 18},
				{Name: "TypeScript", Level: "Expert", Endorsements: 22},
				{Name: "GraphQL", Level: "Intermediate", Endorsements: 9},
			},
			Experience: []types.Experience{
				{
					Title:       "Fullstack Engineer",
					Company:     "TechCo Global",
					StartDate:   day(2020, 1, 1),
					Description: "Building web platforms with React frontends and Go services.",
				},
				{
					Title:       "Frontend Developer",
					Company:     "Startup Vision",
					StartDate:   day(2018, 3, 1),
					EndDate:     dayPtr(2019, 12, 31),
					Description: "Built reactive interfaces with React and Redux.",
				},
			},
			Education: []types.Education{
				{Institution: "Tech University", Degree: "MSc Computer Science", Field: "Web Engineering", StartYear: 2016, EndYear: yearPtr(2018)},
			},
		},
		{
			ID:         "marc-dubois",
			Name:       "Marc Dubois",
			Email:      "marc.dubois@example.com",
			Phone:      "+33 6 45 67 89 10",
			Headline:   "Backend Developer | Go & Distributed Systems",
			OpenToWork: false,
			Skills: []types.Skill{
				{Name: "Go", Level: "Expert", Endorsements: 30},
				{Name: "PostgreSQL", Level: "Advanced", Endorsements: 14},
				{Name: "Kubernetes", Level: "Intermediate", Endorsements: 7},
			},
			Experience: []types.Experience{
				{
					Title:       "Backend Developer",
					Company:     "DataSoft",
					StartDate:   day(2019, 6, 1),
					Description: "Designing and operating Go microservices.",
				},
			},
			Education: []types.Education{
				{Institution: "Applied Sciences Institute", Degree: "MSc Software Engineering", Field: "Distributed Systems", StartYear: 2015, EndYear: yearPtr(2017)},
			},
		},
		{
			ID:         "john-doe",
			Name:       "John Doe",
			Email:      "john.doe@example.com",
			Headline:   "Full Stack Developer | JavaScript Expert",
			OpenToWork: true,
			Skills: []types.Skill{
				{Name: "JavaScript", Level: "Expert", Endorsements: 28},
				{Name: "TypeScript", Level: "Expert", Endorsements: 22},
				{Name: "React", Level: "Expert", Endorsements: 25},
				{Name: "Node.js", Level: "Expert", Endorsements: 20},
			},
			Experience: []types.Experience{
				{
					Title:       "Senior Developer",
					Company:     "Tech Innovators",
					StartDate:   day(2020, 1, 1),
					Description: "Technical lead on modern web applications.",
				},
				{
					Title:       "Junior Web Developer",
					Company:     "Digital Solutions",
					StartDate:   day(2016, 6, 1),
					EndDate:     dayPtr(2018, 2, 28),
					Description: "Frontend development and site maintenance.",
				},
			},
			Education: []types.Education{
				{Institution: "Tech University", Degree: "MSc Computer Science", Field: "Web and Mobile Development", StartYear: 2014, EndYear: yearPtr(2016)},
			},
		},
		{
			ID:       "jane-smith",
			Name:     "Jane Smith",
			Email:    "jane.smith@example.com",
			Headline: "UX/UI Designer | Design Thinking",
			Hiring:   true,
			Skills: []types.Skill{
				{Name: "UI Design", Level: "Expert", Endorsements: 32},
				{Name: "UX Research", Level: "Expert", Endorsements: 28},
				{Name: "Figma", Level: "Expert", Endorsements: 30},
			},
			Experience: []types.Experience{
				{
					Title:       "Lead UX/UI Designer",
					Company:     "Creative Agency",
					StartDate:   day(2019, 4, 1),
					Description: "Leading the design team on international projects.",
				},
			},
			Education: []types.Education{
				{Institution: "Design School", Degree: "MA Digital Design", Field: "UX/UI Design", StartYear: 2013, EndYear: yearPtr(2015)},
			},
		},
		{
			ID:         "ana-costa",
			Name:       "Ana Costa",
			Email:      "ana.costa@example.com",
			Headline:   "Data Scientist | Machine Learning",
			OpenToWork: true,
			Skills: []types.Skill{
				{Name: "Python", Level: "Expert", Endorsements: 35},
				{Name: "Machine Learning", Level: "Expert", Endorsements: 30},
				{Name: "SQL", Level: "Advanced", Endorsements: 12},
			},
			Experience: []types.Experience{
				{
					Title:       "Data Scientist",
					Company:     "TechCo",
					StartDate:   day(2017, 9, 1),
					Description: "Production machine-learning pipelines and analytics.",
				},
			},
			Education: []types.Education{
				{Institution: "Science University", Degree: "PhD Applied Mathematics", Field: "Statistical Learning", StartYear: 2013, EndYear: yearPtr(2017)},
			},
		},
	}
}

// Connections returns the demo network edges.
func Connections() []types.Connection {
	return []types.Connection{
		{ID: "conn-sophie-marc", OwnerID: "sophie-martin", ConnectedID: "marc-dubois", Relationship: "1st", ConnectedSince: day(2021, 5, 12)},
		{ID: "conn-sophie-john", OwnerID: "sophie-martin", ConnectedID: "john-doe", Relationship: "1st", ConnectedSince: day(2020, 11, 3)},
		{ID: "conn-sophie-jane", OwnerID: "sophie-martin", ConnectedID: "jane-smith", Relationship: "2nd", ConnectedSince: day(2022, 2, 20)},
		{ID: "conn-marc-sophie", OwnerID: "marc-dubois", ConnectedID: "sophie-martin", Relationship: "1st", ConnectedSince: day(2021, 5, 12)},
		{ID: "conn-marc-ana", OwnerID: "marc-dubois", ConnectedID: "ana-costa", Relationship: "1st", ConnectedSince: day(2019, 8, 30)},
		{ID: "conn-john-jane", OwnerID: "john-doe", ConnectedID: "jane-smith", Relationship: "1st", ConnectedSince: day(2018, 7, 14)},
	}
}

// Recommendations returns the demo endorsement texts.
func Recommendations() []types.Recommendation {
	return []types.Recommendation{
		{
			ID:       "rec-sophie-1",
			OwnerID:  "sophie-martin",
			AuthorID: "marc-dubois",
			Text:     "Sophie bridges frontend and backend work better than anyone I have worked with.",
			Date:     day(2023, 3, 18),
		},
		{
			ID:       "rec-sophie-2",
			OwnerID:  "sophie-martin",
			AuthorID: "john-doe",
			Text:     "Reliable, fast and a great communicator. Sophie shipped our hardest features.",
			Date:     day(2022, 9, 2),
		},
		{
			ID:       "rec-marc-1",
			OwnerID:  "marc-dubois",
			AuthorID: "ana-costa",
			Text:     "Marc designs backend systems that simply do not fall over.",
			Date:     day(2023, 1, 25),
		},
		{
			ID:       "rec-jane-1",
			OwnerID:  "jane-smith",
			AuthorID: "john-doe",
			Text:     "Jane turns vague ideas into interfaces users love.",
			Date:     day(2021, 6, 10),
		},
	}
}
