// Package profile serves the profile views exposed through the MCP surface:
// the full card, individual sections, availability checks and contact
// requests.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"discoverme-mcp/internal/logging"
	"discoverme-mcp/internal/storage"
	"discoverme-mcp/internal/types"
)

// ExperienceView renders an engagement with a "2020-Present" style period.
type ExperienceView struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Period      string `json:"period"`
	Description string `json:"description"`
}

// EducationView renders a degree with a "2017-2019" style year range.
type EducationView struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
}

// ContactView carries the ways to reach a profile.
type ContactView struct {
	Email    string `json:"email"`
	LinkedIn string `json:"linkedin"`
	Phone    string `json:"phone,omitempty"`
}

// View is the display-ready profile card.
type View struct {
	Name       string           `json:"name"`
	Title      string           `json:"title"`
	Skills     []string         `json:"skills"`
	Experience []ExperienceView `json:"experience"`
	Education  []EducationView  `json:"education"`
	Contact    ContactView      `json:"contact"`
	Bio        string           `json:"bio,omitempty"`
}

// AvailabilityResult is the outcome of an availability check.
type AvailabilityResult struct {
	Available bool   `json:"available"`
	Message   string `json:"message"`
}

// ContactResult is the outcome of a contact request.
type ContactResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Sections a profile view can be sliced into.
var validSections = map[string]bool{
	"name":       true,
	"title":      true,
	"skills":     true,
	"experience": true,
	"education":  true,
	"contact":    true,
	"bio":        true,
}

// Service builds profile views over the store.
type Service struct {
	store            storage.Store
	logger           logging.Logger
	defaultProfileID types.ProfileID
}

// NewService creates a profile service. Requests with an empty ID fall back
// to defaultProfileID.
func NewService(store storage.Store, defaultProfileID types.ProfileID, logger logging.Logger) *Service {
	return &Service{
		store:            store,
		logger:           logger.WithComponent("profile"),
		defaultProfileID: defaultProfileID,
	}
}

// load resolves a profile, falling back to the first stored profile when the
// default ID itself is absent. That keeps a freshly seeded database usable
// even if its IDs differ from the configured default.
func (s *Service) load(ctx context.Context, profileID types.ProfileID) (*types.Profile, error) {
	id := profileID
	if id.IsEmpty() {
		id = s.defaultProfileID
	}

	p, err := s.store.GetProfile(ctx, id)
	if errors.Is(err, storage.ErrNotFound) && id == s.defaultProfileID {
		all, listErr := s.store.ListProfiles(ctx)
		if listErr != nil {
			return nil, fmt.Errorf("failed to list profiles for fallback: %w", listErr)
		}
		if len(all) > 0 {
			s.logger.DebugContext(ctx, "Default profile absent, using first stored profile", "fallback_id", all[0].ID)
			return &all[0], nil
		}
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the display view for a profile and records the view.
func (s *Service) Get(ctx context.Context, profileID types.ProfileID) (*View, error) {
	p, err := s.load(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if err := s.store.IncrementProfileViews(ctx, p.ID); err != nil {
		// A lost view count never fails the read.
		s.logger.WarnContext(ctx, "Failed to record profile view", "profile_id", p.ID, "error", err)
	}

	return buildView(p), nil
}

// Section returns a single section of a profile view.
func (s *Service) Section(ctx context.Context, profileID types.ProfileID, section string) (interface{}, error) {
	section = strings.ToLower(strings.TrimSpace(section))
	if !validSections[section] {
		return nil, fmt.Errorf("unknown profile section: %q", section)
	}

	view, err := s.Get(ctx, profileID)
	if err != nil {
		return nil, err
	}

	switch section {
	case "name":
		return view.Name, nil
	case "title":
		return view.Title, nil
	case "skills":
		return view.Skills, nil
	case "experience":
		return view.Experience, nil
	case "education":
		return view.Education, nil
	case "contact":
		return view.Contact, nil
	default:
		return view.Bio, nil
	}
}

// CheckAvailability applies the weekday 9:00-18:00 rule. Successful checks
// bump the availability_checks counter.
func (s *Service) CheckAvailability(ctx context.Context, profileID types.ProfileID, date, timeOfDay string) (*AvailabilityResult, error) {
	p, err := s.load(ctx, profileID)
	if err != nil {
		return nil, err
	}

	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD: %w", date, err)
	}
	hour, err := parseHour(timeOfDay)
	if err != nil {
		return nil, err
	}

	isWeekday := day.Weekday() >= time.Monday && day.Weekday() <= time.Friday
	isBusinessHours := hour >= 9 && hour < 18

	if !isWeekday || !isBusinessHours {
		return &AvailabilityResult{
			Available: false,
			Message:   fmt.Sprintf("%s is not available on %s at %s. Please pick a weekday between 9:00 and 18:00.", p.Name, date, timeOfDay),
		}, nil
	}

	if err := s.store.IncrementCounter(ctx, p.ID, "availability_checks"); err != nil {
		s.logger.WarnContext(ctx, "Failed to record availability check", "profile_id", p.ID, "error", err)
	}

	return &AvailabilityResult{
		Available: true,
		Message:   fmt.Sprintf("%s is available on %s at %s.", p.Name, date, timeOfDay),
	}, nil
}

// RequestContact records a contact request against the profile.
func (s *Service) RequestContact(ctx context.Context, profileID types.ProfileID, reason, method string) (*ContactResult, error) {
	p, err := s.load(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if err := s.store.IncrementCounter(ctx, p.ID, "contact_requests"); err != nil {
		s.logger.ErrorContext(ctx, "Failed to record contact request", "profile_id", p.ID, "error", err)
		return &ContactResult{Success: false, Message: "Something went wrong recording the contact request."}, nil
	}

	return &ContactResult{
		Success: true,
		Message: fmt.Sprintf("Your request to contact %s via %s has been recorded. Reason: %s", p.Name, method, reason),
	}, nil
}

func parseHour(timeOfDay string) (int, error) {
	parts := strings.SplitN(timeOfDay, ":", 2)
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid time %q, want HH:MM", timeOfDay)
	}
	return hour, nil
}

func buildView(p *types.Profile) *View {
	view := &View{
		Name:       p.Name,
		Title:      p.Headline,
		Skills:     p.SkillNames(),
		Experience: make([]ExperienceView, 0, len(p.Experience)),
		Education:  make([]EducationView, 0, len(p.Education)),
		Contact: ContactView{
			Email:    p.Email,
			LinkedIn: "linkedin.com/in/" + strings.ReplaceAll(strings.ToLower(p.Name), " ", "-"),
			Phone:    p.Phone,
		},
		Bio: p.Headline,
	}

	for i := range p.Experience {
		exp := &p.Experience[i]
		endLabel := "Present"
		if exp.EndDate != nil {
			endLabel = strconv.Itoa(exp.EndDate.Year())
		}
		view.Experience = append(view.Experience, ExperienceView{
			Company:     exp.Company,
			Role:        exp.Title,
			Period:      fmt.Sprintf("%d-%s", exp.StartDate.Year(), endLabel),
			Description: exp.Description,
		})
	}

	for i := range p.Education {
		edu := &p.Education[i]
		endLabel := "Present"
		if edu.EndYear != nil {
			endLabel = strconv.Itoa(*edu.EndYear)
		}
		view.Education = append(view.Education, EducationView{
			Institution: edu.Institution,
			Degree:      edu.Degree,
			Year:        fmt.Sprintf("%d-%s", edu.StartYear, endLabel),
		})
	}

	return view
}
