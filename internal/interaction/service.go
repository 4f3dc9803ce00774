// Package interaction handles the social actions agents can take against a
// profile: introduction requests, profile recommendations and direct
// messages.
package interaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"discoverme-mcp/internal/logging"
	"discoverme-mcp/internal/storage"
	"discoverme-mcp/internal/types"
)

// IntroductionRequest asks a profile owner for an introduction.
type IntroductionRequest struct {
	UserID  types.ProfileID
	AgentID string
	Reason  string
	Message string
}

// ProfileRecommendation endorses a profile, optionally naming skills.
type ProfileRecommendation struct {
	UserID        types.ProfileID
	RecommenderID types.ProfileID
	Skills        []string
	Message       string
}

// Result is the outcome of an interaction.
type Result struct {
	Success          bool   `json:"success"`
	Message          string `json:"message"`
	RequestID        string `json:"request_id,omitempty"`
	RecommendationID string `json:"recommendation_id,omitempty"`
}

// Service performs interactions. Recommendations are persisted; introduction
// requests and messages are acknowledged and logged, with delivery left to an
// external channel.
type Service struct {
	store  storage.Store
	logger logging.Logger
	now    func() time.Time
}

// NewService creates an interaction service.
func NewService(store storage.Store, logger logging.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger.WithComponent("interaction"),
		now:    time.Now,
	}
}

// RequestIntroduction records an introduction request.
func (s *Service) RequestIntroduction(ctx context.Context, req IntroductionRequest) (*Result, error) {
	if req.UserID.IsEmpty() {
		return nil, fmt.Errorf("introduction request needs a user id")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, fmt.Errorf("introduction request needs a reason")
	}

	requestID := "req_" + uuid.New().String()
	s.logger.InfoContext(ctx, "Introduction requested",
		"request_id", requestID, "user_id", req.UserID, "agent_id", req.AgentID, "reason", req.Reason)

	return &Result{
		Success:   true,
		Message:   "Your introduction request has been sent.",
		RequestID: requestID,
	}, nil
}

// RecommendProfile stores a recommendation for the target profile.
func (s *Service) RecommendProfile(ctx context.Context, rec ProfileRecommendation) (*Result, error) {
	if strings.TrimSpace(rec.Message) == "" {
		return nil, fmt.Errorf("recommendation needs a message")
	}

	text := rec.Message
	if len(rec.Skills) > 0 {
		text = fmt.Sprintf("%s (skills: %s)", rec.Message, strings.Join(rec.Skills, ", "))
	}

	stored := &types.Recommendation{
		ID:       "rec_" + uuid.New().String(),
		OwnerID:  rec.UserID,
		AuthorID: rec.RecommenderID,
		Text:     text,
		Date:     s.now().UTC(),
	}
	if err := s.store.AddRecommendation(ctx, stored); err != nil {
		return nil, fmt.Errorf("failed to store recommendation: %w", err)
	}

	s.logger.InfoContext(ctx, "Profile recommended",
		"recommendation_id", stored.ID, "user_id", rec.UserID, "recommender_id", rec.RecommenderID)

	return &Result{
		Success:          true,
		Message:          "Your recommendation has been recorded.",
		RecommendationID: stored.ID,
	}, nil
}

// SendMessage records an outbound message to a profile.
func (s *Service) SendMessage(ctx context.Context, userID types.ProfileID, senderID, content string) (*Result, error) {
	if userID.IsEmpty() {
		return nil, fmt.Errorf("message needs a user id")
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("message content cannot be empty")
	}

	messageID := "msg_" + uuid.New().String()
	s.logger.InfoContext(ctx, "Message sent",
		"message_id", messageID, "user_id", userID, "sender_id", senderID, "length", len(content))

	return &Result{
		Success:   true,
		Message:   "Your message has been sent.",
		RequestID: messageID,
	}, nil
}
