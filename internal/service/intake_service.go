package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/storefront-api/internal/model"
)

// IntakeRepositoryInterface defines the interface for career and newsletter writes.
type IntakeRepositoryInterface interface {
	InsertApplication(ctx context.Context, app *model.CareerApplication) error
	Subscribe(ctx context.Context, email string) error
}

// IntakeService handles the career-application and newsletter intake flows.
type IntakeService struct {
	intakeRepo IntakeRepositoryInterface
	mailer     Mailer
}

// NewIntakeService creates a new IntakeService with the given repository and mailer.
func NewIntakeService(intakeRepo IntakeRepositoryInterface, mailer Mailer) *IntakeService {
	return &IntakeService{intakeRepo: intakeRepo, mailer: mailer}
}

// Apply records a career application and alerts the admin mailbox in the
// background; the applicant's submission never waits on mail delivery.
func (s *IntakeService) Apply(ctx context.Context, req *model.CareerApplicationRequest) (*model.CareerApplication, error) {
	if req == nil {
		return nil, ErrInvalidRequest
	}

	app := &model.CareerApplication{
		Name:      req.Name,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:     req.Phone,
		Position:  req.Position,
		Portfolio: req.Portfolio,
		Message:   req.Message,
	}
	if err := s.intakeRepo.InsertApplication(ctx, app); err != nil {
		return nil, err
	}

	if s.mailer != nil {
		go func() {
			mailCtx, cancel := context.WithTimeout(context.Background(), mailTimeout)
			defer cancel()
			if err := s.mailer.SendCareerAlert(mailCtx, app); err != nil {
				log.Error().Err(err).Int64("application_id", app.ID).Msg("failed to send career application alert")
			}
		}()
	}
	return app, nil
}

// Subscribe adds an email to the newsletter list.
// Returns ErrAlreadySubscribed on duplicates.
func (s *IntakeService) Subscribe(ctx context.Context, email string) error {
	return s.intakeRepo.Subscribe(ctx, strings.ToLower(strings.TrimSpace(email)))
}
