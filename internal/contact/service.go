package contact

import (
	"context"
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/common/validation"
	contactDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/contact"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/mailer"
	"github.com/microcosm-cc/bluemonday"
)

type RepositoryAPI interface {
	Create(ctx context.Context, c *contactDatamodel.Contact) error
	// List returns messages newest first.
	List(ctx context.Context) ([]*contactDatamodel.Contact, error)
}

// Queue accepts mail for background delivery.
type Queue interface {
	Enqueue(msg mailer.Message) error
}

type Service struct {
	repo     RepositoryAPI
	queue    Queue
	sanitize *bluemonday.Policy
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, queue Queue, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		queue:    queue,
		sanitize: bluemonday.StrictPolicy(),
		logger:   logger,
	}
}

// Submit stores the message and queues a confirmation to the sender. A
// confirmation that cannot be queued is logged and does not fail the request.
func (s *Service) Submit(ctx context.Context, req ContactRequest) (*Contact, error) {
	req = ContactRequest{
		Name:    s.clean(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Subject: s.clean(req.Subject),
		Message: s.clean(req.Message),
	}
	if appErr := validation.Struct(req); appErr != nil {
		return nil, appErr
	}

	c := &Contact{
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		CreatedAt: time.Now(),
	}
	model := ToDataModel(c)
	if err := s.repo.Create(ctx, model); err != nil {
		return nil, internal.NewInternalError("failed to save contact message", err)
	}
	c.ID = model.ID
	c.CreatedAt = model.CreatedAt

	s.logger.Info("contact message received", "contact_id", c.ID)
	s.confirm(c)
	return c, nil
}

func (s *Service) confirm(c *Contact) {
	if s.queue == nil {
		return
	}
	msg, err := confirmationMessage(c)
	if err != nil {
		s.logger.Error("failed to render contact confirmation", "contact_id", c.ID, "error", err)
		return
	}
	if err := s.queue.Enqueue(msg); err != nil {
		s.logger.Warn("contact confirmation not queued", "contact_id", c.ID, "error", err)
	}
}

// List is restricted to staff.
func (s *Service) List(ctx context.Context, actor *user.Actor) ([]ContactResponse, error) {
	if err := internal.RequireStaff(actor); err != nil {
		return nil, err
	}

	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list contact messages", err)
	}

	out := make([]ContactResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromDataModel(row).ToResponse())
	}
	return out, nil
}

// clean strips markup and stores plain text. Escaping happens on render.
func (s *Service) clean(v string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitize.Sanitize(v)))
}
