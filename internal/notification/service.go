package notification

import (
	"context"
	"log/slog"
	"time"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal"
	productDatamodel "github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/datamodel/product"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/events"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/core/user"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/mailer"
	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/product"
)

const defaultSendTimeout = 30 * time.Second

type RepositoryAPI interface {
	// ManagerEmails returns the notification address of every manager that has one.
	ManagerEmails(ctx context.Context) ([]string, error)
	LowStock(ctx context.Context) ([]*productDatamodel.Product, error)
	ExpiringBefore(ctx context.Context, cutoff time.Time) ([]*productDatamodel.Product, error)
}

// Service evaluates alert conditions and fans alerts out to managers.
// There is no record of past alerts: every call re-evaluates and re-sends.
type Service struct {
	repo        RepositoryAPI
	sender      mailer.Sender
	publisher   events.Publisher
	windowDays  int
	sendTimeout time.Duration
	now         func() time.Time
	logger      *slog.Logger
}

func NewService(repo RepositoryAPI, sender mailer.Sender, windowDays int, logger *slog.Logger) *Service {
	if windowDays <= 0 {
		windowDays = product.DefaultExpiryWindowDays
	}
	return &Service{
		repo:        repo,
		sender:      sender,
		windowDays:  windowDays,
		sendTimeout: defaultSendTimeout,
		now:         time.Now,
		logger:      logger,
	}
}

// WithPublisher announces every fan-out on the event bus.
func (s *Service) WithPublisher(p events.Publisher) *Service {
	s.publisher = p
	return s
}

func (s *Service) EvaluateLowStock(ctx context.Context) ([]*product.Product, error) {
	rows, err := s.repo.LowStock(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to evaluate low stock", err)
	}
	out := make([]*product.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, product.FromDataModel(row))
	}
	return out, nil
}

// EvaluateExpiring returns perishable products whose expiry date is at most days away.
func (s *Service) EvaluateExpiring(ctx context.Context, days int) ([]*product.Product, error) {
	today := s.now()
	y, m, d := today.Date()
	cutoff := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)

	rows, err := s.repo.ExpiringBefore(ctx, cutoff)
	if err != nil {
		return nil, internal.NewInternalError("failed to evaluate expiring products", err)
	}
	out := make([]*product.Product, 0, len(rows))
	for _, row := range rows {
		p := product.FromDataModel(row)
		if p.IsExpiringSoon(today, days) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Service) NotifyLowStock(ctx context.Context, p *product.Product) int {
	if !p.IsLowStock() {
		return 0
	}
	sent := s.fanOut(ctx, p, "low_stock", func(to string) mailer.Message {
		return lowStockMessage(p, to)
	})
	if sent > 0 {
		s.publish(ctx, events.NewLowStockAlertEvent(p.ID, p.Name, p.SKU, p.CurrentStock, p.MinStockLevel, sent))
	}
	return sent
}

// NotifyExpiring alerts for a product the caller has already matched against
// its own window, so only the perishable and expiry date checks are repeated.
func (s *Service) NotifyExpiring(ctx context.Context, p *product.Product) int {
	if !p.IsPerishable || p.ExpiryDate == nil {
		return 0
	}
	today := s.now()
	sent := s.fanOut(ctx, p, "expiry", func(to string) mailer.Message {
		return expiryMessage(p, to, today)
	})
	if sent > 0 {
		s.publish(ctx, events.NewExpiryAlertEvent(p.ID, p.Name, p.SKU, p.ExpiryString(), p.DaysUntilExpiry(today), sent))
	}
	return sent
}

// fanOut sends one message per manager. A failed delivery is logged and the
// remaining managers are still tried. It returns the number of deliveries.
func (s *Service) fanOut(ctx context.Context, p *product.Product, kind string, build func(to string) mailer.Message) int {
	recipients, err := s.repo.ManagerEmails(ctx)
	if err != nil {
		s.logger.Error("failed to resolve alert recipients", "kind", kind, "product_id", p.ID, "error", err)
		return 0
	}
	if len(recipients) == 0 {
		s.logger.Warn("no managers to notify", "kind", kind, "product_id", p.ID, "product", p.Name)
		return 0
	}

	sent := 0
	for _, to := range recipients {
		if err := s.send(ctx, build(to)); err != nil {
			s.logger.Warn("alert email failed", "kind", kind, "product_id", p.ID, "to", to, "error", err)
			continue
		}
		sent++
	}

	s.logger.Info("alert emails sent", "kind", kind, "product_id", p.ID, "sent", sent, "recipients", len(recipients))
	return sent
}

func (s *Service) send(ctx context.Context, msg mailer.Message) (err error) {
	sendCtx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = internal.NewExternalError("mail transport panicked", internal.ErrCodeTransportFailure, nil)
		}
	}()
	return s.sender.Send(sendCtx, msg)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish alert event", "event_type", event.EventType(), "error", err)
	}
}

// Sweep evaluates both conditions over the whole catalog and notifies for each hit.
func (s *Service) Sweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	low, err := s.EvaluateLowStock(ctx)
	if err != nil {
		return result, err
	}
	for _, p := range low {
		s.NotifyLowStock(ctx, p)
		result.LowStock++
	}

	expiring, err := s.EvaluateExpiring(ctx, s.windowDays)
	if err != nil {
		return result, err
	}
	for _, p := range expiring {
		s.NotifyExpiring(ctx, p)
		result.Expiring++
	}

	s.logger.Info("notification sweep finished", "low_stock", result.LowStock, "expiring", result.Expiring)
	return result, nil
}

// Check is the staff-triggered sweep.
func (s *Service) Check(ctx context.Context, actor *user.Actor) (SweepResult, error) {
	if err := internal.RequireStaff(actor); err != nil {
		return SweepResult{}, err
	}
	s.logger.Info("manual notification sweep", "actor_id", actor.ID)
	return s.Sweep(ctx)
}
