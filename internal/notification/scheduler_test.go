package notification_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/Abdulrahman-Alsuhaymi/Stocker/internal/notification"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type countingSweeper struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweeper) Sweep(ctx context.Context) (notification.SweepResult, error) {
	c.calls.Add(1)
	return notification.SweepResult{LowStock: 1}, c.err
}

var _ = Describe("Scheduler", func() {
	var logger *slog.Logger

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	It("should reject an invalid schedule", func() {
		s := notification.NewScheduler(&countingSweeper{}, "not a schedule", logger)
		Expect(s.Start(context.Background())).NotTo(Succeed())
	})

	It("should run the sweep on demand", func() {
		sweeper := &countingSweeper{}
		s := notification.NewScheduler(sweeper, "@every 1h", logger)
		s.RunOnce(context.Background())
		Expect(sweeper.calls.Load()).To(Equal(int32(1)))
	})

	It("should survive a failing sweep", func() {
		sweeper := &countingSweeper{err: errors.New("boom")}
		s := notification.NewScheduler(sweeper, "@every 1h", logger)
		Expect(func() { s.RunOnce(context.Background()) }).NotTo(Panic())
	})

	It("should fire on its schedule", func() {
		sweeper := &countingSweeper{}
		s := notification.NewScheduler(sweeper, "@every 1s", logger)
		Expect(s.Start(context.Background())).To(Succeed())
		defer s.Stop(context.Background())

		Eventually(sweeper.calls.Load, "3s", "100ms").Should(BeNumerically(">=", 1))
	})
})
