package events_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/gbytes"

	"github.com/frahmantamala/garments-tracker/internal/core/events"
	"github.com/frahmantamala/garments-tracker/pkg/logger"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(logger.Discard())
	})

	It("delivers synchronously to every subscriber in order", func() {
		var seen []string
		bus.Subscribe(events.EventTypeOrderPlaced, func(ctx context.Context, e events.Event) error {
			seen = append(seen, "first:"+e.EventType())
			return nil
		})
		bus.Subscribe(events.EventTypeOrderPlaced, func(ctx context.Context, e events.Event) error {
			seen = append(seen, "second:"+e.EventType())
			return nil
		})

		err := bus.PublishSync(context.Background(), events.NewOrderPlacedEvent("o1", "u1", "p1", 3, time.Now()))
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(Equal([]string{"first:order.placed", "second:order.placed"}))
	})

	It("stops and reports the first failing handler in sync mode", func() {
		bus.Subscribe(events.EventTypeUserSuspended, func(ctx context.Context, e events.Event) error {
			return errors.New("boom")
		})
		err := bus.PublishSync(context.Background(), events.NewUserSuspendedEvent("u1", "a1", "spam", time.Now()))
		Expect(err).To(MatchError(ContainSubstring("boom")))
	})

	It("ignores events without subscribers", func() {
		Expect(bus.Publish(context.Background(), events.NewTrackingAppendedEvent("o1", "Cutting", "Line 1", "m1", time.Now()))).To(Succeed())
	})

	It("hands async handlers a context that outlives the request", func() {
		errs := make(chan error, 1)
		bus.Subscribe(events.EventTypeOrderApproved, func(ctx context.Context, e events.Event) error {
			errs <- ctx.Err()
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(bus.Publish(ctx, events.NewOrderApprovedEvent("o1", "u1", "m1", time.Now()))).To(Succeed())
		Eventually(errs).Should(Receive(BeNil()))
	})
})

var _ = Describe("typed subscriptions", func() {
	It("delivers approvals and rejections as OrderDecidedEvent", func() {
		bus := events.NewEventBus(logger.Discard())
		var statuses []string
		bus.OnOrderDecided(func(ctx context.Context, e *events.OrderDecidedEvent) error {
			statuses = append(statuses, e.Status)
			return nil
		})

		Expect(bus.PublishSync(context.Background(), events.NewOrderApprovedEvent("o1", "u1", "m1", time.Now()))).To(Succeed())
		Expect(bus.PublishSync(context.Background(), events.NewOrderRejectedEvent("o2", "u1", "m1", time.Now()))).To(Succeed())
		Expect(statuses).To(Equal([]string{"Approved", "Rejected"}))
	})

	It("skips events of another shape under the same type", func() {
		bus := events.NewEventBus(logger.Discard())
		called := false
		bus.OnUserSuspended(func(ctx context.Context, e *events.UserSuspendedEvent) error {
			called = true
			return nil
		})

		err := bus.PublishSync(context.Background(), events.BaseEvent{ID: "x", Type: events.EventTypeUserSuspended})
		Expect(err).NotTo(HaveOccurred())
		Expect(called).To(BeFalse())
	})
})

var _ = Describe("Audit log", func() {
	It("logs every domain event type", func() {
		buf := gbytes.NewBuffer()
		lg := slog.New(slog.NewTextHandler(buf, nil))
		bus := events.NewEventBus(logger.Discard())
		events.RegisterAuditLog(bus, lg)

		Expect(bus.PublishSync(context.Background(), events.NewOrderRejectedEvent("o9", "u1", "m1", time.Now()))).To(Succeed())
		Expect(buf).To(gbytes.Say("audit"))
		Expect(buf).To(gbytes.Say("order.rejected"))
		Expect(buf).To(gbytes.Say("order decision recorded"))
		Expect(buf).To(gbytes.Say("decided_by=m1"))
	})
})

var _ = Describe("Event constructors", func() {
	It("carry their ids in the payload", func() {
		e := events.NewOrderPlacedEvent("o1", "u1", "p1", 5, time.Time{})
		Expect(e.EventID()).NotTo(BeEmpty())
		Expect(e.OccurredAt()).NotTo(BeZero())
		Expect(e.Payload()).To(HaveKeyWithValue("quantity", 5))
	})
})
