package order_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/garments-tracker/internal"
	"github.com/frahmantamala/garments-tracker/internal/core/access"
	orderDatamodel "github.com/frahmantamala/garments-tracker/internal/core/datamodel/order"
	"github.com/frahmantamala/garments-tracker/internal/core/events"
	"github.com/frahmantamala/garments-tracker/internal/order"
	"github.com/frahmantamala/garments-tracker/pkg/logger"
)

func TestOrder(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Order Suite")
}

// MockRepository keeps orders in memory and applies status changes as a compare-and-set.
type MockRepository struct {
	mu     sync.Mutex
	orders map[string]*orderDatamodel.Order
	seq    int64
	err    error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{orders: map[string]*orderDatamodel.Order{}}
}

func (m *MockRepository) Create(_ context.Context, o *orderDatamodel.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *o
	m.orders[o.ID] = &cp
	return nil
}

func (m *MockRepository) GetByID(_ context.Context, id string) (*orderDatamodel.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, internal.ErrOrderNotFound
	}
	return m.copyOf(o), nil
}

func (m *MockRepository) ListByOwner(_ context.Context, ownerID string) ([]*orderDatamodel.Order, error) {
	return m.filter(func(o *orderDatamodel.Order) bool { return o.OwnerID == ownerID }, false), nil
}

func (m *MockRepository) ListByStatus(_ context.Context, status string) ([]*orderDatamodel.Order, error) {
	return m.filter(func(o *orderDatamodel.Order) bool { return o.Status == status }, true), nil
}

func (m *MockRepository) ListAll(_ context.Context) ([]*orderDatamodel.Order, error) {
	return m.filter(func(*orderDatamodel.Order) bool { return true }, false), nil
}

func (m *MockRepository) TransitionStatus(_ context.Context, id, from, to string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return internal.ErrOrderNotFound
	}
	if o.Status != from {
		return internal.ErrInvalidTransition
	}
	o.Status = to
	if to == string(order.StatusApproved) {
		o.ApprovedAt = &at
	} else {
		o.RejectedAt = &at
	}
	return nil
}

func (m *MockRepository) AppendTracking(_ context.Context, entry *orderDatamodel.TrackingEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[entry.OrderID]
	if !ok {
		return internal.ErrOrderNotFound
	}
	m.seq++
	e := *entry
	e.ID = m.seq
	o.TrackingHistory = append(o.TrackingHistory, e)
	o.CurrentStatus = e.Stage
	return nil
}

func (m *MockRepository) copyOf(o *orderDatamodel.Order) *orderDatamodel.Order {
	cp := *o
	cp.TrackingHistory = append([]orderDatamodel.TrackingEntry(nil), o.TrackingHistory...)
	return &cp
}

func (m *MockRepository) filter(keep func(*orderDatamodel.Order) bool, oldestFirst bool) []*orderDatamodel.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*orderDatamodel.Order
	for _, o := range m.orders {
		if keep(o) {
			out = append(out, m.copyOf(o))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if oldestFirst {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// policyAuthorizer applies the policy table, with a configurable set of suspended users.
type policyAuthorizer struct {
	suspended map[string]bool
}

func (a policyAuthorizer) Authorize(_ context.Context, actor internal.Identity, op access.Operation) error {
	if actor.UserID == "" {
		return internal.ErrUnauthenticated
	}
	p, ok := access.Lookup(op)
	if !ok || !p.Allows(access.Role(actor.Role)) {
		return internal.ErrForbidden
	}
	if p.RequireActive && a.suspended[actor.UserID] {
		return internal.ErrAccountSuspended
	}
	return nil
}

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.types = append(p.types, e.EventType())
	return nil
}

func (p *recordingPublisher) Types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.types...)
}

var _ = Describe("Order Service", func() {
	var (
		repo      *MockRepository
		authz     policyAuthorizer
		publisher *recordingPublisher
		svc       *order.Service
		ctx       context.Context
		clock     time.Time

		buyer   internal.Identity
		other   internal.Identity
		manager internal.Identity
		admin   internal.Identity
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = NewMockRepository()
		authz = policyAuthorizer{suspended: map[string]bool{}}
		publisher = &recordingPublisher{}
		clock = time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
		var clockMu sync.Mutex
		svc = order.NewService(repo, authz, publisher, logger.Discard()).WithClock(func() time.Time {
			clockMu.Lock()
			defer clockMu.Unlock()
			clock = clock.Add(time.Second)
			return clock
		})

		buyer = internal.Identity{UserID: uuid.NewString(), Email: "buyer@example.com", Role: "buyer"}
		other = internal.Identity{UserID: uuid.NewString(), Email: "other@example.com", Role: "buyer"}
		manager = internal.Identity{UserID: uuid.NewString(), Email: "manager@example.com", Role: "manager"}
		admin = internal.Identity{UserID: uuid.NewString(), Email: "admin@example.com", Role: "admin"}
	})

	place := func(actor internal.Identity) *order.Order {
		o, err := svc.PlaceOrder(ctx, actor, order.PlaceOrderDTO{ProductID: "SKU-1", Quantity: 10})
		Expect(err).NotTo(HaveOccurred())
		return o
	}

	Describe("PlaceOrder", func() {
		It("creates a pending order with an empty history", func() {
			o := place(buyer)
			Expect(o.Status).To(Equal(order.StatusPending))
			Expect(o.OwnerID).To(Equal(buyer.UserID))
			Expect(o.TrackingHistory).To(BeEmpty())
			Expect(publisher.Types()).To(ConsistOf(events.EventTypeOrderPlaced))
		})

		It("rejects non-positive quantities", func() {
			_, err := svc.PlaceOrder(ctx, buyer, order.PlaceOrderDTO{ProductID: "SKU-1", Quantity: 0})
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeValidation))
		})

		It("refuses managers", func() {
			_, err := svc.PlaceOrder(ctx, manager, order.PlaceOrderDTO{ProductID: "SKU-1", Quantity: 1})
			Expect(err).To(MatchError(internal.ErrForbidden))
		})

		It("refuses suspended buyers", func() {
			authz.suspended[buyer.UserID] = true
			_, err := svc.PlaceOrder(ctx, buyer, order.PlaceOrderDTO{ProductID: "SKU-1", Quantity: 1})
			Expect(err).To(MatchError(internal.ErrAccountSuspended))
		})

		It("surfaces store failures", func() {
			repo.err = internal.NewStoreUnavailableError(nil)
			_, err := svc.PlaceOrder(ctx, buyer, order.PlaceOrderDTO{ProductID: "SKU-1", Quantity: 1})
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeStoreUnavailable))
		})
	})

	Describe("decisions", func() {
		It("approves a pending order once", func() {
			o := place(buyer)

			approved, err := svc.Approve(ctx, manager, o.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(approved.Status).To(Equal(order.StatusApproved))
			Expect(approved.ApprovedAt).NotTo(BeNil())

			_, err = svc.Approve(ctx, manager, o.ID)
			Expect(err).To(MatchError(internal.ErrInvalidTransition))

			_, err = svc.Reject(ctx, manager, o.ID)
			Expect(err).To(MatchError(internal.ErrInvalidTransition))

			got, err := svc.GetOrder(ctx, admin, o.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Status).To(Equal(order.StatusApproved))
		})

		It("rejects a pending order", func() {
			o := place(buyer)
			rejected, err := svc.Reject(ctx, manager, o.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(rejected.Status).To(Equal(order.StatusRejected))
			Expect(publisher.Types()).To(Equal([]string{events.EventTypeOrderPlaced, events.EventTypeOrderRejected}))
		})

		It("lets exactly one of two concurrent decisions win", func() {
			o := place(buyer)

			var wg sync.WaitGroup
			results := make([]error, 2)
			for i, decide := range []func(context.Context, internal.Identity, string) (*order.Order, error){svc.Approve, svc.Reject} {
				wg.Add(1)
				go func(i int, decide func(context.Context, internal.Identity, string) (*order.Order, error)) {
					defer GinkgoRecover()
					defer wg.Done()
					_, results[i] = decide(ctx, manager, o.ID)
				}(i, decide)
			}
			wg.Wait()

			failures := 0
			for _, err := range results {
				if err != nil {
					Expect(err).To(MatchError(internal.ErrInvalidTransition))
					failures++
				}
			}
			Expect(failures).To(Equal(1))
		})

		It("reports unknown orders", func() {
			_, err := svc.Approve(ctx, manager, uuid.NewString())
			Expect(err).To(MatchError(internal.ErrOrderNotFound))
		})

		It("rejects malformed ids", func() {
			_, err := svc.Approve(ctx, manager, "not-an-id")
			Expect(err).To(MatchError(internal.ErrInvalidID))
		})

		It("is manager only", func() {
			o := place(buyer)
			_, err := svc.Approve(ctx, buyer, o.ID)
			Expect(err).To(MatchError(internal.ErrForbidden))
			_, err = svc.Approve(ctx, admin, o.ID)
			Expect(err).To(MatchError(internal.ErrForbidden))
		})
	})

	Describe("tracking", func() {
		It("keeps entries in append order and mirrors the newest stage", func() {
			o := place(buyer)
			stages := []string{"Cutting", "Sewing", "Finishing", "Shipped"}
			for _, s := range stages {
				_, err := svc.AppendTracking(ctx, manager, o.ID, order.TrackingDTO{Status: s, Location: "Line 2"})
				Expect(err).NotTo(HaveOccurred())
			}

			history, err := svc.GetTracking(ctx, buyer, o.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(HaveLen(len(stages)))
			for i, s := range stages {
				Expect(history[i].Status).To(Equal(s))
			}
			Expect(history[0].Timestamp.Before(history[3].Timestamp)).To(BeTrue())

			got, err := svc.GetOrder(ctx, buyer, o.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.CurrentStatus).To(Equal("Shipped"))
			Expect(got.Status).To(Equal(order.StatusPending))
		})

		It("is allowed after a decision", func() {
			o := place(buyer)
			_, err := svc.Reject(ctx, manager, o.ID)
			Expect(err).NotTo(HaveOccurred())

			updated, err := svc.AppendTracking(ctx, manager, o.ID, order.TrackingDTO{Status: "Returned"})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(order.StatusRejected))
			Expect(updated.TrackingHistory).To(HaveLen(1))
		})

		It("returns an empty history for new orders", func() {
			o := place(buyer)
			history, err := svc.GetTracking(ctx, manager, o.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(history).NotTo(BeNil())
			Expect(history).To(BeEmpty())
		})

		It("requires a stage", func() {
			o := place(buyer)
			_, err := svc.AppendTracking(ctx, manager, o.ID, order.TrackingDTO{Location: "Dock"})
			Expect(internal.KindOf(err)).To(Equal(internal.ErrorTypeValidation))
		})

		It("reports unknown orders", func() {
			_, err := svc.AppendTracking(ctx, manager, uuid.NewString(), order.TrackingDTO{Status: "Cutting"})
			Expect(err).To(MatchError(internal.ErrOrderNotFound))
		})
	})

	Describe("reads", func() {
		It("hides other buyers' orders", func() {
			o := place(buyer)

			_, err := svc.GetOrder(ctx, other, o.ID)
			Expect(err).To(MatchError(internal.ErrForbidden))
			_, err = svc.GetTracking(ctx, other, o.ID)
			Expect(err).To(MatchError(internal.ErrForbidden))

			_, err = svc.GetOrder(ctx, manager, o.ID)
			Expect(err).NotTo(HaveOccurred())
		})

		It("lets a suspended buyer keep reading", func() {
			o := place(buyer)
			authz.suspended[buyer.UserID] = true

			mine, err := svc.ListOwnOrders(ctx, buyer)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(1))
			Expect(mine[0].ID).To(Equal(o.ID))
		})

		It("orders the pending queue oldest first and the full list newest first", func() {
			first := place(buyer)
			second := place(other)
			third := place(buyer)
			_, err := svc.Approve(ctx, manager, second.ID)
			Expect(err).NotTo(HaveOccurred())

			pending, err := svc.ListPending(ctx, manager)
			Expect(err).NotTo(HaveOccurred())
			Expect([]string{pending[0].ID, pending[1].ID}).To(Equal([]string{first.ID, third.ID}))

			all, err := svc.ListAll(ctx, admin)
			Expect(err).NotTo(HaveOccurred())
			Expect(all[0].ID).To(Equal(third.ID))
			Expect(all).To(HaveLen(3))

			_, err = svc.ListAll(ctx, manager)
			Expect(err).To(MatchError(internal.ErrForbidden))
		})
	})
})
