//go:build unit

package commands_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"academy-api/internal/domain/billing"
	"academy-api/internal/domain/lesson"
	"academy-api/internal/domain/mail"
	"academy-api/internal/domain/profile"
	"academy-api/internal/infra"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v79"
	"google.golang.org/api/calendar/v3"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func notFoundErr(msg string) error {
	return infra.WrapRepoErr(msg, errors.New("no rows"), infra.KindNotFound)
}

// ---- calendar gateway ----

// The lesson delete path issues concurrent calls, so every method takes the
// lock.
type fakeCalendarGateway struct {
	mu sync.Mutex

	snapshots map[string]*lesson.Snapshot
	listed    []*lesson.Snapshot

	inserted []lesson.WriteInput
	updated  []lesson.WriteInput
	deleted  []string
	reminded []string

	lastCalendarID string

	getErr    error
	deleteErr error
	listErr   error
}

func newFakeCalendarGateway() *fakeCalendarGateway {
	return &fakeCalendarGateway{snapshots: map[string]*lesson.Snapshot{}}
}

func (f *fakeCalendarGateway) Insert(_ context.Context, calendarID string, in lesson.WriteInput) (*calendar.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCalendarID = calendarID
	f.inserted = append(f.inserted, in)
	return &calendar.Event{Id: "created"}, nil
}

func (f *fakeCalendarGateway) Update(_ context.Context, calendarID, eventID string, in lesson.WriteInput) (*calendar.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCalendarID = calendarID
	if _, ok := f.snapshots[eventID]; !ok {
		return nil, notFoundErr("event not found")
	}
	f.updated = append(f.updated, in)
	return &calendar.Event{Id: eventID}, nil
}

func (f *fakeCalendarGateway) Get(_ context.Context, calendarID, eventID string) (*lesson.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCalendarID = calendarID
	if f.getErr != nil {
		return nil, f.getErr
	}
	snap, ok := f.snapshots[eventID]
	if !ok {
		return nil, notFoundErr("event not found")
	}
	return snap, nil
}

func (f *fakeCalendarGateway) List(_ context.Context, calendarID string, _ lesson.ListQuery) ([]*lesson.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCalendarID = calendarID
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listed, nil
}

func (f *fakeCalendarGateway) Delete(_ context.Context, calendarID, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastCalendarID = calendarID
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.snapshots[eventID]; !ok {
		return notFoundErr("event not found")
	}
	f.deleted = append(f.deleted, eventID)
	return nil
}

func (f *fakeCalendarGateway) MarkReminderSent(_ context.Context, _, eventID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminded = append(f.reminded, eventID)
	return nil
}

// ---- billing gateway ----

type invoiceItemCall struct {
	CustomerID     string
	SubscriptionID string
	PriceID        string
	CouponID       string
}

type fakeBillingGateway struct {
	event        stripe.Event
	constructErr error

	prices map[string]string // lookup key -> price id

	invoiceItems    []invoiceItemCall
	invoicesCreated []string

	customerEmail string

	subscription *stripe.Subscription
	itemChanges  [][]billing.ItemChange
}

func newFakeBillingGateway() *fakeBillingGateway {
	return &fakeBillingGateway{prices: map[string]string{}}
}

func (f *fakeBillingGateway) ConstructEvent(_ []byte, _ string) (stripe.Event, error) {
	if f.constructErr != nil {
		return stripe.Event{}, f.constructErr
	}
	return f.event, nil
}

func (f *fakeBillingGateway) FindOneTimePrice(_ context.Context, lookupKey string) (string, error) {
	id, ok := f.prices[lookupKey]
	if !ok {
		return "", notFoundErr("no active price for lookup key")
	}
	return id, nil
}

func (f *fakeBillingGateway) CreateInvoiceItem(_ context.Context, customerID, subscriptionID, priceID, couponID string) error {
	f.invoiceItems = append(f.invoiceItems, invoiceItemCall{
		CustomerID:     customerID,
		SubscriptionID: subscriptionID,
		PriceID:        priceID,
		CouponID:       couponID,
	})
	return nil
}

func (f *fakeBillingGateway) CreateInvoice(_ context.Context, customerID, _ string) error {
	f.invoicesCreated = append(f.invoicesCreated, customerID)
	return nil
}

func (f *fakeBillingGateway) GetCustomerEmail(_ context.Context, _ string) (string, error) {
	return f.customerEmail, nil
}

func (f *fakeBillingGateway) GetSubscription(_ context.Context, _ string) (*stripe.Subscription, error) {
	if f.subscription == nil {
		return nil, notFoundErr("subscription not found")
	}
	return f.subscription, nil
}

func (f *fakeBillingGateway) UpdateSubscriptionItems(_ context.Context, _ string, changes []billing.ItemChange) (*stripe.Subscription, error) {
	f.itemChanges = append(f.itemChanges, changes)
	return f.subscription, nil
}

// ---- repositories ----

type fakeProfiles struct {
	students map[uuid.UUID]*profile.Student
	teachers map[uuid.UUID]*profile.Teacher

	credits map[uuid.UUID]int

	backfilled int64
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{
		students: map[uuid.UUID]*profile.Student{},
		teachers: map[uuid.UUID]*profile.Teacher{},
		credits:  map[uuid.UUID]int{},
	}
}

func (f *fakeProfiles) FindStudent(_ context.Context, id uuid.UUID) (*profile.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, notFoundErr("student profile not found")
	}
	return s, nil
}

func (f *fakeProfiles) FindTeacher(_ context.Context, id uuid.UUID) (*profile.Teacher, error) {
	t, ok := f.teachers[id]
	if !ok {
		return nil, notFoundErr("teacher profile not found")
	}
	return t, nil
}

func (f *fakeProfiles) AddStudentPoints(_ context.Context, id uuid.UUID, delta int) (int, error) {
	s, ok := f.students[id]
	if !ok {
		return 0, notFoundErr("student profile not found")
	}
	s.NumPoints += delta
	f.credits[id] += delta
	return s.NumPoints, nil
}

func (f *fakeProfiles) BackfillLegacyIDs(_ context.Context) (int64, error) {
	return f.backfilled, nil
}

type fakeUsers struct {
	known    map[uuid.UUID]bool
	emails   map[uuid.UUID]string
	verified map[uuid.UUID]bool
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		known:    map[uuid.UUID]bool{},
		emails:   map[uuid.UUID]string{},
		verified: map[uuid.UUID]bool{},
	}
}

func (f *fakeUsers) UpdateEmail(_ context.Context, id uuid.UUID, email string) error {
	if !f.known[id] {
		return notFoundErr("user not found")
	}
	f.emails[id] = email
	return nil
}

func (f *fakeUsers) MarkEmailVerified(_ context.Context, id uuid.UUID) error {
	if !f.known[id] {
		return notFoundErr("user not found")
	}
	f.verified[id] = true
	return nil
}

type fakeOutbox struct {
	enqueued    []mail.Message
	enqueueErr  error
	enqueueHook func() error
}

func (f *fakeOutbox) Enqueue(_ context.Context, msg mail.Message) error {
	if f.enqueueHook != nil {
		if err := f.enqueueHook(); err != nil {
			return err
		}
	}
	if f.enqueueErr != nil {
		return f.enqueueErr
	}
	f.enqueued = append(f.enqueued, msg)
	return nil
}

type fakeProcessed struct {
	seen map[string]bool
}

func newFakeProcessed() *fakeProcessed {
	return &fakeProcessed{seen: map[string]bool{}}
}

func (f *fakeProcessed) TryInsert(_ context.Context, eventID, _ string) (bool, error) {
	if f.seen[eventID] {
		return false, nil
	}
	f.seen[eventID] = true
	return true, nil
}

// ---- renderer ----

type fakeRenderer struct{}

func (fakeRenderer) Welcome(data mail.WelcomeData) (mail.Content, error) {
	return mail.Content{Subject: "welcome", HTML: data.LastName + " " + data.FirstName}, nil
}

func (fakeRenderer) LessonNotice(data mail.LessonNoticeData) (mail.Content, error) {
	subject := "notice"
	if data.Cancelled {
		subject = "cancelled"
	}
	return mail.Content{Subject: subject, HTML: data.Summary}, nil
}

func (fakeRenderer) LessonReminder(data mail.LessonReminderData) (mail.Content, error) {
	return mail.Content{Subject: "reminder", HTML: data.Summary}, nil
}
