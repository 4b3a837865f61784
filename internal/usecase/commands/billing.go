package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"academy-api/internal/domain/billing"
	"academy-api/internal/domain/mail"
	"academy-api/internal/infra"
	"academy-api/internal/pkg/config"
	"academy-api/internal/pkg/errs"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v79"
)

var ErrBadSignature = errs.New("webhook signature verification failed")

// Billing event types this classifier acts on. Exactly one arrives per
// payload; everything else is acknowledged and ignored.
const (
	eventSubscriptionUpdated = "customer.subscription.updated"
	eventSubscriptionCreated = "customer.subscription.created"
	eventChargeSucceeded     = "charge.succeeded"
	eventInvoicePaid         = "invoice.paid"
)

// DiagnosticError carries a plain-text diagnostic that the webhook endpoint
// returns with a 500, matching the contract for the two named lookup
// failures.
type DiagnosticError struct {
	Diagnostic string
}

func (e *DiagnosticError) Error() string {
	return e.Diagnostic
}

type BillingCommands interface {
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

type billingUseCaseImpl struct {
	gateway      BillingGateway
	profiles     ProfileRepository
	processed    ProcessedEventRepository
	outbox       OutboxRepository
	renderer     MailRenderer
	cfg          config.BillingConfig
	adminAddress string
	logger       *slog.Logger
}

func NewBillingCommands(
	gateway BillingGateway,
	profiles ProfileRepository,
	processed ProcessedEventRepository,
	outbox OutboxRepository,
	renderer MailRenderer,
	cfg config.BillingConfig,
	mailCfg config.MailConfig,
	logger *slog.Logger,
) BillingCommands {
	return &billingUseCaseImpl{
		gateway:      gateway,
		profiles:     profiles,
		processed:    processed,
		outbox:       outbox,
		renderer:     renderer,
		cfg:          cfg,
		adminAddress: mailCfg.AdminAddress,
		logger:       logger,
	}
}

// HandleWebhook verifies, dedupes and dispatches one billing event. The
// signature check runs before anything else; a replayed delivery is
// acknowledged without re-running its side effects.
func (u *billingUseCaseImpl) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := u.gateway.ConstructEvent(payload, sigHeader)
	if err != nil {
		return errs.Mark(err, ErrBadSignature)
	}

	fresh, err := u.processed.TryInsert(ctx, event.ID, string(event.Type))
	if err != nil {
		return err
	}
	if !fresh {
		u.logger.Info("billing event already processed", "event_id", event.ID, "type", event.Type)
		return nil
	}

	switch string(event.Type) {
	case eventSubscriptionUpdated:
		return u.handleSubscriptionUpdated(ctx, event)
	case eventChargeSucceeded:
		return u.handleChargeSucceeded(ctx, event)
	case eventInvoicePaid:
		return u.handleInvoicePaid(ctx, event)
	case eventSubscriptionCreated:
		return u.handleSubscriptionCreated(ctx, event)
	default:
		u.logger.Debug("ignoring billing event", "type", event.Type)
		return nil
	}
}

// handleSubscriptionUpdated bills the one-time signup fee when a subscription
// leaves its trial, applying the referral discount recorded at signup.
func (u *billingUseCaseImpl) handleSubscriptionUpdated(ctx context.Context, event stripe.Event) error {
	sub, err := parseObject[stripe.Subscription](event)
	if err != nil {
		return err
	}

	prevStatus, _ := event.Data.PreviousAttributes["status"].(string)
	if prevStatus != string(stripe.SubscriptionStatusTrialing) || sub.Status != stripe.SubscriptionStatusActive {
		return nil
	}

	coupon, _ := billing.ReferralCoupon(sub.Metadata[billing.MetadataReferral])

	priceID, err := u.gateway.FindOneTimePrice(ctx, u.cfg.SignupFeeLookupKey)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return &DiagnosticError{Diagnostic: "no price with lookup key: " + u.cfg.SignupFeeLookupKey}
		}
		return err
	}

	if err := u.gateway.CreateInvoiceItem(ctx, sub.Customer.ID, sub.ID, priceID, coupon); err != nil {
		return err
	}
	return u.gateway.CreateInvoice(ctx, sub.Customer.ID, sub.ID)
}

// handleChargeSucceeded credits a one-time point purchase to the buying
// student's balance.
func (u *billingUseCaseImpl) handleChargeSucceeded(ctx context.Context, event stripe.Event) error {
	pointPriceID, err := u.gateway.FindOneTimePrice(ctx, u.cfg.PointPriceLookupKey)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return &DiagnosticError{Diagnostic: "no price with lookup key: " + u.cfg.PointPriceLookupKey}
		}
		return err
	}

	charge, err := parseObject[stripe.Charge](event)
	if err != nil {
		return err
	}
	if charge.Metadata[billing.MetadataPriceID] != pointPriceID {
		return nil
	}

	numPoints, err := strconv.Atoi(charge.Metadata[billing.MetadataNumPoints])
	if err != nil {
		return errs.Wrap(err, "bad numPoints metadata on charge")
	}

	return u.creditPoints(ctx, charge.Metadata[billing.MetadataProfileID], numPoints, event.ID)
}

// handleInvoicePaid credits the recurring point-plan entitlement carried on a
// paid invoice, if any line is a point plan.
func (u *billingUseCaseImpl) handleInvoicePaid(ctx context.Context, event stripe.Event) error {
	invoice, err := parseObject[stripe.Invoice](event)
	if err != nil {
		return err
	}

	var pointLine *stripe.InvoiceLineItem
	if invoice.Lines != nil {
		for _, line := range invoice.Lines.Data {
			if line.Plan != nil && strings.Contains(line.Plan.Metadata["id"], billing.PointPlanTag) {
				pointLine = line
				break
			}
		}
	}
	if pointLine == nil {
		u.logger.Info("invoice has no point plan line", "event_id", event.ID)
		return nil
	}

	if invoice.SubscriptionDetails == nil {
		return errs.New("paid invoice is missing subscription details")
	}
	profileID := invoice.SubscriptionDetails.Metadata[billing.MetadataPlanProfile]

	return u.creditPoints(ctx, profileID, int(pointLine.Quantity), event.ID)
}

// handleSubscriptionCreated sends the registration-confirmed welcome mail to
// the new member and the admin inbox.
func (u *billingUseCaseImpl) handleSubscriptionCreated(ctx context.Context, event stripe.Event) error {
	sub, err := parseObject[stripe.Subscription](event)
	if err != nil {
		return err
	}

	profileID, err := uuid.Parse(sub.Metadata[billing.MetadataPlanProfile])
	if err != nil {
		return errs.Wrap(err, "bad profile_id metadata on subscription")
	}
	student, err := u.profiles.FindStudent(ctx, profileID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return &DiagnosticError{Diagnostic: "student profile does not exist: " + profileID.String()}
		}
		return err
	}

	email, err := u.gateway.GetCustomerEmail(ctx, sub.Customer.ID)
	if err != nil {
		return err
	}

	content, err := u.renderer.Welcome(mail.WelcomeData{
		LastName:  student.LastName,
		FirstName: student.FirstName,
	})
	if err != nil {
		return err
	}

	return u.outbox.Enqueue(ctx, mail.Message{
		Recipients: []string{email, u.adminAddress},
		Content:    content,
	})
}

func (u *billingUseCaseImpl) creditPoints(ctx context.Context, rawProfileID string, points int, eventID string) error {
	profileID, err := uuid.Parse(rawProfileID)
	if err != nil {
		return errs.Wrap(err, "bad profile id on billing event")
	}

	balance, err := u.profiles.AddStudentPoints(ctx, profileID, points)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return &DiagnosticError{Diagnostic: "student profile does not exist: " + rawProfileID}
		}
		return err
	}

	u.logger.Info("credited points",
		"event_id", eventID, "profile_id", profileID, "points", points, "balance", balance)
	return nil
}

func parseObject[T any](event stripe.Event) (*T, error) {
	var v T
	if err := json.Unmarshal(event.Data.Raw, &v); err != nil {
		return nil, errs.Wrap(err, "failed to parse billing event payload")
	}
	return &v, nil
}
