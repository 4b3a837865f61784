//go:build unit

package commands_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"academy-api/internal/domain/profile"
	"academy-api/internal/pkg/config"
	"academy-api/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripe "github.com/stripe/stripe-go/v79"
)

type billingFixture struct {
	gateway   *fakeBillingGateway
	profiles  *fakeProfiles
	processed *fakeProcessed
	outbox    *fakeOutbox
	uc        commands.BillingCommands
}

func newBillingFixture() *billingFixture {
	f := &billingFixture{
		gateway:   newFakeBillingGateway(),
		profiles:  newFakeProfiles(),
		processed: newFakeProcessed(),
		outbox:    &fakeOutbox{},
	}
	f.gateway.prices["sign_up_fee"] = "price_fee"
	f.gateway.prices["point_one_time"] = "price_points"

	f.uc = commands.NewBillingCommands(
		f.gateway, f.profiles, f.processed, f.outbox, fakeRenderer{},
		config.BillingConfig{SignupFeeLookupKey: "sign_up_fee", PointPriceLookupKey: "point_one_time"},
		config.MailConfig{AdminAddress: "admin@example.com"},
		discardLogger(),
	)
	return f
}

func (f *billingFixture) handle(t *testing.T) error {
	t.Helper()
	return f.uc.HandleWebhook(context.Background(), []byte(`{}`), "sig")
}

func makeEvent(t *testing.T, id, eventType string, object any, prev map[string]any) stripe.Event {
	t.Helper()
	raw, err := json.Marshal(object)
	require.NoError(t, err)
	return stripe.Event{
		ID:   id,
		Type: stripe.EventType(eventType),
		Data: &stripe.EventData{
			Raw:                raw,
			PreviousAttributes: prev,
		},
	}
}

func TestHandleWebhook_Signature(t *testing.T) {
	f := newBillingFixture()
	f.gateway.constructErr = fmt.Errorf("bad signature")

	err := f.handle(t)
	assert.ErrorIs(t, err, commands.ErrBadSignature)
	// nothing is recorded before the signature clears
	assert.Empty(t, f.processed.seen)
}

func TestHandleWebhook_Dedupe(t *testing.T) {
	profileID := uuid.New()

	f := newBillingFixture()
	f.profiles.students[profileID] = &profile.Student{ID: profileID, NumPoints: 0}
	f.gateway.event = makeEvent(t, "evt_1", "charge.succeeded", map[string]any{
		"metadata": map[string]string{
			"priceId":   "price_points",
			"profileId": profileID.String(),
			"numPoints": "5",
		},
	}, nil)

	require.NoError(t, f.handle(t))
	require.NoError(t, f.handle(t))

	assert.Equal(t, 5, f.profiles.students[profileID].NumPoints, "replayed delivery must not credit twice")
}

func TestHandleWebhook_SubscriptionUpdated(t *testing.T) {
	subObject := func(status string) map[string]any {
		return map[string]any{
			"id":       "sub_1",
			"status":   status,
			"customer": "cus_1",
			"metadata": map[string]string{"referral_type": "twenty"},
		}
	}

	t.Run("trial end bills the signup fee with the referral coupon", func(t *testing.T) {
		f := newBillingFixture()
		f.gateway.event = makeEvent(t, "evt_up1", "customer.subscription.updated",
			subObject("active"), map[string]any{"status": "trialing"})

		require.NoError(t, f.handle(t))

		require.Len(t, f.gateway.invoiceItems, 1)
		item := f.gateway.invoiceItems[0]
		assert.Equal(t, "cus_1", item.CustomerID)
		assert.Equal(t, "sub_1", item.SubscriptionID)
		assert.Equal(t, "price_fee", item.PriceID)
		assert.Equal(t, "ambassador20", item.CouponID)

		assert.Equal(t, []string{"cus_1"}, f.gateway.invoicesCreated)
	})

	t.Run("other status changes are ignored", func(t *testing.T) {
		f := newBillingFixture()
		f.gateway.event = makeEvent(t, "evt_up2", "customer.subscription.updated",
			subObject("active"), map[string]any{"status": "past_due"})

		require.NoError(t, f.handle(t))
		assert.Empty(t, f.gateway.invoiceItems)
	})

	t.Run("missing signup fee price surfaces a diagnostic", func(t *testing.T) {
		f := newBillingFixture()
		delete(f.gateway.prices, "sign_up_fee")
		f.gateway.event = makeEvent(t, "evt_up3", "customer.subscription.updated",
			subObject("active"), map[string]any{"status": "trialing"})

		err := f.handle(t)
		var diag *commands.DiagnosticError
		require.ErrorAs(t, err, &diag)
		assert.Contains(t, diag.Diagnostic, "sign_up_fee")
		assert.Empty(t, f.gateway.invoiceItems)
	})
}

func TestHandleWebhook_ChargeSucceeded(t *testing.T) {
	profileID := uuid.New()

	chargeObject := func(priceID string) map[string]any {
		return map[string]any{
			"metadata": map[string]string{
				"priceId":   priceID,
				"profileId": profileID.String(),
				"numPoints": "7",
			},
		}
	}

	t.Run("point purchase credits the balance", func(t *testing.T) {
		f := newBillingFixture()
		f.profiles.students[profileID] = &profile.Student{ID: profileID, NumPoints: 1}
		f.gateway.event = makeEvent(t, "evt_ch1", "charge.succeeded", chargeObject("price_points"), nil)

		require.NoError(t, f.handle(t))
		assert.Equal(t, 8, f.profiles.students[profileID].NumPoints)
	})

	t.Run("charges for other prices are ignored", func(t *testing.T) {
		f := newBillingFixture()
		f.profiles.students[profileID] = &profile.Student{ID: profileID, NumPoints: 1}
		f.gateway.event = makeEvent(t, "evt_ch2", "charge.succeeded", chargeObject("price_other"), nil)

		require.NoError(t, f.handle(t))
		assert.Equal(t, 1, f.profiles.students[profileID].NumPoints)
	})

	t.Run("unknown profile surfaces a diagnostic", func(t *testing.T) {
		f := newBillingFixture()
		f.gateway.event = makeEvent(t, "evt_ch3", "charge.succeeded", chargeObject("price_points"), nil)

		err := f.handle(t)
		var diag *commands.DiagnosticError
		require.ErrorAs(t, err, &diag)
		assert.Contains(t, diag.Diagnostic, profileID.String())
	})
}

func TestHandleWebhook_InvoicePaid(t *testing.T) {
	profileID := uuid.New()

	invoiceObject := func(planMetaID string) map[string]any {
		return map[string]any{
			"lines": map[string]any{
				"data": []map[string]any{
					{
						"quantity": 4,
						"plan": map[string]any{
							"id":       "plan_1",
							"metadata": map[string]string{"id": planMetaID},
						},
					},
				},
			},
			"subscription_details": map[string]any{
				"metadata": map[string]string{"profile_id": profileID.String()},
			},
		}
	}

	t.Run("point plan line credits its quantity", func(t *testing.T) {
		f := newBillingFixture()
		f.profiles.students[profileID] = &profile.Student{ID: profileID, NumPoints: 2}
		f.gateway.event = makeEvent(t, "evt_in1", "invoice.paid", invoiceObject("monthly_point_plan"), nil)

		require.NoError(t, f.handle(t))
		assert.Equal(t, 6, f.profiles.students[profileID].NumPoints)
	})

	t.Run("invoices without a point plan are ignored", func(t *testing.T) {
		f := newBillingFixture()
		f.profiles.students[profileID] = &profile.Student{ID: profileID, NumPoints: 2}
		f.gateway.event = makeEvent(t, "evt_in2", "invoice.paid", invoiceObject("tuition_plan"), nil)

		require.NoError(t, f.handle(t))
		assert.Equal(t, 2, f.profiles.students[profileID].NumPoints)
	})
}

func TestHandleWebhook_SubscriptionCreated(t *testing.T) {
	profileID := uuid.New()

	f := newBillingFixture()
	f.profiles.students[profileID] = &profile.Student{ID: profileID, LastName: "山田", FirstName: "太郎"}
	f.gateway.customerEmail = "member@example.com"
	f.gateway.event = makeEvent(t, "evt_cr1", "customer.subscription.created", map[string]any{
		"id":       "sub_1",
		"customer": "cus_1",
		"metadata": map[string]string{"profile_id": profileID.String()},
	}, nil)

	require.NoError(t, f.handle(t))

	require.Len(t, f.outbox.enqueued, 1)
	msg := f.outbox.enqueued[0]
	assert.Equal(t, []string{"member@example.com", "admin@example.com"}, msg.Recipients)
	assert.Equal(t, "welcome", msg.Content.Subject)
	assert.Contains(t, msg.Content.HTML, "山田")
}

func TestHandleWebhook_UnknownType(t *testing.T) {
	f := newBillingFixture()
	f.gateway.event = makeEvent(t, "evt_x", "customer.deleted", map[string]any{}, nil)

	require.NoError(t, f.handle(t))
	assert.Empty(t, f.outbox.enqueued)
	assert.Empty(t, f.gateway.invoiceItems)
	// acknowledged deliveries are still recorded
	assert.True(t, f.processed.seen["evt_x"])
}
