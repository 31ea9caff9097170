package catalog

import (
	"context"
	"math/rand"
	"time"
)

type Plan string

const (
	PlanMonthly Plan = "Monthly"
	PlanYearly  Plan = "Yearly"
)

const billingCycle = 30 * 24 * time.Hour

// BookingDetails is what the subscriber enters at checkout.
type BookingDetails struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Subscription is the local record kept after a simulated payment.
type Subscription struct {
	ID              int64     `json:"id"`
	ServiceID       string    `json:"serviceId"`
	Service         string    `json:"service"`
	Status          string    `json:"status"`
	Amount          float64   `json:"amount"`
	Plan            Plan      `json:"plan"`
	NextBilling     string    `json:"nextBilling"`
	MealPreferences string    `json:"mealPreferences"`
	DeliveryAddress string    `json:"deliveryAddress"`
	CreatedAt       time.Time `json:"createdAt"`
}

type BookingResult struct {
	Success      bool          `json:"success"`
	BookingID    int           `json:"bookingId"`
	Charged      float64       `json:"charged"`
	Subscription *Subscription `json:"subscription,omitempty"`
}

// Book simulates checkout for a service. Nothing is charged; the price is
// looked up through the access layer and the resulting subscription is kept
// in the local subscriptions slot. An unknown service books at price 0.
func (a *AccessLayer) Book(ctx context.Context, serviceID string, plan Plan, details BookingDetails) BookingResult {
	if plan != PlanYearly {
		plan = PlanMonthly
	}
	now := a.now()

	result := BookingResult{
		Success:   true,
		BookingID: 10000 + rand.Intn(90000),
	}
	rec, _ := a.GetByID(ctx, serviceID)
	if rec == nil {
		return result
	}
	result.Charged = rec.Price(plan)

	sub := Subscription{
		ID:              now.UnixMilli(),
		ServiceID:       rec.ID,
		Service:         rec.ServiceName,
		Status:          "Active",
		Amount:          result.Charged,
		Plan:            plan,
		NextBilling:     now.Add(billingCycle).UTC().Format(time.DateOnly),
		MealPreferences: rec.CuisineType,
		DeliveryAddress: details.Address,
		CreatedAt:       now.UTC(),
	}
	if err := a.cache.appendSubscription(sub); err != nil {
		a.log.Warn("failed to persist subscription", "service_id", rec.ID, "error", err)
	}
	result.Subscription = &sub
	return result
}

// Subscriptions lists the locally kept subscriptions, oldest first.
func (a *AccessLayer) Subscriptions() []Subscription {
	return a.cache.subscriptions()
}

func (c *FallbackCache) subscriptions() []Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadSubscriptions()
}

func (c *FallbackCache) appendSubscription(sub Subscription) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.slots == nil {
		return nil
	}
	subs := append(c.loadSubscriptions(), sub)
	raw, err := snapshotJSON.Marshal(subs)
	if err != nil {
		return err
	}
	return c.slots.Store(SubscriptionsSlot, raw)
}

// loadSubscriptions must be called with mu held.
func (c *FallbackCache) loadSubscriptions() []Subscription {
	if c.slots == nil {
		return nil
	}
	raw, err := c.slots.Load(SubscriptionsSlot)
	if err != nil || len(raw) == 0 {
		return nil
	}
	var subs []Subscription
	if err := snapshotJSON.Unmarshal(raw, &subs); err != nil {
		return nil
	}
	return subs
}
