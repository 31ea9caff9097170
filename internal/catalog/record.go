package catalog

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/cast"
)

const (
	DefaultServiceName = "New Service"
	DefaultCuisineType = "Mixed"
	DefaultRating      = 4.0
)

var ErrServiceNameRequired = errors.New("servicename is required")

type Pricing struct {
	Monthly float64 `json:"monthly"`
	Yearly  float64 `json:"yearly"`
}

type DeliveryTimes struct {
	Morning string `json:"morning"`
	Lunch   string `json:"lunch"`
	Dinner  string `json:"dinner"`
}

type Menu struct {
	Morning []string `json:"morning"`
	Lunch   []string `json:"lunch"`
	Dinner  []string `json:"dinner"`
}

type Contact struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// ServiceRecord is one vendor's meal-subscription offering.
type ServiceRecord struct {
	ID            string        `json:"id"`
	ServiceName   string        `json:"servicename"`
	Description   string        `json:"description"`
	City          string        `json:"city"`
	CuisineType   string        `json:"cuisinetype"`
	Rating        float64       `json:"rating"`
	Pricing       Pricing       `json:"pricing"`
	DeliveryTimes DeliveryTimes `json:"deliveryTimes"`
	Menu          Menu          `json:"menu"`
	Contact       Contact       `json:"contact"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// CreatePayload is the body accepted by a create. Every field is optional.
// MonthlyPrice and YearlyPrice are the flat price fields older forms submit,
// either as numbers or numeric strings.
type CreatePayload struct {
	ServiceName   string         `json:"servicename,omitempty"`
	Description   string         `json:"description,omitempty"`
	City          string         `json:"city,omitempty"`
	CuisineType   string         `json:"cuisinetype,omitempty"`
	Rating        float64        `json:"rating,omitempty"`
	Pricing       *Pricing       `json:"pricing,omitempty"`
	DeliveryTimes *DeliveryTimes `json:"deliveryTimes,omitempty"`
	Menu          *Menu          `json:"menu,omitempty"`
	Contact       *Contact       `json:"contact,omitempty"`
	MonthlyPrice  interface{}    `json:"monthlyprice,omitempty"`
	YearlyPrice   interface{}    `json:"yearlyprice,omitempty"`
}

// NewRecord builds a complete record from a create payload, filling every
// missing field with its default.
func NewRecord(p CreatePayload, id string, now time.Time) ServiceRecord {
	rec := ServiceRecord{
		ID:          id,
		ServiceName: p.ServiceName,
		Description: p.Description,
		City:        p.City,
		CuisineType: p.CuisineType,
		Rating:      p.Rating,
		CreatedAt:   now.UTC(),
	}
	if strings.TrimSpace(rec.ServiceName) == "" {
		rec.ServiceName = DefaultServiceName
	}
	if rec.CuisineType == "" {
		rec.CuisineType = DefaultCuisineType
	}
	if rec.Rating == 0 {
		rec.Rating = DefaultRating
	}

	switch {
	case p.Pricing != nil:
		rec.Pricing = *p.Pricing
	case hasLegacyPrice(p.MonthlyPrice):
		rec.Pricing = Pricing{
			Monthly: cast.ToFloat64(p.MonthlyPrice),
			Yearly:  cast.ToFloat64(p.YearlyPrice),
		}
	}
	if p.DeliveryTimes != nil {
		rec.DeliveryTimes = *p.DeliveryTimes
	}
	if p.Menu != nil {
		rec.Menu = Menu{
			Morning: cloneStrings(p.Menu.Morning),
			Lunch:   cloneStrings(p.Menu.Lunch),
			Dinner:  cloneStrings(p.Menu.Dinner),
		}
	}
	if p.Contact != nil {
		rec.Contact = *p.Contact
	}

	rec.Normalize()
	return rec
}

// hasLegacyPrice reports whether a flat monthly price was supplied. Only nil
// and the empty string count as absent; zero is a price.
func hasLegacyPrice(v interface{}) bool {
	if v == nil {
		return false
	}
	s, ok := v.(string)
	return !ok || s != ""
}

// Normalize restores the group invariant: menu sections are never nil.
func (r *ServiceRecord) Normalize() {
	if r.Menu.Morning == nil {
		r.Menu.Morning = []string{}
	}
	if r.Menu.Lunch == nil {
		r.Menu.Lunch = []string{}
	}
	if r.Menu.Dinner == nil {
		r.Menu.Dinner = []string{}
	}
}

func (r ServiceRecord) Validate() error {
	if strings.TrimSpace(r.ServiceName) == "" {
		return ErrServiceNameRequired
	}
	return nil
}

// Clone returns a deep copy so callers can't alias the menu slices.
func (r ServiceRecord) Clone() ServiceRecord {
	r.Menu = Menu{
		Morning: cloneStrings(r.Menu.Morning),
		Lunch:   cloneStrings(r.Menu.Lunch),
		Dinner:  cloneStrings(r.Menu.Dinner),
	}
	return r
}

// Price returns the amount charged for a plan.
func (r ServiceRecord) Price(plan Plan) float64 {
	if plan == PlanYearly {
		return r.Pricing.Yearly
	}
	return r.Pricing.Monthly
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
