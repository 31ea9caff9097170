package models

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/meal-catalog/internal/catalog"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Service is the stored form of a catalog.ServiceRecord. The uuid primary key
// is internal; clients only ever see and look up ServiceID.
type Service struct {
	ID            uuid.UUID                                 `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	ServiceID     string                                    `gorm:"size:32;not null;uniqueIndex" json:"id"`
	ServiceName   string                                    `gorm:"size:255;not null" json:"servicename"`
	Description   string                                    `gorm:"type:text;default:''" json:"description"`
	City          string                                    `gorm:"size:100;default:'';index" json:"city"`
	CuisineType   string                                    `gorm:"size:100;default:'Mixed'" json:"cuisinetype"`
	Rating        float64                                   `gorm:"default:4" json:"rating"`
	Pricing       datatypes.JSONType[catalog.Pricing]       `gorm:"type:jsonb" json:"pricing"`
	DeliveryTimes datatypes.JSONType[catalog.DeliveryTimes] `gorm:"type:jsonb" json:"deliveryTimes"`
	Menu          datatypes.JSONType[catalog.Menu]          `gorm:"type:jsonb" json:"menu"`
	Contact       datatypes.JSONType[catalog.Contact]       `gorm:"type:jsonb" json:"contact"`
	CreatedAt     time.Time                                 `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time                                 `json:"-"`
}

func (Service) TableName() string {
	return "services"
}

func ServiceFromRecord(rec catalog.ServiceRecord) Service {
	return Service{
		ServiceID:     rec.ID,
		ServiceName:   rec.ServiceName,
		Description:   rec.Description,
		City:          rec.City,
		CuisineType:   rec.CuisineType,
		Rating:        rec.Rating,
		Pricing:       datatypes.NewJSONType(rec.Pricing),
		DeliveryTimes: datatypes.NewJSONType(rec.DeliveryTimes),
		Menu:          datatypes.NewJSONType(rec.Menu),
		Contact:       datatypes.NewJSONType(rec.Contact),
		CreatedAt:     rec.CreatedAt,
	}
}

func (s Service) ToRecord() catalog.ServiceRecord {
	rec := catalog.ServiceRecord{
		ID:            s.ServiceID,
		ServiceName:   s.ServiceName,
		Description:   s.Description,
		City:          s.City,
		CuisineType:   s.CuisineType,
		Rating:        s.Rating,
		Pricing:       s.Pricing.Data(),
		DeliveryTimes: s.DeliveryTimes.Data(),
		Menu:          s.Menu.Data(),
		Contact:       s.Contact.Data(),
		CreatedAt:     s.CreatedAt,
	}
	rec.Normalize()
	return rec
}

// ApplyRecord copies the mutable fields of rec onto s.
func (s *Service) ApplyRecord(rec catalog.ServiceRecord) {
	s.ServiceName = rec.ServiceName
	s.Description = rec.Description
	s.City = rec.City
	s.CuisineType = rec.CuisineType
	s.Rating = rec.Rating
	s.Pricing = datatypes.NewJSONType(rec.Pricing)
	s.DeliveryTimes = datatypes.NewJSONType(rec.DeliveryTimes)
	s.Menu = datatypes.NewJSONType(rec.Menu)
	s.Contact = datatypes.NewJSONType(rec.Contact)
}
