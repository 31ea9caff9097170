package catalog

import (
	"fmt"
	"os"
)

// SeedRecords returns the built-in sample catalog the fallback cache starts
// from. A fresh copy is returned on every call.
func SeedRecords() []ServiceRecord {
	return []ServiceRecord{
		{
			ID:          "1",
			ServiceName: "Homely Meals",
			Description: "Daily fresh South Indian breakfast, lunch and dinner made by local home cooks.",
			City:        "Chennai",
			CuisineType: "South Indian",
			Rating:      4.8,
			Pricing:     Pricing{Monthly: 3500, Yearly: 38000},
			DeliveryTimes: DeliveryTimes{
				Morning: "7:00 - 9:00", Lunch: "12:00 - 13:30", Dinner: "19:00 - 20:30",
			},
			Menu: Menu{
				Morning: []string{"Idli (2) + Sambar", "Dosa + Coconut Chutney", "Pongal"},
				Lunch:   []string{"Rice, Rasam, Sambar, 2 Veg Curries, Curd", "Buttermilk", "Salad"},
				Dinner:  []string{"Chapati(2) + Dal, Veg Curry, Salad", "Rasam", "Pickle"},
			},
			Contact: Contact{Phone: "+91-9876543210", Email: "homely@meals.example"},
		},
		{
			ID:          "2",
			ServiceName: "Campus Kitchen",
			Description: "Affordable balanced meals tailored for PG students: focused on nutrition and on-time delivery.",
			City:        "Bengaluru",
			CuisineType: "Mixed",
			Rating:      4.6,
			Pricing:     Pricing{Monthly: 2999, Yearly: 33000},
			DeliveryTimes: DeliveryTimes{
				Morning: "7:30 - 8:30", Lunch: "12:30 - 13:30", Dinner: "20:00 - 21:00",
			},
			Menu: Menu{
				Morning: []string{"Poha", "Egg Omelette + Toast", "Paratha with Aloo"},
				Lunch:   []string{"Veg Thali with Rice, Dal, 2 Veg, Salad", "Curd"},
				Dinner:  []string{"Paneer Butter Masala + Roti", "Jeera Rice", "Dessert (Kheer)"},
			},
			Contact: Contact{Phone: "+91-9123456780", Email: "hello@campuskitchen.example"},
		},
		{
			ID:          "3",
			ServiceName: "NorthFlavors",
			Description: "Hearty North Indian menus with rich gravies and daily specials, ideal for students missing home food.",
			City:        "Delhi",
			CuisineType: "North Indian",
			Rating:      4.7,
			Pricing:     Pricing{Monthly: 4200, Yearly: 45000},
			DeliveryTimes: DeliveryTimes{
				Morning: "8:00 - 9:00", Lunch: "13:00 - 14:00", Dinner: "20:00 - 21:30",
			},
			Menu: Menu{
				Morning: []string{"Aloo Paratha + Curd", "Chole Bhature (weekends)", "Sooji Upma"},
				Lunch:   []string{"Dal Makhani, Jeera Rice, Mixed Veg, Raita"},
				Dinner:  []string{"Butter Chicken + Naan", "Dal Tadka + Rice"},
			},
			Contact: Contact{Phone: "+91-9012345678", Email: "info@northflavors.example"},
		},
		{
			ID:          "4",
			ServiceName: "GreenBite Meals",
			Description: "Vegetarian-first meal plans with healthy portions and timely doorstep delivery.",
			City:        "Pune",
			CuisineType: "Vegetarian",
			Rating:      4.5,
			Pricing:     Pricing{Monthly: 3200, Yearly: 34500},
			DeliveryTimes: DeliveryTimes{
				Morning: "7:00 - 8:00", Lunch: "12:00 - 13:00", Dinner: "19:30 - 20:30",
			},
			Menu: Menu{
				Morning: []string{"Mixed Fruit Yogurt", "Vegetable Sandwich", "Idli"},
				Lunch:   []string{"Brown Rice, Rajma, Seasonal Veg, Salad"},
				Dinner:  []string{"Roti, Paneer Curry, Soup"},
			},
			Contact: Contact{Phone: "+91-9765432100", Email: "hello@greenbite.example"},
		},
		{
			ID:          "5",
			ServiceName: "Express Tiffins",
			Description: "Quick, tasty tiffins optimized for students with tight schedules, reliable morning & evening deliveries.",
			City:        "Hyderabad",
			CuisineType: "Hyderabadi",
			Rating:      4.4,
			Pricing:     Pricing{Monthly: 2800, Yearly: 30000},
			DeliveryTimes: DeliveryTimes{
				Morning: "7:15 - 8:15", Lunch: "13:00 - 14:00", Dinner: "20:00 - 21:00",
			},
			Menu: Menu{
				Morning: []string{"Semiya Upma", "Masala Omelette", "Mini Idli"},
				Lunch:   []string{"Biryani (veg/non-veg options), Raita, Salad"},
				Dinner:  []string{"Keema (veg option available) + Chapati", "Dal"},
			},
			Contact: Contact{Phone: "+91-9887766554", Email: "contact@expresstiffins.example"},
		},
	}
}

// LoadSeedFile reads a JSON array of records, the format of the seed file the
// server loads into an empty collection.
func LoadSeedFile(path string) ([]ServiceRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var records []ServiceRecord
	if err := snapshotJSON.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	for i := range records {
		records[i].Normalize()
	}
	return records, nil
}
