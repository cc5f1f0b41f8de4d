// Package catalog holds the fixed list of bookable services.
package catalog

import "fmt"

// Service is one offering shown on the services page.
type Service struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Price       int64    `json:"price"` // whole rupees
	Duration    string   `json:"duration"`
	Popular     bool     `json:"popular"`
	Features    []string `json:"features"`
}

// DisplayPrice renders the price the way the storefront shows it.
func (s Service) DisplayPrice() string {
	return fmt.Sprintf("₹%d", s.Price)
}

var services = []Service{
	{
		ID:          "cleaning",
		Title:       "Home & Kitchen Cleaning",
		Description: "Professional deep cleaning for your home and kitchen",
		Icon:        "sparkles",
		Price:       299,
		Duration:    "2-3 hours",
		Popular:     true,
		Features:    []string{"Deep cleaning", "Sanitization", "Eco-friendly products"},
	},
	{
		ID:          "plumbing",
		Title:       "Plumbing Services",
		Description: "Expert plumbing repairs and installations",
		Icon:        "wrench",
		Price:       199,
		Duration:    "1-2 hours",
		Features:    []string{"Leak repairs", "Pipe installation", "24/7 emergency"},
	},
	{
		ID:          "painting",
		Title:       "Painting Services",
		Description: "Professional home and room painting",
		Icon:        "zap",
		Price:       399,
		Duration:    "4-6 hours",
		Features:    []string{"Interior painting", "Exterior painting", "Color consultation"},
	},
	{
		ID:          "food",
		Title:       "Home-Cooked Food",
		Description: "Fresh, healthy meals delivered to your door",
		Icon:        "chef-hat",
		Price:       149,
		Duration:    "45 mins",
		Popular:     true,
		Features:    []string{"Fresh ingredients", "Custom diet", "Same day delivery"},
	},
	{
		ID:          "mens-massage",
		Title:       "Men's Massage & Spa",
		Description: "Relaxing spa treatments for men at your home",
		Icon:        "users",
		Price:       599,
		Duration:    "60-90 mins",
		Features:    []string{"Male therapists", "Sports massage", "Stress relief therapy"},
	},
	{
		ID:          "womens-massage",
		Title:       "Women's Massage & Spa",
		Description: "Premium spa treatments for women at your home",
		Icon:        "flower",
		Price:       649,
		Duration:    "60-90 mins",
		Popular:     true,
		Features:    []string{"Female therapists", "Beauty treatments", "Aromatherapy"},
	},
	{
		ID:          "car",
		Title:       "Car Wash & Care",
		Description: "Professional car cleaning and maintenance",
		Icon:        "car",
		Price:       199,
		Duration:    "45-60 mins",
		Features:    []string{"Wash & vacuum", "Interior cleaning", "At your location"},
	},
}

// All returns a copy of the catalog in display order.
func All() []Service {
	out := make([]Service, len(services))
	copy(out, services)
	return out
}

// Find looks up a service by ID.
func Find(id string) (Service, bool) {
	for _, s := range services {
		if s.ID == id {
			return s, true
		}
	}
	return Service{}, false
}
