package forms

import (
	"math"
	"strings"

	"restaurant-dashboard/internal/domain"
)

// Dish is the create/edit form for a menu item.
type Dish struct {
	Name        string   `json:"Name" validate:"required"`
	Price       float64  `json:"Price" validate:"required,gt=0"`
	Description string   `json:"Discription"`
	Rating      float64  `json:"Rating" validate:"gte=0,lte=5"`
	CookingTime string   `json:"Cooking Time"`
	Images      []string `json:"Images"`
	Types       []string `json:"Type of Dish"`
	TasteGenres []string `json:"Genre of Taste"`
	Available   *bool    `json:"Available"`
}

var dishMessages = map[string]string{
	"Name.required":  "Dish name is required",
	"Price.required": "Price is required",
	"Price.gt":       "Price must be a positive number",
	"Rating.gte":     "Rating must be between 0 and 5",
	"Rating.lte":     "Rating must be between 0 and 5",
}

// Completion counts Name, Price, Description, Cooking Time, at least one
// dish type and at least one taste genre.
func (d Dish) Completion() int {
	done := 0
	for _, ok := range []bool{
		filled(d.Name),
		d.Price != 0,
		filled(d.Description),
		filled(d.CookingTime),
		len(d.Types) > 0,
		len(d.TasteGenres) > 0,
	} {
		if ok {
			done++
		}
	}
	return percent(done, 6)
}

func (d Dish) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	return check(d, dishMessages)
}

// ToDomain builds the record sent to the backend. Price is truncated to
// whole units the way the menu stores it; availability defaults to true.
func (d Dish) ToDomain() domain.Dish {
	available := true
	if d.Available != nil {
		available = *d.Available
	}
	return domain.Dish{
		Name:        strings.TrimSpace(d.Name),
		Price:       math.Trunc(d.Price),
		Description: d.Description,
		Rating:      d.Rating,
		CookingTime: d.CookingTime,
		Images:      nonNil(d.Images),
		Types:       nonNil(d.Types),
		TasteGenres: nonNil(d.TasteGenres),
		Available:   available,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
