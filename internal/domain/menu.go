package domain

import "encoding/json"

// Dish type tags the dashboard groups and filters by.
const (
	TypeVeg        = "Veg"
	TypeNonVeg     = "Non-Veg"
	TypeMainCourse = "Main Course"
	TypeAppetizer  = "Appetizer"
	TypeDessert    = "Dessert"
	TypeBeverage   = "Beverage"
)

type Dish struct {
	ID          ID       `json:"Dish Id"`
	Name        string   `json:"Name"`
	Price       float64  `json:"Price"`
	Description string   `json:"Discription"` // backend field name
	Rating      float64  `json:"Rating"`
	CookingTime string   `json:"Cooking Time"`
	Images      []string `json:"Images"`
	Types       []string `json:"Type of Dish"`
	TasteGenres []string `json:"Genre of Taste"`
	Available   bool     `json:"Available"`
}

// UnmarshalJSON also accepts the "DishId" spelling some endpoints use.
func (d *Dish) UnmarshalJSON(b []byte) error {
	type plain Dish
	aux := struct {
		*plain
		AltID ID `json:"DishId"`
	}{plain: (*plain)(d)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if d.ID == "" {
		d.ID = aux.AltID
	}
	return nil
}

func (d Dish) HasType(t string) bool {
	for _, v := range d.Types {
		if v == t {
			return true
		}
	}
	return false
}
