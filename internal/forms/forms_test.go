package forms

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDishCompletion(t *testing.T) {
	cases := []struct {
		name string
		d    Dish
		want int
	}{
		{"empty", Dish{}, 0},
		{"name only", Dish{Name: "Soup"}, 16},
		{"name and price", Dish{Name: "Soup", Price: 5}, 33},
		{"blank name", Dish{Name: "   ", Price: 5}, 16},
		{"five of six", Dish{Name: "Soup", Price: 5, Description: "hot", CookingTime: "10", Types: []string{"Veg"}}, 83},
		{"all", Dish{Name: "Soup", Price: 5, Description: "hot", CookingTime: "10", Types: []string{"Veg"}, TasteGenres: []string{"Spicy"}}, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.d.Completion())
		})
	}
}

func TestDishValidate(t *testing.T) {
	require.NoError(t, Dish{Name: "Soup", Price: 5, Rating: 4.5}.Validate())

	err := Dish{Name: " ", Price: -1, Rating: 6}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Dish name is required", fe["Name"])
	assert.Equal(t, "Price must be a positive number", fe["Price"])
	assert.Equal(t, "Rating must be between 0 and 5", fe["Rating"])

	err = Dish{Name: "Soup"}.Validate()
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Price is required", fe["Price"])
}

func TestDishToDomain(t *testing.T) {
	no := false
	d := Dish{Name: " Soup ", Price: 12.9, Types: []string{"Veg"}, Available: &no}.ToDomain()
	assert.Equal(t, "Soup", d.Name)
	assert.InDelta(t, 12, d.Price, 0.0001)
	assert.False(t, d.Available)
	assert.NotNil(t, d.Images)

	assert.True(t, Dish{Name: "x", Price: 1}.ToDomain().Available)
}

func TestChefCompletionGate(t *testing.T) {
	assert.Equal(t, 20, Chef{Name: "Ann"}.Completion())
	assert.Equal(t, 40, Chef{Name: "Ann", Email: "a@b.co"}.Completion())
	assert.Equal(t, 100, Chef{Name: "Ann", Email: "a@b.co", Password: "secret", Contact: "1", Role: "Chef"}.Completion())

	err := Chef{Name: "Ann"}.Validate()
	assert.True(t, errors.Is(err, ErrIncomplete))
	assert.False(t, errors.Is(err, ErrValidation))
}

func TestChefValidate(t *testing.T) {
	require.NoError(t, Chef{Name: "Ann", Email: "ann@example.com", Password: "secret"}.Validate())

	err := Chef{Name: "Ann", Email: "not-an-email", Password: "123"}.Validate()
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "Enter a valid email address", fe["Email"])
	assert.Equal(t, "Password must be at least 6 characters", fe["Password"])
	assert.NotContains(t, fe, "Name")
}

func TestChefToDomainDefaultsRole(t *testing.T) {
	c := Chef{Name: "Ann", Email: "ann@example.com", Password: "secret"}.ToDomain()
	assert.Equal(t, "Chef", c.Role)
}

func TestLoginValidate(t *testing.T) {
	assert.NoError(t, Login{Email: "a@b.c", Password: "x"}.Validate())
	err := Login{Email: "a@b.c"}.Validate()
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Error(t, Login{Password: "x"}.Validate())
}
