// Package catalog supplies the default class schedule used to seed the
// store on first start.  The schedule is static configuration: insertion
// order is display order.
package catalog

import (
	"context"

	"github.com/cottagecooking/class-booking/internal/model"
	"github.com/cottagecooking/class-booking/internal/store"
)

// Default returns the 2025 culinary class schedule.  A fresh copy is
// returned on every call so callers may mutate the result freely.
func Default() []model.ClassSession {
	src := defaultSchedule
	out := make([]model.ClassSession, len(src))
	copy(out, src)
	return out
}

// Seed persists the default catalog under classCatalogAdmin if and only if
// no catalog has been stored yet, and returns the catalog currently in
// effect.
func Seed(ctx context.Context, s store.Store) ([]model.ClassSession, error) {
	var existing []model.ClassSession
	ok, err := store.GetJSON(ctx, s, store.KeyClassCatalogAdmin, &existing)
	if err != nil {
		return nil, err
	}
	if ok {
		return existing, nil
	}
	sessions := Default()
	if err := store.SetJSON(ctx, s, store.KeyClassCatalogAdmin, sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

var defaultSchedule = []model.ClassSession{
	{
		ID: 1, Type: "thanksgiving", Name: "Thanksgiving Sides",
		Date: "2025-11-13", Time: "7:00-10:00 PM", MaxSeats: 8, Price: 85,
		Description: "Mascarpone Chive Mashed Potatoes • Bacon Balsamic Brussel Sprouts • Parker House Rolls • Butternut Squash Pecan Tarts • Amaretto Seared Mushrooms",
	},
	{
		ID: 2, Type: "thanksgiving", Name: "Thanksgiving Sides",
		Date: "2025-11-20", Time: "7:00-9:00 PM", MaxSeats: 8, Price: 85,
		Description: "Mascarpone Chive Mashed Potatoes • Bacon Balsamic Brussel Sprouts • Parker House Rolls • Butternut Squash Pecan Tarts • Amaretto Seared Mushrooms",
	},
	{
		ID: 3, Type: "classic-italian-3", Name: "Classic Italian American III",
		Date: "2025-11-14", Time: "6:00-9:00 PM", MaxSeats: 8, Price: 85,
		Description: "Pasta Fagioli Soup • Chicken Francese • Mushroom Risotto • Fried Sicilian Zeppole",
	},
	{
		ID: 4, Type: "fresh-pasta", Name: "Fresh Scratch Pasta",
		Date: "2025-11-21", Time: "6:00-9:00 PM", MaxSeats: 8, Price: 85,
		Description: "Gnocchi • Fettucine • Pappardelle • Tortellini • Fresh Pomodoro Sauce • Cannoli",
	},
	{
		ID: 5, Type: "holiday-desserts", Name: "Holiday Chocolate Desserts",
		Date: "2025-11-27", Time: "6:00-9:00 PM", MaxSeats: 8, Price: 85,
		Description: "Chocolate Cranberry Paté • Chocolate Truffles • Christmas Blondies • Chocolate Chip Cookie Stuffed Fudge Brownies",
	},
	{
		ID: 6, Type: "holiday-desserts", Name: "Holiday Chocolate Desserts",
		Date: "2025-12-05", Time: "6:00-9:00 PM", MaxSeats: 8, Price: 85,
		Description: "Chocolate Cranberry Paté • Chocolate Truffles • Christmas Blondies • Chocolate Chip Cookie Stuffed Fudge Brownies",
	},
	{
		ID: 7, Type: "holiday-appetizers", Name: "Holiday Appetizers",
		Date: "2025-12-04", Time: "7:00-10:00 PM", MaxSeats: 7, BookedSeats: 1, Price: 85,
		Description: "Miniature Beef Wellingtons • Sausage Mascarpone Stuffed Mushrooms • Fresh Hummus and Parmesan Pita Chips • Miniature Arancini Rice Balls • Sausage Spinach Pie",
	},
	{
		ID: 8, Type: "holiday-appetizers", Name: "Holiday Appetizers",
		Date: "2025-12-12", Time: "7:00-10:00 PM", MaxSeats: 8, Price: 85,
		Description: "Miniature Beef Wellingtons • Sausage Mascarpone Stuffed Mushrooms • Fresh Hummus and Parmesan Pita Chips • Miniature Arancini Rice Balls • Sausage Spinach Pie",
	},
	{
		ID: 9, Type: "easy-breads", Name: "Easy Breads",
		Date: "2025-12-11", Time: "7:00-10:00 PM", MaxSeats: 8, Price: 85,
		Description: "Focaccia • Rustic French Boule • Ciabatta • Brazilian Cheese Rolls • Homemade Butter",
	},
	{
		ID: 10, Type: "winter-soups", Name: "International Winter Soups",
		Date: "2025-12-19", Time: "6:00-9:00 PM", MaxSeats: 8, Price: 85,
		Description: "Chicken Matzoh Ball • Pasta Fagioli • Sopa De Pollo (Mexican Chicken Soup) • Hungarian Goulyas Soup • Beef Barley",
	},
}
