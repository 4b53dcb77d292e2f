package gateway

import "github.com/zzafergok/mobiversite-ecommerce/models"

// DemoUser is the account every seeded backend starts with.
var DemoUser = models.User{
	ID:        "1",
	Username:  "demo",
	Password:  "demo123",
	Email:     "demo@example.com",
	FirstName: "Demo",
	LastName:  "User",
}

// SeedProducts is the catalog served by the static backend and loaded into an
// empty database on first start.
var SeedProducts = []models.Product{
	{
		ID:          "1",
		Title:       "Fjallraven - Foldsack No. 1 Backpack, Fits 15 Laptops",
		Price:       109.95,
		Description: "Your perfect pack for everyday use and walks in the forest. Stash your laptop (up to 15 inches) in the padded sleeve, your everyday",
		Category:    "men's clothing",
		Image:       "https://images.unsplash.com/photo-1521572163474-6864f9cf17ab?w=400&h=400&fit=crop&crop=center",
	},
	{
		ID:          "2",
		Title:       "Mens Casual Premium Slim Fit T-Shirts",
		Price:       22.3,
		Description: "Slim-fitting style, contrast raglan long sleeve, three-button henley placket, light weight & soft fabric for breathable and comfortable wearing.",
		Category:    "men's clothing",
		Image:       "https://images.unsplash.com/photo-1581655353564-df123a1eb820?w=400&h=400&fit=crop&crop=center",
	},
	{
		ID:          "3",
		Title:       "Mens Cotton Jacket",
		Price:       55.99,
		Description: "Great outerwear jackets for Spring/Autumn/Winter, suitable for many occasions, such as working, hiking, camping, mountain/rock climbing, cycling, traveling or other outdoors.",
		Category:    "men's clothing",
		Image:       "https://images.unsplash.com/photo-1591047139829-d91aecb6caea?w=400&h=400&fit=crop&crop=center",
	},
	{
		ID:       "5",
		Title:    "John Hardy Women's Legends Naga Gold & Silver Dragon Station Chain Bracelet",
		Price:    695,
		Category: "jewelery",
	},
	{
		ID:       "6",
		Title:    "Solid Gold Petite Micropave",
		Price:    168,
		Category: "jewelery",
	},
	{
		ID:       "9",
		Title:    "WD 2TB Elements Portable External Hard Drive - USB 3.0",
		Price:    64,
		Category: "electronics",
	},
	{
		ID:       "10",
		Title:    "SanDisk SSD PLUS 1TB Internal SSD - SATA III 6 Gb/s",
		Price:    109,
		Category: "electronics",
	},
	{
		ID:       "14",
		Title:    "Samsung 49-Inch CHG90 144Hz Curved Gaming Monitor",
		Price:    999.99,
		Category: "electronics",
	},
	{
		ID:       "15",
		Title:    "BIYLACLESEN Women's 3-in-1 Snowboard Jacket Winter Coats",
		Price:    56.99,
		Category: "women's clothing",
	},
	{
		ID:       "17",
		Title:    "Rain Jacket Women Windbreaker Striped Climbing Raincoats",
		Price:    39.99,
		Category: "women's clothing",
	},
}
