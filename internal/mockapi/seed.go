package mockapi

// DefaultFoods seeds an empty Food collection. The records deliberately mix
// the key shapes the hosted API has returned over time (food_name vs name,
// food_image vs avatar, numeric vs string rating) so the client's adapter
// is exercised end to end.
var DefaultFoods = []map[string]any{
	{
		"food_name":         "Bow Lasagna",
		"food_rating":       4.6,
		"food_image":        "https://images.unsplash.com/photo-1574894709920-11b28e7367e3?w=400",
		"price":             "2.99",
		"restaurant_name":   "Lasagna Lovers",
		"restaurant_logo":   "https://images.unsplash.com/photo-1555396273-367ea4eb4db5?w=40",
		"restaurant_status": "Open Now",
	},
	{
		"food_name":         "Mixed Avocado Smoothie",
		"food_rating":       "4.0",
		"food_image":        "https://images.unsplash.com/photo-1623065422902-30a2d299bbe4?w=400",
		"price":             5.99,
		"restaurant_name":   "Smoothie Station",
		"restaurant_status": "Closed",
	},
	{
		"name":            "Pancake",
		"rating":          5,
		"avatar":          "https://images.unsplash.com/photo-1528207776546-365bb710ee93?w=400",
		"Price":           "1.99",
		"restaurant_name": "Morning Stack",
		"open":            true,
	},
	{
		"food_name":         "Cupcake",
		"food_rating":       3.5,
		"food_image":        "https://images.unsplash.com/photo-1614707267537-b85aaf00c4b7?w=400",
		"price":             "0.99",
		"restaurant_name":   "Sweet Corner",
		"restaurant_image":  "https://images.unsplash.com/photo-1517433670267-08bbd4be890f?w=40",
		"restaurant_status": "Open Now",
	},
	{
		"food_name":   "Creamy Stake",
		"food_rating": 4.2,
		"image":       "not-a-url",
		"price":       "12.50",
	},
}
