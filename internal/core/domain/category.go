package domain

type Category struct {
	Name  string
	Image string
}

// A CategorySummary is a category with the number of products filed
// under its name. The count is computed at read time and never stored.
type CategorySummary struct {
	Category
	ItemCount int
}

// Categories is the fixed category set, in display order.
var Categories = []Category{
	{
		Name:  "Electronics",
		Image: "https://images.unsplash.com/photo-1488590528505-98d2b5aba04b?w=400&h=300&fit=crop",
	},
	{
		Name:  "Fashion",
		Image: "https://images.unsplash.com/photo-1649972904349-6e44c42644a7?w=400&h=300&fit=crop",
	},
	{
		Name:  "Home & Living",
		Image: "https://images.unsplash.com/photo-1721322800607-8c38375eef04?w=400&h=300&fit=crop",
	},
	{
		Name:  "Sports",
		Image: "https://images.unsplash.com/photo-1581091226825-a6a2a5aee158?w=400&h=300&fit=crop",
	},
}

// A HomePage gathers the independently fetched parts of the landing page.
type HomePage struct {
	Products   []Product
	Featured   []Product
	BlogPosts  []BlogPost
	Categories []CategorySummary
}
