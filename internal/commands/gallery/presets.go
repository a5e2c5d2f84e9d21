package gallery

// gnomeoColor is the embed color of gnomeo replies.
const gnomeoColor = 0x162C73

// Cinephile returns the cinephile command. Name, description and defaults in
// opts are overwritten.
func Cinephile(opts Options) (*Command, error) {
	opts.Name = "cinephile"
	opts.Description = "Roll the dice and come up craps! See if you can get the photo you were hoping for, or set the tone!"
	opts.Defaults = []Entry{
		{Title: "Movie 1", Description: "A dark film of adventure and friendship.", ImageFileName: "image1.png"},
		{Title: "Movie 2", Description: "An epic tale of adventure and heroism.", ImageFileName: "image2.png"},
		{Title: "Movie 3", Description: "A classic film that never gets old.", ImageFileName: "image3.png"},
	}
	return New(opts)
}

// Gnomeo returns the gnomeo command. Name, description, color and defaults in
// opts are overwritten.
func Gnomeo(opts Options) (*Command, error) {
	opts.Name = "gnomeo"
	opts.Description = "Gnomeo."
	opts.Color = gnomeoColor
	opts.Defaults = []Entry{
		{Title: "Gnomeo", Description: "Nice name. It really goes with your...eyes.", ImageFileName: "gnomeo1.png"},
		{Title: "Gnomeo", Description: "Well, I grabbed it first, but if you want it, come get it.", ImageFileName: "gnomeo2.png"},
		{Title: "Gnomeo", Description: "Who's your gnomie?", ImageFileName: "gnomeo3.png"},
		{Title: "Gnomeo", Description: "Well, this isn't my greenhouse.", ImageFileName: "gnomeo4.png"},
		{Title: "Gnomeo", Description: "Nice greenhouse, eh?", ImageFileName: "gnomeo5.png"},
	}
	return New(opts)
}
