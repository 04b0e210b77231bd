package recommendations

// Option is a selectable form value.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// GenreOptions are the genres offered by the preference form.
var GenreOptions = []Option{
	{ID: "action", Label: "Action"},
	{ID: "adventure", Label: "Adventure"},
	{ID: "comedy", Label: "Comedy"},
	{ID: "drama", Label: "Drama"},
	{ID: "fantasy", Label: "Fantasy"},
	{ID: "horror", Label: "Horror"},
	{ID: "mystery", Label: "Mystery"},
	{ID: "romance", Label: "Romance"},
	{ID: "sci-fi", Label: "Science Fiction"},
	{ID: "thriller", Label: "Thriller"},
}

// MoodOptions are the moods offered by the preference form.
var MoodOptions = []Option{
	{ID: "uplifting", Label: "Uplifting"},
	{ID: "dark", Label: "Dark"},
	{ID: "thoughtful", Label: "Thoughtful"},
	{ID: "funny", Label: "Funny"},
	{ID: "emotional", Label: "Emotional"},
	{ID: "suspenseful", Label: "Suspenseful"},
	{ID: "relaxing", Label: "Relaxing"},
}

// ContentTypeOptions are the content types offered by the preference form.
var ContentTypeOptions = []Option{
	{ID: "books", Label: "Books"},
	{ID: "movies", Label: "Movies"},
	{ID: "both", Label: "Both"},
}
