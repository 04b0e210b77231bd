package recommend

import (
	"fmt"
	"strings"
)

// RecommendationCount is the number of titles the prompt asks for.
const RecommendationCount = 5

const responseShape = `{
  "recommendations": [
    {
      "title": "Title",
      "creator": "Author/Director",
      "year": "Year",
      "genre": "Genre",
      "explanation": "Why this is recommended"
    }
  ]
}`

// BuildPrompt renders the instruction sent to the model. It never fails and performs no validation.
func BuildPrompt(p Preferences) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I need personalized %s recommendations based on the following preferences:\n\n", p.ContentType)
	fmt.Fprintf(&b, "Content Type: %s\n", p.ContentType)
	fmt.Fprintf(&b, "Genres: %s\n", strings.Join(p.Genres, ", "))
	fmt.Fprintf(&b, "Mood/Tone: %s\n", p.Mood)
	fmt.Fprintf(&b, "Favorites: %s\n", p.Favorites)
	fmt.Fprintf(&b, "Additional Information: %s\n\n", p.AdditionalInfo)
	fmt.Fprintf(&b, "Please provide %d recommendations with a brief explanation for each recommendation.\n", RecommendationCount)
	b.WriteString("Format your response as JSON with the following structure:\n")
	b.WriteString(responseShape)
	b.WriteString("\n")
	return b.String()
}
