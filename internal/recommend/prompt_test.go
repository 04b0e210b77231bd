package recommend

import (
	"strings"
	"testing"
)

func TestBuildPromptContainsPreferencesVerbatim(t *testing.T) {
	tests := []struct {
		name  string
		prefs Preferences
	}{
		{
			name: "both with all fields",
			prefs: Preferences{
				ContentType:    ContentBoth,
				Genres:         []string{"sci-fi", "mystery"},
				Mood:           "thoughtful",
				Favorites:      "Dune, Arrival",
				AdditionalInfo: "Nothing longer than 400 pages",
			},
		},
		{
			name: "books with empty mood",
			prefs: Preferences{
				ContentType:    ContentBooks,
				Genres:         []string{"romance"},
				Favorites:      "Pride and Prejudice",
				AdditionalInfo: "Prefer \"classic\" {style} novels",
			},
		},
		{
			name:  "movies without genres",
			prefs: Preferences{ContentType: ContentMovies},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			prompt := BuildPrompt(tt.prefs)
			want := append([]string{string(tt.prefs.ContentType), tt.prefs.Favorites, tt.prefs.AdditionalInfo, tt.prefs.Mood}, tt.prefs.Genres...)
			for _, s := range want {
				if !strings.Contains(prompt, s) {
					t.Fatalf("prompt missing %q:\n%s", s, prompt)
				}
			}
		})
	}
}

func TestBuildPromptJoinsGenresAndRequestsShape(t *testing.T) {
	prompt := BuildPrompt(Preferences{ContentType: ContentBoth, Genres: []string{"action", "drama", "horror"}})

	if !strings.Contains(prompt, "Genres: action, drama, horror\n") {
		t.Fatalf("expected comma-joined genres:\n%s", prompt)
	}
	if !strings.Contains(prompt, "provide 5 recommendations") {
		t.Fatalf("expected recommendation count in prompt")
	}
	for _, field := range []string{`"recommendations"`, `"title"`, `"creator"`, `"year"`, `"genre"`, `"explanation"`} {
		if !strings.Contains(prompt, field) {
			t.Fatalf("prompt missing field %s", field)
		}
	}
}

func TestBuildPromptDeterministic(t *testing.T) {
	p := Preferences{ContentType: ContentMovies, Genres: []string{"comedy"}, Mood: "funny"}
	if BuildPrompt(p) != BuildPrompt(p) {
		t.Fatalf("expected identical prompts for identical input")
	}
}
