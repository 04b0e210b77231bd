// Package classify sorts recommendations into the Books and Movies tabs.
package classify

import (
	"strings"

	"recommender-backend/internal/recommend"
)

// Kind is the tab an item is shown under.
type Kind string

const (
	Book  Kind = "book"
	Movie Kind = "movie"
)

// IsBook reports whether the creator reads like an author credit.
// Creators that mention neither role count as both a book and a movie.
func IsBook(it recommend.Item) bool {
	return strings.Contains(it.Creator, "Author") || !strings.Contains(it.Creator, "Director")
}

// IsMovie reports whether the creator reads like a director credit.
func IsMovie(it recommend.Item) bool {
	return strings.Contains(it.Creator, "Director") || !strings.Contains(it.Creator, "Author")
}

// Primary picks the icon for a single card: book unless the creator reads as a director.
func Primary(it recommend.Item) Kind {
	if IsBook(it) {
		return Book
	}
	return Movie
}

// Split returns the items for the Books and Movies tabs, preserving order.
func Split(items []recommend.Item) (books, movies []recommend.Item) {
	for _, it := range items {
		if IsBook(it) {
			books = append(books, it)
		}
		if IsMovie(it) {
			movies = append(movies, it)
		}
	}
	return books, movies
}
