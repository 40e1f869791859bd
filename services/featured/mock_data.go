package featured

import (
	"fmt"

	"curatarr/models"
)

// MockContent returns the static fallback snapshot served when no provider
// is configured, in demo mode, or when every other source of content has
// failed. Get must always have something to return.
func MockContent() models.FeaturedContent {
	hero := mockItem("mock-hero-1", models.MediaTypeMovie, "Interstellar", 2014,
		"A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival.",
		8.4, []string{"Adventure", "Drama", "Science Fiction"})

	content := models.FeaturedContent{
		Hero: &hero,
		Categories: []models.FeaturedCategory{
			{
				ID:    "trending-movies",
				Title: "Trending Movies",
				Items: []models.FeaturedItem{
					mockItem("mock-movie-1", models.MediaTypeMovie, "The Matrix", 1999,
						"A computer hacker learns from mysterious rebels about the true nature of his reality.",
						8.2, []string{"Action", "Science Fiction"}),
					mockItem("mock-movie-2", models.MediaTypeMovie, "Inception", 2010,
						"A thief who steals corporate secrets through dream-sharing technology is given an inverse task.",
						8.3, []string{"Action", "Science Fiction", "Thriller"}),
					mockItem("mock-movie-3", models.MediaTypeMovie, "Blade Runner 2049", 2017,
						"A young blade runner's discovery of a long-buried secret leads him to track down a former blade runner.",
						7.5, []string{"Science Fiction", "Drama"}),
				},
			},
			{
				ID:    "trending-tv",
				Title: "Trending TV",
				Items: []models.FeaturedItem{
					mockItem("mock-tv-1", models.MediaTypeTV, "Severance", 2022,
						"Mark leads a team of office workers whose memories have been surgically divided between work and personal lives.",
						8.3, []string{"Drama", "Mystery", "Science Fiction"}),
					mockItem("mock-tv-2", models.MediaTypeTV, "The Expanse", 2015,
						"A police detective and a ship's officer unravel a conspiracy that threatens the fragile peace of the solar system.",
						8.4, []string{"Drama", "Science Fiction"}),
				},
			},
		},
	}

	return content
}

func mockItem(guid string, mediaType models.MediaType, title string, year int, overview string, rating float64, genres []string) models.FeaturedItem {
	item := models.FeaturedItem{
		GUID:      guid,
		Title:     title,
		MediaType: mediaType,
		TMDBInfo: &models.TMDBInfo{
			Title:       title,
			Overview:    overview,
			ReleaseDate: fmt.Sprintf("%d-01-01", year),
			VoteAverage: rating,
			Genres:      genres,
		},
	}
	item.ApplyDisplayFields()
	return item
}
