package clips

import "github.com/killallgit/jamboard-api/internal/models"

// DemoUserID owns the second demo clip
const DemoUserID = "u_demo"

// DemoClips returns the dataset a board starts with when nothing is stored.
// Timestamps are relative to now (unix ms).
func DemoClips(now int64) []models.Clip {
	return []models.Clip{
		{
			ID:        "c1",
			Title:     "Funky Bass Line Idea",
			AudioURL:  "https://actions.google.com/sounds/v1/water/air_woosh_underwater.ogg",
			Duration:  5,
			Tags:      []string{"Bass", "Funky", "Loop"},
			Category:  models.CategoryRiffs,
			CreatedAt: now - 10000000,
			UserID:    "u2",
			User:      models.User{ID: "u2", Name: "Sarah Sutton", Email: "sarah@example.com"},
			Comments: []models.Comment{{
				ID:        "cm1",
				UserID:    "u3",
				UserName:  "Dave Bradley",
				Text:      "This is tight! I can put a beat over this.",
				Timestamp: now - 5000000,
			}},
			AIAnalysis: "A deep, resonant bass texture with a submerged, fluid quality.",
		},
		{
			ID:        "c2",
			Title:     "Morning Acoustic Riff",
			AudioURL:  "https://actions.google.com/sounds/v1/ambiences/coffee_shop.ogg",
			Duration:  12,
			Tags:      []string{"Acoustic", "Chill", "Morning"},
			Category:  models.CategoryRiffs,
			CreatedAt: now - 3600000,
			UserID:    DemoUserID,
			User: models.User{
				ID:        DemoUserID,
				Name:      "Jacob Le",
				AvatarURL: "https://picsum.photos/50/50",
				Email:     "jacob@demo.com",
			},
			Comments: []models.Comment{},
		},
	}
}
