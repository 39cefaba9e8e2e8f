package pipeline

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// WeekLabel formats the ISO week tag used across the workspace databases,
// for example "Semaine 46 – 2025".
func WeekLabel(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("Semaine %d – %d", week, year)
}

var spoonIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`/recipes/(\d+)`),
	regexp.MustCompile(`recipes-(\d+)-`),
	regexp.MustCompile(`recipeImages/(\d+)-`),
	regexp.MustCompile(`[?&]id=(\d+)`),
}

// ExtractSpoonID pulls the recipe id out of a Spoonacular recipe or image
// URL. Returns false when no pattern matches.
func ExtractSpoonID(url string) (int, bool) {
	if url == "" {
		return 0, false
	}
	for _, pattern := range spoonIDPatterns {
		if m := pattern.FindStringSubmatch(url); m != nil {
			id, err := strconv.Atoi(m[1])
			if err == nil && id > 0 {
				return id, true
			}
		}
	}
	return 0, false
}
