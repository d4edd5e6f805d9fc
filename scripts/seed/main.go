// Seed adds sample tasks for a demo user. Run from project root:
// go run ./scripts/seed [-user NAME] [-count N]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"taskdeck/internal/database"
	"taskdeck/internal/models"
	"taskdeck/internal/repository"
)

func main() {
	user := flag.String("user", "demo", "display name to own the seeded tasks")
	count := flag.Int("count", 30, "number of tasks to insert")
	flag.Parse()

	ctx := context.Background()
	db := database.InitDB(ctx)
	if db == nil {
		fmt.Fprintln(os.Stderr, "DATABASE_URL not set or DB connection failed")
		os.Exit(1)
	}
	if err := database.MigrateOrCreateSchema(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Schema failed:", err)
		os.Exit(1)
	}
	if _, err := repository.EnsureUser(ctx, *user); err != nil {
		fmt.Fprintln(os.Stderr, "User failed:", err)
		os.Exit(1)
	}

	priorities := []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}
	tags := []models.Tag{models.TagWork, models.TagEntertainment, models.TagHealth, ""}

	start := time.Now()
	for i := 0; i < *count; i++ {
		// Spread due dates around today so every tab has content; every
		// fifth task has no due date at all.
		due := ""
		if i%5 != 0 {
			due = time.Now().AddDate(0, 0, i%7-3).Format("2006-01-02")
		}
		req := models.CreateTaskRequest{
			Title:    fmt.Sprintf("Task %d", i+1),
			DueDate:  due,
			Priority: priorities[i%len(priorities)],
			Tag:      tags[i%len(tags)],
		}
		if _, err := repository.Create(ctx, *user, req); err != nil {
			fmt.Fprintln(os.Stderr, "Insert failed:", err)
			os.Exit(1)
		}
	}
	fmt.Printf("Done: %d tasks for %q in %v\n", *count, *user, time.Since(start))
}
