package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/oyvindh/shiplist-api/internal/config"
	"github.com/oyvindh/shiplist-api/internal/database"
	"github.com/oyvindh/shiplist-api/internal/services"
)

// Seeds a team and one checklist template, e.g.:
//
//	seed-checklists Platform Release "Build" "Deploy" "Smoke test"
func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: seed-checklists <team> <template> [task...]")
		os.Exit(1)
	}

	teamName := os.Args[1]
	templateName := os.Args[2]
	taskTitles := os.Args[3:]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	identityService := services.NewIdentityService(db)
	templateService := services.NewTemplateService(db)

	team, err := identityService.ResolveOrCreateTeam(ctx, teamName)
	if err != nil {
		log.Fatalf("Failed to resolve team: %v", err)
	}

	template, err := templateService.Create(ctx, templateName, team.ID, taskTitles)
	if err != nil {
		log.Fatalf("Failed to create template: %v", err)
	}

	fmt.Printf("Created template %q (%s) with %d tasks in team %q\n",
		template.Name, template.ID, len(template.Tasks), team.Name)
}
