// Command seed_messages fills the chat board with a handful of demo
// messages, useful for local frontend work against an empty database.
package main

import (
	"context"
	"log"

	"github.com/cinefeed/backend/config"
	"github.com/cinefeed/backend/internal/database"
	"github.com/cinefeed/backend/internal/service"
)

var seedMessages = []struct {
	text string
	ip   string
}{
	{"Just watched Parasite, absolutely floored", "10.0.0.1"},
	{"Anyone got recommendations for slow-burn sci-fi?", "10.0.0.2"},
	{"Interstellar docking scene. That is all.", "10.0.0.3"},
	{"Hot take: the book was worse", "10.0.0.4"},
	{"Watching The Dark Knight for the 9th time tonight", "10.0.0.5"},
	{"3 Idiots made me call my parents, no regrets", "10.0.0.6"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	chat := service.NewChatService(db)
	ctx := context.Background()

	for _, seed := range seedMessages {
		msg, err := chat.Post(ctx, "", seed.text, true, seed.ip)
		if err != nil {
			log.Fatalf("Failed to seed message: %v", err)
		}
		log.Printf("Seeded message %d as %s", msg.ID, msg.UserName)
	}
	log.Printf("Done: seeded %d messages", len(seedMessages))
}
