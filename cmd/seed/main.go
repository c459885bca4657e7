package main

import (
	"alumni-chat/auth"
	"alumni-chat/domain/chat"
	"alumni-chat/infrastructure/storage"
	"alumni-chat/runtime"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	BadgerFilepath    string        `env:"BADGER_FILEPATH,required=true"`
	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,required=true"`
}

var profiles = []chat.Profile{
	{ID: "alice", DisplayName: "Alice Martin", AvatarRef: "/static/avatars/alice.png", Title: "Class of 2012"},
	{ID: "bob", DisplayName: "Bob Lefèvre", AvatarRef: "/static/avatars/bob.png", Title: "Class of 2015"},
	{ID: "carol", DisplayName: "Carol Nguyen", AvatarRef: "/static/avatars/carol.png", Title: "Class of 2019"},
	{ID: "dave", DisplayName: "Dave Okafor", Title: "Class of 2021"},
}

var conversations = []struct{ from, to, text string }{
	{"alice", "bob", "Hi Bob, are you coming to the reunion?"},
	{"bob", "alice", "Wouldn't miss it!"},
	{"carol", "alice", "Thanks for the mentoring session"},
}

func main() {
	withMessages := flag.Bool("messages", true, "Also seed a few conversations")
	flag.Parse()

	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	logger := logs.GetLoggerFromString("INFO")

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	profileRepository := storage.NewProfileRepository(db)
	for _, p := range profiles {
		if err := profileRepository.PutProfile(ctx, p); err != nil {
			log.Fatalf("Failed to write profile %s: %v", p.ID, err)
		}
	}

	if *withMessages {
		chatRepository := storage.NewChatRepository(db, logger, storage.NewServerClock(), runtime.NewRegistry(logger))
		for _, c := range conversations {
			_, err := chatRepository.AppendMessage(ctx, chat.SendMessageCommand{
				ConversationID: chat.ConversationIDFor(c.from, c.to),
				SenderID:       c.from,
				PartnerID:      c.to,
				Text:           c.text,
			})
			if err != nil {
				log.Fatalf("Failed to seed message: %v", err)
			}
		}
	}

	tokens := auth.NewTokenManager(config.JWTSecret, config.AuthTokenDuration)
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"User", "Display name", "Token"})
	table.SetAutoWrapText(false)
	table.SetBorder(false)
	for _, p := range profiles {
		token, err := tokens.GenerateToken(p.ID)
		if err != nil {
			log.Fatalf("Failed to sign token for %s: %v", p.ID, err)
		}
		table.Append([]string{p.ID, p.DisplayName, token})
	}
	table.Render()
	fmt.Printf("Seeded %d profiles into %s\n", len(profiles), config.BadgerFilepath)
}
