package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"messaging-lab/auth"
	"messaging-lab/domain/messaging"
	"messaging-lab/repositories"
	"messaging-lab/services"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
)

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" required:"true"`
	BlugeFilepath  string `envconfig:"BLUGE_FILEPATH" required:"true"`
	// SEED_PASSWORD is shared by every demo account
	Password string `envconfig:"SEED_PASSWORD" default:"Chang3-me-plea$e"`
}

type seedUser struct {
	email     string
	username  string
	firstName string
	lastName  string
	role      string
}

var demoUsers = []seedUser{
	{"alice@example.org", "alice", "Alice", "Martin", "host"},
	{"bob@example.org", "bob", "Bob", "Durand", "guest"},
	{"clara@example.org", "clara", "Clara", "Petit", "guest"},
	{"dave@example.org", "dave", "Dave", "Moreau", "admin"},
}

var demoBodies = []string{
	"Welcome to the conversation everyone",
	"Thanks, happy to be here",
	"Has anyone reviewed the booking request from yesterday?",
	"Yes, it is approved and confirmed",
}

// seed populates a local store with demo identities, one conversation and a
// short message history. Meant for manual testing against a fresh database.
func main() {
	if err := run(); err != nil {
		color.Red.Printf("Seed failed: %v\n", err)
		os.Exit(1)
	}
	color.Green.Println("Seed completed")
}

func run() error {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromLevel(slog.LevelInfo)
	ctx := context.Background()

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer db.Close()

	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return fmt.Errorf("search index opening failed: %w", err)
	}
	defer blugeWriter.Close()

	userRepository := repositories.NewUserRepository(db)
	conversationRepository := repositories.NewConversationRepository(db)
	messageRepository := repositories.NewMessageRepository(db, log, nil)
	searchIndex := repositories.NewMessageSearchIndex(blugeWriter, log)

	identity := services.NewIdentityService(log, userRepository)
	conversations := services.NewConversationService(log, userRepository, conversationRepository)
	messages := services.NewMessageService(
		log, userRepository, conversationRepository, messageRepository, searchIndex, nil)

	var userIDs []string
	for _, u := range demoUsers {
		user, err := identity.Register(ctx, auth.RegisterRequest{
			Email:     u.email,
			Password:  config.Password,
			Username:  u.username,
			FirstName: u.firstName,
			LastName:  u.lastName,
			Role:      u.role,
		})
		if err != nil {
			return fmt.Errorf("registering %s: %w", u.email, err)
		}
		color.Cyan.Printf("User %-8s %s\n", u.username, user.ID)
		userIDs = append(userIDs, user.ID.String())
	}

	conversation, err := conversations.CreateConversation(ctx, messaging.CreateConversationCommand{
		// Dave joins later through AddParticipant
		ParticipantIDs: userIDs[:3],
	})
	if err != nil {
		return fmt.Errorf("creating conversation: %w", err)
	}
	color.Cyan.Printf("Conversation %s\n", conversation.ID)

	conversation, err = conversations.AddParticipant(ctx, messaging.AddParticipantCommand{
		Conversation: conversation.ID,
		UserID:       userIDs[3],
	})
	if err != nil {
		return fmt.Errorf("adding participant: %w", err)
	}

	senders := conversation.ParticipantIDs()
	for i, body := range demoBodies {
		message, err := messages.PostMessage(ctx, messaging.PostMessageCommand{
			Conversation: conversation.ID,
			SenderID:     senders[i%len(senders)],
			Body:         body,
		})
		if err != nil {
			return fmt.Errorf("posting message: %w", err)
		}
		color.Gray.Printf("Message %s (%s)\n", message.ID, lo.Ellipsis(message.Body, 30))
	}

	return nil
}
