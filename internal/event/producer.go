package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/11sap/userService/internal/domain"
	pkgkafka "github.com/11sap/userService/pkg/kafka"
)

// Kafka topic constants for account domain events.
const (
	TopicAccountRegistered    = "users.account.registered"
	TopicAccountStatusChanged = "users.account.status_changed"
)

// Aggregate type constant.
const AggregateTypeAccount = "account"

// Source identifier for events originating from this service.
const SourceUserService = "user-service"

// AccountRegisteredData is the payload for an account.registered event.
type AccountRegisteredData struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// AccountStatusChangedData is the payload for an account.status_changed event.
type AccountStatusChangedData struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// Producer publishes account domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the user service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishAccountRegistered publishes an account.registered event.
func (p *Producer) PublishAccountRegistered(ctx context.Context, account *domain.Account) error {
	data := AccountRegisteredData{
		ID:       account.ID,
		FullName: account.FullName,
		Email:    account.Email,
		Role:     account.Role,
	}

	ev, err := pkgkafka.NewEvent(TopicAccountRegistered, account.ID, AggregateTypeAccount, SourceUserService, data)
	if err != nil {
		return fmt.Errorf("create account.registered event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicAccountRegistered, ev); err != nil {
		return fmt.Errorf("publish account.registered event: %w", err)
	}

	return nil
}

// PublishAccountStatusChanged publishes an account.status_changed event.
func (p *Producer) PublishAccountStatusChanged(ctx context.Context, account *domain.Account, oldStatus string) error {
	data := AccountStatusChangedData{
		ID:        account.ID,
		Email:     account.Email,
		OldStatus: oldStatus,
		NewStatus: account.Status,
	}

	ev, err := pkgkafka.NewEvent(TopicAccountStatusChanged, account.ID, AggregateTypeAccount, SourceUserService, data)
	if err != nil {
		return fmt.Errorf("create account.status_changed event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicAccountStatusChanged, ev); err != nil {
		return fmt.Errorf("publish account.status_changed event: %w", err)
	}

	return nil
}
