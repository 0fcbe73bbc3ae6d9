// Package notify announces new email verification tokens to whatever
// delivers the actual email.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/csye-webapp/webapp/internal/logging"
)

// VerificationMessage is the payload published after registration.
type VerificationMessage struct {
	Email  string `json:"email"`
	Token  string `json:"token"`
	UserID string `json:"user_id"`
	Link   string `json:"link"`
}

type Publisher interface {
	PublishVerification(ctx context.Context, msg VerificationMessage) error
}

// SNSAPI is the subset of *sns.Client used by SNSPublisher.
type SNSAPI interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSPublisher struct {
	client   SNSAPI
	topicARN string
}

func NewSNSPublisher(client SNSAPI, topicARN string) *SNSPublisher {
	return &SNSPublisher{client: client, topicARN: topicARN}
}

func (p *SNSPublisher) PublishVerification(ctx context.Context, msg VerificationMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	_, err = p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Message:  aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}

// LogPublisher only logs the message. Used when no topic is configured.
type LogPublisher struct {
	logger logging.Logger
}

func NewLogPublisher(l logging.Logger) *LogPublisher {
	return &LogPublisher{logger: l}
}

func (p *LogPublisher) PublishVerification(ctx context.Context, msg VerificationMessage) error {
	p.logger.Info(ctx, "verification issued", "email", msg.Email, "user_id", msg.UserID, "link", msg.Link)
	return nil
}
