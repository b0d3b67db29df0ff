// Package fcm implements push delivery through Firebase Cloud Messaging.
package fcm

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/learnlive/api/internal/application/push"
)

// Android notification styling shared by every push the platform sends.
const (
	androidIcon  = "ic_launcher"
	androidColor = "#8852E5"
)

// Provider sends multicast messages via the Firebase Admin SDK.
type Provider struct {
	client *messaging.Client
}

// NewProvider initializes the Firebase app from a service account file.
func NewProvider(ctx context.Context, credentialsFile string) (*Provider, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init fcm client: %w", err)
	}
	return &Provider{client: client}, nil
}

// Send delivers one multicast message. FCM returns per-token responses in
// the same order as the tokens, which maps directly onto push.Result.
func (p *Provider) Send(ctx context.Context, tokens []string, msg push.Message) ([]push.Result, error) {
	mm := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Icon:  androidIcon,
				Color: androidColor,
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}

	resp, err := p.client.SendEachForMulticast(ctx, mm)
	if err != nil {
		return nil, fmt.Errorf("fcm multicast: %w", err)
	}

	results := make([]push.Result, len(resp.Responses))
	for i, r := range resp.Responses {
		if r.Success {
			results[i].Success = true
			continue
		}
		results[i].Reason = classify(r.Error)
		if r.Error != nil {
			results[i].Detail = r.Error.Error()
		}
	}
	return results, nil
}

func classify(err error) string {
	switch {
	case messaging.IsUnregistered(err):
		return push.ReasonUnregistered
	case errorutils.IsInvalidArgument(err):
		return push.ReasonInvalidToken
	case messaging.IsQuotaExceeded(err):
		return push.ReasonThrottled
	case errorutils.IsUnavailable(err):
		return push.ReasonUnavailable
	default:
		return push.ReasonInternal
	}
}
