// Package snspush implements push delivery through AWS SNS platform endpoints.
// It is the fallback backend for deployments that register devices as SNS
// endpoint ARNs instead of raw FCM tokens.
package snspush

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/learnlive/api/internal/application/push"
)

// Provider publishes to one platform endpoint per token. SNS has no batch
// publish, so per-token outcomes are assembled from the individual calls.
type Provider struct {
	client *sns.Client
}

func NewProvider(ctx context.Context, region string) (*Provider, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Provider{client: sns.NewFromConfig(cfg)}, nil
}

func NewProviderFromClient(client *sns.Client) *Provider {
	return &Provider{client: client}
}

type gcmPayload struct {
	Notification map[string]string `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

// Send publishes the message to each endpoint ARN in order.
func (p *Provider) Send(ctx context.Context, tokens []string, msg push.Message) ([]push.Result, error) {
	body, err := encode(msg)
	if err != nil {
		return nil, err
	}

	results := make([]push.Result, len(tokens))
	for i, arn := range tokens {
		_, err := p.client.Publish(ctx, &sns.PublishInput{
			TargetArn:        aws.String(arn),
			Message:          aws.String(body),
			MessageStructure: aws.String("json"),
		})
		if err == nil {
			results[i].Success = true
			continue
		}
		results[i].Reason = classify(err)
		results[i].Detail = err.Error()
	}
	return results, nil
}

func encode(msg push.Message) (string, error) {
	gcm, err := json.Marshal(gcmPayload{
		Notification: map[string]string{"title": msg.Title, "body": msg.Body},
		Data:         msg.Data,
	})
	if err != nil {
		return "", fmt.Errorf("encode gcm payload: %w", err)
	}
	wrapper, err := json.Marshal(map[string]string{
		"default": msg.Body,
		"GCM":     string(gcm),
	})
	if err != nil {
		return "", fmt.Errorf("encode sns message: %w", err)
	}
	return string(wrapper), nil
}

func classify(err error) string {
	var disabled *types.EndpointDisabledException
	var invalid *types.InvalidParameterException
	var throttled *types.ThrottledException
	switch {
	case errors.As(err, &disabled):
		return push.ReasonUnregistered
	case errors.As(err, &invalid):
		return push.ReasonInvalidToken
	case errors.As(err, &throttled):
		return push.ReasonThrottled
	default:
		return push.ReasonInternal
	}
}
