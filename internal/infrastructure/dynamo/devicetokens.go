package dynamo

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/learnlive/api/internal/domain"
)

// DeviceTokenRepo provides typed DynamoDB operations for the device_tokens table.
// The table key is (user_id, device_token), so Put is a natural upsert.
type DeviceTokenRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDeviceTokenRepo(client *dynamodb.Client, tableName string) *DeviceTokenRepo {
	return &DeviceTokenRepo{client: client, tableName: tableName}
}

// Upsert writes the registration, overwriting any existing record for the
// same (user_id, device_token) pair and refreshing updated_at.
func (r *DeviceTokenRepo) Upsert(ctx context.Context, userID, token, deviceType string) error {
	d := &domain.DeviceToken{
		UserID:     userID,
		Token:      token,
		DeviceType: deviceType,
		UpdatedAt:  time.Now().UTC(),
	}
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("marshal device token: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// TokensFor returns all registrations for a user, ordered by the device_token
// sort key. The order is stable within a dispatch so per-token outcomes from
// the push provider can be matched back positionally.
func (r *DeviceTokenRepo) TokensFor(ctx context.Context, userID string) ([]domain.DeviceToken, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var tokens []domain.DeviceToken
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeleteByToken removes every registration of the given token value, whoever
// it belongs to. Deleting a token that is already gone is a no-op.
func (r *DeviceTokenRepo) DeleteByToken(ctx context.Context, token string) error {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("device_token-index"),
		KeyConditionExpression: aws.String("device_token = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: token},
		},
	})
	if err != nil {
		return err
	}
	for _, item := range out.Items {
		var d domain.DeviceToken
		if err := attributevalue.UnmarshalMap(item, &d); err != nil {
			return err
		}
		_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
			TableName: aws.String(r.tableName),
			Key:       compositeKey("user_id", d.UserID, "device_token", d.Token),
		})
		if err != nil {
			return err
		}
	}
	return nil
}
