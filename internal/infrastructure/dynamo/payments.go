package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/learnlive/api/internal/domain"
)

// PaymentRepo provides typed DynamoDB operations for the payments table.
type PaymentRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPaymentRepo(client *dynamodb.Client, tableName string) *PaymentRepo {
	return &PaymentRepo{client: client, tableName: tableName}
}

func (r *PaymentRepo) Put(ctx context.Context, p *domain.Payment) error {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return fmt.Errorf("marshal payment: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// ListByUser queries the user_id GSI.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID string) ([]domain.Payment, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("user_id-index"),
		KeyConditionExpression: aws.String("user_id = :uid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var payments []domain.Payment
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}
