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

// MaterialRepo provides typed DynamoDB operations for the course materials table.
type MaterialRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewMaterialRepo(client *dynamodb.Client, tableName string) *MaterialRepo {
	return &MaterialRepo{client: client, tableName: tableName}
}

func (r *MaterialRepo) Put(ctx context.Context, m *domain.Material) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal material: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *MaterialRepo) Get(ctx context.Context, materialID string) (*domain.Material, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("material_id", materialID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("material not found: %w", domain.ErrNotFound)
	}
	var m domain.Material
	if err := attributevalue.UnmarshalMap(out.Item, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ListByCourse queries the course_id-created_at GSI newest first.
func (r *MaterialRepo) ListByCourse(ctx context.Context, courseID string) ([]domain.Material, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("course_id-created_at-index"),
		KeyConditionExpression: aws.String("course_id = :cid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cid": &types.AttributeValueMemberS{Value: courseID},
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	var materials []domain.Material
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &materials); err != nil {
		return nil, err
	}
	return materials, nil
}

func (r *MaterialRepo) Delete(ctx context.Context, materialID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("material_id", materialID),
	})
	return err
}

// DeleteByCourse removes every material attached to the course.
func (r *MaterialRepo) DeleteByCourse(ctx context.Context, courseID string) error {
	materials, err := r.ListByCourse(ctx, courseID)
	if err != nil {
		return err
	}
	for _, m := range materials {
		if err := r.Delete(ctx, m.MaterialID); err != nil {
			return err
		}
	}
	return nil
}
