package dynamo

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/learnlive/api/internal/domain"
)

// CourseRepo provides typed DynamoDB operations for the courses table.
type CourseRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewCourseRepo(client *dynamodb.Client, tableName string) *CourseRepo {
	return &CourseRepo{client: client, tableName: tableName}
}

func (r *CourseRepo) Put(ctx context.Context, c *domain.Course) error {
	item, err := attributevalue.MarshalMap(c)
	if err != nil {
		return fmt.Errorf("marshal course: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

func (r *CourseRepo) Get(ctx context.Context, courseID string) (*domain.Course, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("course_id", courseID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("course not found: %w", domain.ErrNotFound)
	}
	var c domain.Course
	if err := attributevalue.UnmarshalMap(out.Item, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByTitle looks up a course through the title GSI. Sessions reference
// courses by title in older clients, so this is the fallback lookup path.
func (r *CourseRepo) GetByTitle(ctx context.Context, title string) (*domain.Course, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("title-index"),
		KeyConditionExpression: aws.String("title = :t"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":t": &types.AttributeValueMemberS{Value: title},
		},
		Limit: aws.Int32(1),
	})
	if err != nil {
		return nil, err
	}
	if len(out.Items) == 0 {
		return nil, fmt.Errorf("course not found: %w", domain.ErrNotFound)
	}
	var c domain.Course
	if err := attributevalue.UnmarshalMap(out.Items[0], &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// List scans the full courses table.
func (r *CourseRepo) List(ctx context.Context) ([]domain.Course, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName: aws.String(r.tableName),
	})
	if err != nil {
		return nil, err
	}
	var courses []domain.Course
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// ListByGrade queries the grade GSI.
func (r *CourseRepo) ListByGrade(ctx context.Context, grade string) ([]domain.Course, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String("grade-index"),
		KeyConditionExpression: aws.String("grade = :g"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":g": &types.AttributeValueMemberS{Value: grade},
		},
	})
	if err != nil {
		return nil, err
	}
	var courses []domain.Course
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// ListByTeacher scans for courses owned by a teacher.
func (r *CourseRepo) ListByTeacher(ctx context.Context, teacherID string) ([]domain.Course, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("teacher_id = :tid"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":tid": &types.AttributeValueMemberS{Value: teacherID},
		},
	})
	if err != nil {
		return nil, err
	}
	var courses []domain.Course
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// ListByStudent scans for courses whose students list contains the user.
func (r *CourseRepo) ListByStudent(ctx context.Context, userID string) ([]domain.Course, error) {
	out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
		TableName:        aws.String(r.tableName),
		FilterExpression: aws.String("contains(" + fieldStudents + ", :uid)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, err
	}
	var courses []domain.Course
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// AddStudent appends the user to the course roster, guarded against
// double-enrollment with a condition on the students list.
func (r *CourseRepo) AddStudent(ctx context.Context, courseID, userID string) error {
	_, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 strKey("course_id", courseID),
		UpdateExpression:    aws.String("SET " + fieldStudents + " = list_append(" + fieldStudents + ", :u)"),
		ConditionExpression: aws.String("NOT contains(" + fieldStudents + ", :uid)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":u": &types.AttributeValueMemberL{Value: []types.AttributeValue{
				&types.AttributeValueMemberS{Value: userID},
			}},
			":uid": &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return fmt.Errorf("already enrolled: %w", domain.ErrConflict)
		}
		return err
	}
	return nil
}

// Update applies a partial field update and refreshes updated_at.
func (r *CourseRepo) Update(ctx context.Context, courseID string, updates map[string]interface{}) error {
	ue, err := buildUpdateExpr(updates)
	if err != nil {
		return err
	}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey("course_id", courseID),
		UpdateExpression:          aws.String(ue.Expr),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	return err
}

func (r *CourseRepo) Delete(ctx context.Context, courseID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       strKey("course_id", courseID),
	})
	return err
}
