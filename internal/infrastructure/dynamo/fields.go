package dynamo

// DynamoDB attribute names used in update expressions across all repos.
// Using constants prevents silent runtime bugs caused by key typos.
const (
	fieldIsRead     = "is_read"
	fieldClassLevel = "class_level"
	fieldStudents   = "students"
	fieldUpdatedAt  = "updated_at"
)
