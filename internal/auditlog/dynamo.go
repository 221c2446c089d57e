package auditlog

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// dynamoAPI is the subset of the DynamoDB client the writer needs; tests
// substitute a fake.
type dynamoAPI interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoWriter appends audit records to a DynamoDB table.
type DynamoWriter struct {
	client dynamoAPI
	table  string
}

// NewDynamoWriter builds a writer against the given table using the
// default AWS credential chain. endpoint, when non-empty, overrides the
// service endpoint (DynamoDB Local in development).
func NewDynamoWriter(ctx context.Context, table, region, endpoint string) (*DynamoWriter, error) {
	if table == "" {
		return nil, fmt.Errorf("dynamodb table name is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	if endpoint != "" {
		// Local endpoints accept any static credentials.
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("local", "local", ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	var clientOpts []func(*dynamodb.Options)
	if endpoint != "" {
		clientOpts = append(clientOpts, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	return &DynamoWriter{
		client: dynamodb.NewFromConfig(cfg, clientOpts...),
		table:  table,
	}, nil
}

// Write puts one item with Timestamp, Query, and Response attributes.
func (w *DynamoWriter) Write(ctx context.Context, entry Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	_, err := w.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(w.table),
		Item: map[string]types.AttributeValue{
			"Timestamp": &types.AttributeValueMemberS{Value: entry.Timestamp.UTC().Format(time.RFC3339Nano)},
			"Query":     &types.AttributeValueMemberS{Value: entry.Query},
			"Response":  &types.AttributeValueMemberS{Value: entry.Response},
		},
	})
	if err != nil {
		return fmt.Errorf("put audit log item: %w", err)
	}
	return nil
}
