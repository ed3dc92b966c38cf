package loader

import (
	"context"
	"encoding/base64"
	"fmt"
	"slices"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/goccy/go-json"
	"github.com/hupe1980/datasetter/table"
)

// ReadDynamoDB scans tableName and materialises every item.
//
// Columns are the union of attribute names; an item's attributes are visited in
// name order, so columns first seen in the same item are sorted. S, N, BOOL and
// NULL attributes map to their natural values, sets, lists and maps are stored
// as JSON text and binary attributes as base64.
func ReadDynamoDB(ctx context.Context, client dynamodb.ScanAPIClient, tableName string) (*table.Table, error) {
	paginator := dynamodb.NewScanPaginator(client, &dynamodb.ScanInput{
		TableName:      aws.String(tableName),
		ConsistentRead: aws.Bool(true),
	})

	b := table.NewBuilder()
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamodb scan %q: %w", tableName, err)
		}

		for _, item := range page.Items {
			names := make([]string, 0, len(item))
			for name := range item {
				names = append(names, name)
			}
			slices.Sort(names)

			rec := make(map[string]any, len(item))
			for _, name := range names {
				v, err := attrCell(item[name])
				if err != nil {
					return nil, fmt.Errorf("dynamodb scan %q: attribute %q: %w", tableName, name, err)
				}
				b.AddColumn(name)
				rec[name] = v
			}
			if err := b.AppendRecord(rec); err != nil {
				return nil, fmt.Errorf("dynamodb scan %q: %w", tableName, err)
			}
		}
	}

	return b.Build()
}

// attrCell converts a top-level attribute into a value table.FromAny accepts.
func attrCell(av types.AttributeValue) (any, error) {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value, nil
	case *types.AttributeValueMemberN:
		return json.Number(v.Value), nil
	case *types.AttributeValueMemberBOOL:
		return v.Value, nil
	case *types.AttributeValueMemberNULL:
		return nil, nil
	case *types.AttributeValueMemberB:
		return base64.StdEncoding.EncodeToString(v.Value), nil
	default:
		data, err := json.Marshal(attrAny(av))
		if err != nil {
			return nil, err
		}
		return string(data), nil
	}
}

// attrAny converts an attribute into plain Go values for JSON encoding.
func attrAny(av types.AttributeValue) any {
	switch v := av.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberN:
		return json.Number(v.Value)
	case *types.AttributeValueMemberBOOL:
		return v.Value
	case *types.AttributeValueMemberNULL:
		return nil
	case *types.AttributeValueMemberB:
		return v.Value
	case *types.AttributeValueMemberSS:
		return v.Value
	case *types.AttributeValueMemberNS:
		out := make([]json.Number, len(v.Value))
		for i, n := range v.Value {
			out[i] = json.Number(n)
		}
		return out
	case *types.AttributeValueMemberBS:
		return v.Value
	case *types.AttributeValueMemberL:
		out := make([]any, len(v.Value))
		for i, e := range v.Value {
			out[i] = attrAny(e)
		}
		return out
	case *types.AttributeValueMemberM:
		out := make(map[string]any, len(v.Value))
		for k, e := range v.Value {
			out[k] = attrAny(e)
		}
		return out
	default:
		return nil
	}
}
