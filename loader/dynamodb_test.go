package loader

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/datasetter/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockScanClient serves items in pages of pageSize.
type mockScanClient struct {
	items    []map[string]types.AttributeValue
	pageSize int
	calls    int
	err      error
}

func (m *mockScanClient) Scan(_ context.Context, params *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}

	start := 0
	if params.ExclusiveStartKey != nil {
		n, err := strconv.Atoi(params.ExclusiveStartKey["offset"].(*types.AttributeValueMemberN).Value)
		if err != nil {
			return nil, err
		}
		start = n
	}

	end := min(start+m.pageSize, len(m.items))
	out := &dynamodb.ScanOutput{Items: m.items[start:end]}
	if end < len(m.items) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"offset": &types.AttributeValueMemberN{Value: strconv.Itoa(end)},
		}
	}
	return out, nil
}

func lettersItems() []map[string]types.AttributeValue {
	rows := []struct {
		letter, greek, number string
	}{
		{"A", "alpha", "1"},
		{"A", "beta", "13"},
		{"A", "gamma", "8"},
		{"B", "alpha", "1"},
		{"B", "beta", "31"},
		{"C", "gamma", "9"},
		{"C", "alpha", "2"},
		{"D", "beta", "21"},
		{"D", "gamma", "0"},
	}
	items := make([]map[string]types.AttributeValue, 0, len(rows))
	for _, r := range rows {
		items = append(items, map[string]types.AttributeValue{
			"letter": &types.AttributeValueMemberS{Value: r.letter},
			"greek":  &types.AttributeValueMemberS{Value: r.greek},
			"number": &types.AttributeValueMemberN{Value: r.number},
		})
	}
	return items
}

func TestReadDynamoDB(t *testing.T) {
	ctx := context.Background()

	t.Run("Paginated", func(t *testing.T) {
		client := &mockScanClient{items: lettersItems(), pageSize: 4}

		tbl, err := ReadDynamoDB(ctx, client, "letters")
		require.NoError(t, err)
		assert.Equal(t, 3, client.calls)
		require.Equal(t, 9, tbl.Len())

		// Attribute names are visited sorted.
		assert.Equal(t, []string{"greek", "letter", "number"}, tbl.Columns())
		assert.Equal(t, table.Record{
			"letter": table.String("A"),
			"greek":  table.String("beta"),
			"number": table.Int(13),
		}, tbl.Row(1))
	})

	t.Run("AttributeTypes", func(t *testing.T) {
		client := &mockScanClient{pageSize: 10, items: []map[string]types.AttributeValue{{
			"f":    &types.AttributeValueMemberN{Value: "2.5"},
			"ok":   &types.AttributeValueMemberBOOL{Value: true},
			"none": &types.AttributeValueMemberNULL{Value: true},
			"bin":  &types.AttributeValueMemberB{Value: []byte("hi")},
			"tags": &types.AttributeValueMemberSS{Value: []string{"x", "y"}},
			"list": &types.AttributeValueMemberL{Value: []types.AttributeValue{
				&types.AttributeValueMemberN{Value: "1"},
				&types.AttributeValueMemberS{Value: "a"},
			}},
			"obj": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
				"k": &types.AttributeValueMemberBOOL{Value: false},
			}},
		}}}

		tbl, err := ReadDynamoDB(ctx, client, "things")
		require.NoError(t, err)
		assert.Equal(t, table.Record{
			"f":    table.Float(2.5),
			"ok":   table.Bool(true),
			"none": table.Null(),
			"bin":  table.String("aGk="),
			"tags": table.String(`["x","y"]`),
			"list": table.String(`[1,"a"]`),
			"obj":  table.String(`{"k":false}`),
		}, tbl.Row(0))
	})

	t.Run("Error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := ReadDynamoDB(ctx, &mockScanClient{err: boom, pageSize: 1}, "letters")
		assert.ErrorIs(t, err, boom)
	})
}
