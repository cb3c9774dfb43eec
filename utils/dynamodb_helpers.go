package utils

import (
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// AttributeToGo converts a DynamoDB attribute value into a plain Go value
// (string, bool, []string, []interface{}, or nested map).
func AttributeToGo(attr types.AttributeValue) interface{} {
	switch v := attr.(type) {
	case *types.AttributeValueMemberS:
		return v.Value
	case *types.AttributeValueMemberBOOL:
		return v.Value
	case *types.AttributeValueMemberN:
		return v.Value
	case *types.AttributeValueMemberSS:
		out := make([]string, len(v.Value))
		copy(out, v.Value)
		return out
	case *types.AttributeValueMemberL:
		out := make([]interface{}, 0, len(v.Value))
		for _, e := range v.Value {
			out = append(out, AttributeToGo(e))
		}
		return out
	case *types.AttributeValueMemberM:
		out := make(map[string]interface{}, len(v.Value))
		for k, e := range v.Value {
			out[k] = AttributeToGo(e)
		}
		return out
	case *types.AttributeValueMemberNULL:
		return nil
	}
	return nil
}

// ItemToMap converts a full DynamoDB item into a plain field map.
func ItemToMap(item map[string]types.AttributeValue) map[string]interface{} {
	out := make(map[string]interface{}, len(item))
	for field, attr := range item {
		out[field] = AttributeToGo(attr)
	}
	return out
}

// GoToAttribute converts a plain Go value into a DynamoDB attribute value.
func GoToAttribute(value interface{}) types.AttributeValue {
	switch v := value.(type) {
	case string:
		return &types.AttributeValueMemberS{Value: v}
	case bool:
		return &types.AttributeValueMemberBOOL{Value: v}
	case []string:
		if len(v) == 0 {
			return &types.AttributeValueMemberNULL{Value: true}
		}
		return &types.AttributeValueMemberSS{Value: v}
	case []interface{}:
		out := make([]types.AttributeValue, 0, len(v))
		for _, e := range v {
			out = append(out, GoToAttribute(e))
		}
		return &types.AttributeValueMemberL{Value: out}
	case map[string]interface{}:
		out := make(map[string]types.AttributeValue, len(v))
		for k, e := range v {
			out[k] = GoToAttribute(e)
		}
		return &types.AttributeValueMemberM{Value: out}
	case nil:
		return &types.AttributeValueMemberNULL{Value: true}
	}
	return &types.AttributeValueMemberNULL{Value: true}
}

// ExtractString safely extracts a string field from a DynamoDB item.
func ExtractString(item map[string]types.AttributeValue, field string) string {
	if attr, ok := item[field]; ok {
		if v, ok := attr.(*types.AttributeValueMemberS); ok {
			return v.Value
		}
	}
	return ""
}
