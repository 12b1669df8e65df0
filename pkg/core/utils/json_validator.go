package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON fixes the usual mistakes of hand-edited JSON: missing quotes,
// single quotes, trailing commas, comments and unclosed brackets.
func RepairJSON(malformedJSON string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(malformedJSON)
	if err != nil {
		return "", fmt.Errorf("JSON_REPAIR_FAILED: %v", err)
	}
	return repaired, nil
}

// ParseHJSON parses Human-friendly JSON (Hjson) and returns standard JSON.
func ParseHJSON(hjsonData string) (string, error) {
	var result interface{}
	if err := hjson.Unmarshal([]byte(hjsonData), &result); err != nil {
		return "", fmt.Errorf("HJSON_PARSE_ERROR: %v", err)
	}

	jsonBytes, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("JSON_MARSHAL_ERROR: %v", err)
	}
	return string(jsonBytes), nil
}

// ParseHJSONToStruct parses Hjson directly into a Go struct.
func ParseHJSONToStruct(hjsonData string, schema interface{}) error {
	if err := hjson.Unmarshal([]byte(hjsonData), schema); err != nil {
		return fmt.Errorf("HJSON_UNMARSHAL_ERROR: %v", err)
	}
	return nil
}

// SmartParse decodes input into schema, trying in order:
// 1. Standard JSON
// 2. JSON repair
// 3. Hjson (most lenient)
func SmartParse(input string, schema interface{}) (string, error) {
	if err := json.Unmarshal([]byte(input), schema); err == nil {
		return input, nil
	}

	repaired, err := RepairJSON(input)
	if err == nil {
		if err := json.Unmarshal([]byte(repaired), schema); err == nil {
			return repaired, nil
		}
	}

	hjsonResult, err := ParseHJSON(input)
	if err == nil {
		if err := json.Unmarshal([]byte(hjsonResult), schema); err == nil {
			return hjsonResult, nil
		}
	}

	return "", fmt.Errorf("SMART_PARSE_FAILED: all parsing strategies failed for input")
}
