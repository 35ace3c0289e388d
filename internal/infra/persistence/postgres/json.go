package postgres

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// Helpers for mapping jsonb columns to and from domain field types.
// Marshal failures on plain string slices and maps cannot happen, so the
// mappers swallow them and fall back to an empty value.

func stringsToJSON(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}

	return datatypes.JSON(raw)
}

func stringsFromJSON(data datatypes.JSON) []string {
	if len(data) == 0 {
		return nil
	}

	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil
	}

	return values
}

func mapToJSON(values map[string]any) datatypes.JSON {
	if values == nil {
		return nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON([]byte("{}"))
	}

	return datatypes.JSON(raw)
}

func mapFromJSON(data datatypes.JSON) map[string]any {
	if len(data) == 0 {
		return nil
	}

	var values map[string]any
	if err := json.Unmarshal(data, &values); err != nil {
		return nil
	}

	return values
}
