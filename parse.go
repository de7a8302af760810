package aitable

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/widgetsb/aitable/domain/model"
)

// rawDocument mirrors the expected JSON document. Pointer fields distinguish
// a missing key from a present-but-zero value.
type rawDocument struct {
	TableConfig    *rawTableConfig    `json:"table_config"`
	TableStructure *rawTableStructure `json:"table_structure"`
	TableData      *[][]string        `json:"table_data"`
}

type rawTableConfig struct {
	TableName           *string  `json:"table_name"`
	CategoryID          *int     `json:"category_id"`
	Tags                []string `json:"tags"`
	AutoDetectSensitive *bool    `json:"auto_detect_sensitive"`
	AutoDetectURLs      *bool    `json:"auto_detect_urls"`
}

type rawTableStructure struct {
	Columns *[]rawColumn `json:"columns"`
}

type rawColumn struct {
	Name        *string `json:"name"`
	Type        string  `json:"type"`
	IsSensitive *bool   `json:"is_sensitive"`
	Description string  `json:"description"`
}

// ParseJSON converts a raw table document into a TableData instance. It
// returns the parsed table and a list of errors; on any error the table is
// nil. ParseJSON applies defaults for optional fields (empty tag list,
// auto-detect flags on, TEXT column type, non-sensitive) and silently
// coerces unknown column type strings to TEXT, matching the tolerance AI
// generated documents need.
//
// ParseJSON assumes the document already passed ValidateJSON; it still
// reports missing required fields rather than panicking on malformed input.
func ParseJSON(jsonStr string) (*model.TableData, []string) {
	dec := json.NewDecoder(strings.NewReader(jsonStr))

	var raw rawDocument
	if err := dec.Decode(&raw); err != nil {
		return nil, []string{fmt.Sprintf("failed to parse JSON: %v", err)}
	}
	if trailingData(dec) {
		return nil, []string{"failed to parse JSON: unexpected data after document"}
	}

	var errs []string
	if raw.TableConfig == nil {
		errs = append(errs, "missing required field: table_config")
	}
	if raw.TableStructure == nil {
		errs = append(errs, "missing required field: table_structure")
	}
	if raw.TableData == nil {
		errs = append(errs, "missing required field: table_data")
	}
	if len(errs) > 0 {
		return nil, errs
	}

	if raw.TableConfig.TableName == nil {
		errs = append(errs, "missing required field: table_config.table_name")
	}
	if raw.TableConfig.CategoryID == nil {
		errs = append(errs, "missing required field: table_config.category_id")
	}
	if raw.TableStructure.Columns == nil {
		errs = append(errs, "missing required field: table_structure.columns")
	}
	if len(errs) > 0 {
		return nil, errs
	}

	config := model.TableConfig{
		TableName:           *raw.TableConfig.TableName,
		CategoryID:          *raw.TableConfig.CategoryID,
		Tags:                raw.TableConfig.Tags,
		AutoDetectSensitive: true,
		AutoDetectURLs:      true,
	}
	if config.Tags == nil {
		config.Tags = []string{}
	}
	if raw.TableConfig.AutoDetectSensitive != nil {
		config.AutoDetectSensitive = *raw.TableConfig.AutoDetectSensitive
	}
	if raw.TableConfig.AutoDetectURLs != nil {
		config.AutoDetectURLs = *raw.TableConfig.AutoDetectURLs
	}

	columns := make(model.TableStructure, 0, len(*raw.TableStructure.Columns))
	for i, rc := range *raw.TableStructure.Columns {
		if rc.Name == nil {
			errs = append(errs, fmt.Sprintf("column %d: missing required field: name", i+1))
			continue
		}
		sensitive := false
		if rc.IsSensitive != nil {
			sensitive = *rc.IsSensitive
		}
		columns = append(columns, model.NewColumnConfig(*rc.Name, rc.Type, sensitive, rc.Description))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	table := model.NewTableData(config, columns, *raw.TableData)
	return table, nil
}
