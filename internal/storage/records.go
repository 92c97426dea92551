package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Record is one raw storage row: column name to driver value. Values may be
// sqlite native types or, when they crossed the remote service's JSON
// boundary, their JSON decodings (float64 numbers, already-decoded lists).
type Record map[string]any

// ScanRecords drains rows into ordered Records, converting []byte column
// values to strings.
func ScanRecords(rows *sql.Rows) ([]Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out []Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		rec := make(Record, len(cols))
		for i, col := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			rec[col] = v
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Text coerces a record value to a string. Nil becomes "".
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return fmt.Sprint(t)
	}
}

// Flag coerces a record value to a boolean. Sqlite stores flags as 0/1
// integers; the remote JSON path may deliver float64 or bool.
func Flag(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case int64:
		return t != 0
	case int:
		return t != 0
	case float64:
		return t != 0
	case string:
		return t == "1" || t == "true"
	default:
		return false
	}
}

// Count coerces a record value to an integer.
func Count(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	default:
		return 0
	}
}

// When parses a stored timestamp, defaulting to now when the value is absent
// or unparseable. The fallback is lossy but matches the contract: a missing
// timestamp is not an error.
func When(v any) time.Time {
	s := Text(v)
	if s == "" {
		return time.Now()
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return time.Now()
}

// FormatWidget is the single canonicalization point from a raw row to a
// Widget. Tags tolerate both a JSON string (sqlite) and an already-decoded
// list (remote JSON), falling back to an empty list.
func FormatWidget(rec Record) Widget {
	w := Widget{
		ID:             Text(rec["id"]),
		Title:          Text(rec["title"]),
		Content:        Text(rec["content"]),
		Type:           WidgetType(Text(rec["type"])),
		Tags:           decodeTags(rec["tags"]),
		URL:            Text(rec["url"]),
		IsProtected:    Flag(rec["isProtected"]),
		CredentialType: Text(rec["credentialType"]),
		FolderID:       Text(rec["folder_id"]),
		CreatedAt:      When(rec["createdAt"]),
		UpdatedAt:      When(rec["updatedAt"]),
	}
	if raw := Text(rec["customFields"]); raw != "" {
		var fields map[string]string
		if err := json.Unmarshal([]byte(raw), &fields); err == nil {
			w.CustomFields = fields
		}
	}
	return w
}

// FormatFolder canonicalizes a raw folders row. Level is only present on
// hierarchy query rows and defaults to zero elsewhere.
func FormatFolder(rec Record) Folder {
	return Folder{
		ID:        Text(rec["id"]),
		Name:      Text(rec["name"]),
		Type:      FolderType(Text(rec["type"])),
		ParentID:  Text(rec["parent_id"]),
		Level:     int(Count(rec["level"])),
		CreatedAt: When(rec["createdAt"]),
		UpdatedAt: When(rec["updatedAt"]),
	}
}

func decodeTags(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		tags := make([]string, 0, len(t))
		for _, e := range t {
			tags = append(tags, Text(e))
		}
		return tags
	case string, []byte:
		var tags []string
		if err := json.Unmarshal([]byte(Text(v)), &tags); err == nil && tags != nil {
			return tags
		}
	}
	return []string{}
}
