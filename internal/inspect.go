package internal

import (
	"alumni-chat/infrastructure/storage"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// InspectRow is one badger entry flattened for display.
type InspectRow struct {
	Key       string
	Type      string
	Timestamp string
	EntityID  string
	Detail    string
}

type RowMapper func(key string, val []byte) InspectRow

// Scan maps every entry under prefix, in key order. Values that fail to
// decode are still listed with a raw detail.
func Scan(db *badger.DB, prefix string, mapper RowMapper) ([]InspectRow, error) {
	if mapper == nil {
		mapper = ChatMapper
	}
	var rows []InspectRow
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
			item := it.Item()
			key := string(item.KeyCopy(nil))
			err := item.Value(func(val []byte) error {
				rows = append(rows, mapper(key, val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return rows, err
}

// ChatMapper understands the conv:, msg:, inbox: and profile: namespaces.
func ChatMapper(key string, val []byte) InspectRow {
	namespace, _, _ := strings.Cut(key, ":")
	row := InspectRow{
		Key:       key,
		Type:      strings.ToUpper(namespace),
		Timestamp: "--:--:--",
		EntityID:  "--------",
		Detail:    "Size: " + strconv.Itoa(len(val)) + " bytes",
	}

	var fields map[string]any
	decoded := len(val) > 0 && json.Unmarshal(val, &fields) == nil

	switch namespace {
	case "msg":
		if _, tsNano, messageID, ok := storage.ParseMessageKey(key); ok {
			row.Timestamp = time.Unix(0, tsNano).UTC().Format("15:04:05")
			row.EntityID = shorten(messageID)
		}
		if decoded {
			row.Detail = stringField(fields, "sender_id") + ": " + stringField(fields, "text")
		}
	case "conv":
		row.EntityID = strings.TrimPrefix(key, "conv:")
		if decoded {
			row.Detail = stringField(fields, "last_message_text")
			if ns, ok := fields["last_activity_at"].(float64); ok {
				row.Timestamp = time.Unix(0, int64(ns)).UTC().Format("15:04:05")
			}
		}
	case "inbox":
		if userID, id, ok := storage.ParseInboxKey(key); ok {
			row.EntityID = userID
			row.Detail = "-> " + id.String()
		}
	case "profile":
		row.EntityID = strings.TrimPrefix(key, "profile:")
		if decoded {
			row.Detail = stringField(fields, "display_name")
		}
	default:
		row.Type = "RAW"
	}
	return row
}

func stringField(fields map[string]any, name string) string {
	value, _ := fields[name].(string)
	return value
}

func shorten(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
