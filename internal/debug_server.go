package internal

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"chat-hub/domain"

	"github.com/dgraph-io/badger/v4"
)

//go:embed inspect.html
var templatesFS embed.FS

type InspectRow struct {
	Key       string
	Type      string
	Timestamp string
	EntityID  string
	Detail    string
}

type RowMapper func(key string, val []byte) InspectRow
type StatsProvider func() map[string]any

type PageData struct {
	Prefix string
	Items  []InspectRow
	Stats  map[string]any
}

// StartDebugServer serves a read-only HTML view over the badger store,
// one row per key under the requested prefix. It runs beside the API on
// its own port and never writes.
func StartDebugServer(db *badger.DB, port int, endpoint string, mapper RowMapper, statsProvider StatsProvider) {
	mux := http.NewServeMux()
	tmpl := template.Must(template.ParseFS(templatesFS, "inspect.html"))

	if mapper == nil {
		mapper = DefaultMapper
	}

	mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "msg:"
		}

		data := PageData{
			Prefix: prefix,
			Stats:  make(map[string]any),
		}
		if statsProvider != nil {
			data.Stats = statsProvider()
		}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				_ = item.Value(func(val []byte) error {
					data.Items = append(data.Items, mapper(string(item.Key()), val))
					return nil
				})
			}
			return nil
		})

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = tmpl.Execute(w, data)
	})

	go func() {
		_ = http.ListenAndServe(fmt.Sprintf("0.0.0.0:%d", port), mux)
	}()
}

// DefaultMapper renders the store's three key families: user:{id},
// group:{id} and msg:{conv}:{ts}:{uuid}.
func DefaultMapper(key string, val []byte) InspectRow {
	row := InspectRow{
		Key:       key,
		Type:      "RAW",
		Timestamp: "--:--:--",
		EntityID:  "--------",
		Detail:    fmt.Sprintf("size: %d bytes", len(val)),
	}

	switch {
	case strings.HasPrefix(key, "msg:"):
		var msg domain.Message
		if err := json.Unmarshal(val, &msg); err != nil {
			return row
		}
		row.Type = "MESSAGE"
		row.Timestamp = msg.CreatedAt.Format("15:04:05")
		row.EntityID = shorten(msg.ID.String())
		row.Detail = fmt.Sprintf("%s -> %s: %s", msg.SenderID, msg.TargetID, msg.Content)

	case strings.HasPrefix(key, "user:"):
		var user domain.User
		if err := json.Unmarshal(val, &user); err != nil {
			return row
		}
		row.Type = "USER"
		row.Timestamp = user.CreatedAt.Format(time.DateOnly)
		row.EntityID = shorten(user.ID)
		row.Detail = fmt.Sprintf("%s banned=%v roles=%v", user.Name, user.Banned, user.Roles)

	case strings.HasPrefix(key, "group:"):
		var group domain.Group
		if err := json.Unmarshal(val, &group); err != nil {
			return row
		}
		row.Type = "GROUP"
		row.Timestamp = group.CreatedAt.Format(time.DateOnly)
		row.EntityID = shorten(group.ID)
		row.Detail = fmt.Sprintf("%s rule=%s members=%d pending=%d",
			group.Name, group.Rule, len(group.Members), len(group.Pending))
	}
	return row
}

func shorten(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
