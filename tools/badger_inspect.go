package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"chat-hub/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// Dumps the store as a table, one row per key. Useful against a copy of
// the data dir; use the viewer for a live server.
func main() {
	dbPath := flag.String("db", "./data/badger", "Path to badger DB")
	// Default to messages; user: and group: are the other families
	prefix := flag.String("prefix", "msg:", "Prefix to scan")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	color.New(color.BgBlack, color.FgGreen).Printf("Scanning %s for prefix %q\n", *dbPath, *prefix)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "Entity ID", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()

			// Skip the name index entries, they carry no payload
			if strings.HasPrefix(string(item.Key()), "uname:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				table.Append(toRow(string(item.Key()), v))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.ERROR)
	return badger.Open(opts)
}

func toRow(key string, val []byte) []string {
	switch {
	case strings.HasPrefix(key, "msg:"):
		var msg domain.Message
		if err := json.Unmarshal(val, &msg); err != nil {
			break
		}
		detail := msg.Content
		if msg.IsAttachment {
			detail = "[file] " + detail
		}
		return []string{key, "MESSAGE", msg.CreatedAt.Format("15:04:05"),
			shortID(msg.ID.String()), fmt.Sprintf("%s -> %s: %s", msg.SenderID, msg.TargetID, detail)}

	case strings.HasPrefix(key, "user:"):
		var user domain.User
		if err := json.Unmarshal(val, &user); err != nil {
			break
		}
		return []string{key, "USER", user.CreatedAt.Format("2006-01-02"),
			shortID(user.ID), fmt.Sprintf("%s banned=%v roles=%v", user.Name, user.Banned, user.Roles)}

	case strings.HasPrefix(key, "group:"):
		var group domain.Group
		if err := json.Unmarshal(val, &group); err != nil {
			break
		}
		return []string{key, "GROUP", group.CreatedAt.Format("2006-01-02"),
			shortID(group.ID), fmt.Sprintf("%s rule=%s members=%d admins=%d pending=%d",
				group.Name, group.Rule, len(group.Members), len(group.Admins), len(group.Pending))}
	}
	return []string{key, "RAW", "--:--:--", "--------", fmt.Sprintf("size: %d bytes", len(val))}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
