package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

// inspect dumps the raw content of the store, one row per key. Keys encode
// their own namespace (user:, user:email:, conv:, msg:), message keys also
// carry the padded send timestamp.
func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Namespace", "Timestamp", "Entity ID", "Value"})
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

func toRow(key string, value []byte) []string {
	parts := strings.Split(key, ":")
	namespace := parts[0]
	timestamp := "--:--:--"
	entityID := "--------"

	switch namespace {
	case "msg":
		// msg:{conversation}:{padded nanos}:{uuid}
		if len(parts) == 4 {
			if tsNano, err := strconv.ParseInt(parts[2], 10, 64); err == nil {
				timestamp = time.Unix(0, tsNano).UTC().Format("15:04:05")
			}
			entityID = shorten(parts[3])
		}
	case "user", "conv":
		if len(parts) >= 2 {
			entityID = shorten(parts[len(parts)-1])
		}
	}

	return []string{key, namespace, timestamp, entityID, compactJSON(value)}
}

func shorten(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// compactJSON re-renders the stored value on one line, hiding sensitive fields.
func compactJSON(value []byte) string {
	var decoded map[string]any
	if err := json.Unmarshal(value, &decoded); err != nil {
		return fmt.Sprintf("<%d raw bytes>", len(value))
	}
	delete(decoded, "password_hash")
	out, err := json.Marshal(decoded)
	if err != nil {
		return fmt.Sprintf("<%d raw bytes>", len(value))
	}
	if len(out) > 120 {
		return string(out[:117]) + "..."
	}
	return string(out)
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)
	return badger.Open(opts)
}
