package internal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"messaging-lab/observability"

	"github.com/dgraph-io/badger/v4"
)

type keyRow struct {
	Key  string `json:"key"`
	Size int    `json:"size"`
}

// StartDebugServer exposes store and process introspection on a side port:
// /debug/stats returns a metrics snapshot, /debug/keys lists raw keys under
// a prefix. Not meant to face anything but an operator.
func StartDebugServer(log *slog.Logger, db *badger.DB, collector *observability.Collector, port int) {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /debug/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(collector.Collect())
	})

	mux.HandleFunc("GET /debug/keys", func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "msg:"
		}

		var rows []keyRow
		err := db.View(func(txn *badger.Txn) error {
			options := badger.DefaultIteratorOptions
			options.PrefetchValues = false
			it := txn.NewIterator(options)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				rows = append(rows, keyRow{
					Key:  string(item.Key()),
					Size: int(item.EstimatedSize()),
				})
			}
			return nil
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rows)
	})

	go func() {
		addr := fmt.Sprintf("localhost:%d", port)
		log.Info("Debug server listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("Debug server stopped", "err", err)
		}
	}()
}
