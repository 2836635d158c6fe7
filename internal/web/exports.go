package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/errextract/internal/core"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

var errDownloadExpired = errors.New("download expired or unknown")

// exportStore keeps recent exports, keyed by run ID, for the download button
// on the results page. Entries expire after the TTL and the oldest entry is
// evicted when the store is full.
type exportStore struct {
	cache *expirable.LRU[string, []byte]
}

func newExportStore(size int, ttl time.Duration) *exportStore {
	return &exportStore{cache: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (e *exportStore) put(id string, data []byte) {
	e.cache.Add(id, data)
}

func (e *exportStore) get(id string) ([]byte, bool) {
	if id == "" {
		return nil, false
	}
	return e.cache.Get(id)
}

// handleDownload serves an export kept from an earlier POST /process.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PostFormValue("id")

	data, ok := s.exports.get(id)
	if !ok {
		respondError(w, r, fmt.Errorf("%w: %q", errDownloadExpired, id), http.StatusNotFound)
		return
	}

	writeExport(w, id, data)
}

// writeExport sends data as processed_data.csv.
func writeExport(w http.ResponseWriter, runID string, data []byte) {
	w.Header().Set("Content-Type", core.ExportContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, core.ExportFileName))
	w.Header().Set("X-Run-ID", runID)
	w.Write(data)
}
