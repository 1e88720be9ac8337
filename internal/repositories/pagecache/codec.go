package pagecache

import (
	"encoding/json"
	"time"

	"github.com/KirkDiggler/lenna/internal/errors"
)

const (
	errPageIDEmpty   = "page ID cannot be empty"
	errEntryNil      = "entry cannot be nil"
	errPayloadNotRaw = "payload must be a JSON document"
)

// record is the serialized form shared by the redis, filesystem and object
// backends. The payload is embedded as-is so cache files stay readable.
type record struct {
	PageID     string          `json:"page_id"`
	Fetched    time.Time       `json:"fetched"`
	Updateable bool            `json:"updateable"`
	Payload    json.RawMessage `json:"payload"`
}

func validateGet(input GetInput) (string, error) {
	id := NormalizeID(input.PageID)
	if id == "" {
		return "", errors.InvalidArgument(errPageIDEmpty)
	}
	return id, nil
}

// validatePut checks the entry and returns a copy keyed by its normalized id.
func validatePut(input PutInput) (*Entry, error) {
	if input.Entry == nil {
		return nil, errors.InvalidArgument(errEntryNil)
	}
	id := NormalizeID(input.Entry.PageID)

	vb := errors.NewValidationBuilder()
	if id == "" {
		vb.RequiredField("page_id")
	}
	if !json.Valid(input.Entry.Payload) {
		vb.InvalidField("payload", errPayloadNotRaw)
	}
	if input.Entry.FetchedAt.IsZero() {
		vb.RequiredField("fetched_at")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	entry := *input.Entry
	entry.PageID = id
	entry.FetchedAt = entry.FetchedAt.UTC()
	return &entry, nil
}

func encodeEntry(entry *Entry) ([]byte, error) {
	data, err := json.Marshal(record{
		PageID:     entry.PageID,
		Fetched:    entry.FetchedAt,
		Updateable: entry.Updateable,
		Payload:    entry.Payload,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal cache entry %s", entry.PageID)
	}
	return data, nil
}

func decodeEntry(pageID string, data []byte) (*Entry, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal cache entry %s", pageID)
	}
	return &Entry{
		PageID:     pageID,
		Payload:    []byte(rec.Payload),
		FetchedAt:  rec.Fetched.UTC(),
		Updateable: rec.Updateable,
	}, nil
}
