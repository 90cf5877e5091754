package request

// CreateSnapshotRequest optionally names the day to snapshot; empty means today (UTC).
type CreateSnapshotRequest struct {
	Date string `json:"date,omitempty"`
}
