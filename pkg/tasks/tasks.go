// Package tasks defines the structure for tasks that are sent to Kafka.
package tasks

// 任务动作类型。
const (
	ActionUpsert = "upsert"
	ActionDelete = "delete"
)

// ListingSyncTask represents a listing change that needs to be synced into
// the search index and the similar-listing cache.
type ListingSyncTask struct {
	Action    string `json:"action"`
	ListingID string `json:"listing_id"`
}
