package types

// Task status values reported by the upstream service.
const (
	TaskStatusSubmitted  = "submitted"
	TaskStatusProcessing = "processing"
	TaskStatusSucceed    = "succeed"
	TaskStatusFailed     = "failed"
)

// TaskStatus is the common envelope of every asynchronous task.
type TaskStatus struct {
	TaskID        string `json:"task_id"`
	TaskStatus    string `json:"task_status"`
	TaskStatusMsg string `json:"task_status_msg,omitempty"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`
}

// VideoResult is one generated video inside a finished task.
type VideoResult struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	Duration string `json:"duration"`
}

// TaskCreated is the response body of every task-creating POST.
type TaskCreated struct {
	TaskID string `json:"task_id"`
}

// TaskList is a paginated task listing.
type TaskList[T any] struct {
	Total int `json:"total"`
	List  []T `json:"list"`
}
