package types

// ExecuteRequest represents a service execution request
type ExecuteRequest struct {
	ToolID string                 `json:"tool_id" binding:"required"`
	Params map[string]interface{} `json:"params" binding:"required"`
	TaskID *string                `json:"task_id,omitempty"`
}

// DiscoverRequest represents a service discovery query
type DiscoverRequest struct {
	Query string `json:"query" binding:"required"`
}
