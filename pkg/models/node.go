package models

// WorkflowNode is one status node of a named workflow's status machine.
// Nodes are configuration data: loaded once at startup, read-only during
// dispatch. HasOverride marks nodes a node-level handler is registered for.
type WorkflowNode struct {
	WorkflowName string     `json:"workflow_name"`
	StatusCode   StatusCode `json:"status_code"`
	HasOverride  bool       `json:"has_override"`
}

// NodeKey identifies a workflow status node.
type NodeKey struct {
	WorkflowName string
	StatusCode   StatusCode
}
