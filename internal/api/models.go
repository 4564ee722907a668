// Package api holds the wire types of the cluster-management HTTP API.
// Field names follow the server's camelCase JSON convention and must not
// be changed: the server is the authority on this contract.
package api

// State is the lifecycle state of an instance or replicaset.
type State string

const (
	StateOnline   State = "Online"
	StateOffline  State = "Offline"
	StateExpelled State = "Expelled"
)

// MemoryInfo reports used vs. usable memory in bytes.
type MemoryInfo struct {
	Usable uint64 `json:"usable"`
	Used   uint64 `json:"used"`
}

// ClusterInfo is the aggregate cluster snapshot from GET /api/v1/cluster.
type ClusterInfo struct {
	CapacityUsage  float64 `json:"capacityUsage"`
	ClusterName    string  `json:"clusterName"`
	ClusterVersion string  `json:"clusterVersion"`
	// The server misspells this field. Keep it verbatim or decoding breaks.
	CurrentInstanceVersion       string     `json:"currentInstaceVersion"`
	ReplicasetsCount             int        `json:"replicasetsCount"`
	InstancesCurrentStateOffline int        `json:"instancesCurrentStateOffline"`
	InstancesCurrentStateOnline  int        `json:"instancesCurrentStateOnline"`
	Memory                       MemoryInfo `json:"memory"`
	Plugins                      []string   `json:"plugins"`
}

// TierInfo is one element of the GET /api/v1/tiers array. The server-supplied
// replicaset order is authoritative and preserved as-is.
type TierInfo struct {
	Name            string           `json:"name"`
	ReplicasetCount int              `json:"replicasetCount"`
	RF              int              `json:"rf"`
	BucketCount     uint64           `json:"bucketCount"`
	InstanceCount   int              `json:"instanceCount"`
	CanVote         bool             `json:"can_vote"`
	Services        []string         `json:"services"`
	Memory          MemoryInfo       `json:"memory"`
	CapacityUsage   float64          `json:"capacityUsage"`
	Replicasets     []ReplicasetInfo `json:"replicasets"`
}

// ReplicasetInfo describes one replicaset and its member instances.
type ReplicasetInfo struct {
	Name          string         `json:"name"`
	Version       string         `json:"version"`
	State         State          `json:"state"`
	InstanceCount int            `json:"instanceCount"`
	UUID          string         `json:"uuid"`
	CapacityUsage float64        `json:"capacityUsage"`
	Memory        MemoryInfo     `json:"memory"`
	Instances     []InstanceInfo `json:"instances"`
}

// InstanceInfo describes a single cluster node.
type InstanceInfo struct {
	Name          string            `json:"name"`
	HTTPAddress   string            `json:"httpAddress"`
	BinaryAddress string            `json:"binaryAddress"`
	PgAddress     string            `json:"pgAddress"`
	Version       string            `json:"version"`
	FailureDomain map[string]string `json:"failureDomain"`
	IsLeader      bool              `json:"isLeader"`
	CurrentState  State             `json:"currentState"`
	TargetState   State             `json:"targetState"`
}

// UIConfig is the response of GET /api/v1/config.
type UIConfig struct {
	IsAuthEnabled bool `json:"isAuthEnabled"`
}

// LoginRequest is the body of POST /api/v1/session.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries the session tokens returned on successful login.
type TokenResponse struct {
	Auth    string `json:"auth"`
	Refresh string `json:"refresh"`
}

// ErrorResponse is the optional body of a non-2xx API response.
type ErrorResponse struct {
	Error        string `json:"error"`
	ErrorMessage string `json:"errorMessage"`
}
