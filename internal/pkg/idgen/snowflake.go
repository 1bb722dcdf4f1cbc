package idgen

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Initialize sets up the Snowflake ID generator with a node ID.
// Each admin host (cli, web) should use its own node ID so request IDs never collide in backend logs.
func Initialize(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// GenerateID generates a new Snowflake ID as a string
func GenerateID() string {
	// No-op once a host has called Initialize with its own node ID
	_ = Initialize(1)
	return node.Generate().String()
}

// RequestID returns an ID suitable for the X-Request-ID header
func RequestID() string {
	return "req-" + GenerateID()
}
