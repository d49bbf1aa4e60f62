package idgen

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node     *snowflake.Node
	nodeOnce sync.Once
	nodeMu   sync.Mutex
)

// Init selects the snowflake node for this process. Call it once at startup;
// GenerateID falls back to node 1 when Init was never called.
func Init(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return err
	}
	nodeMu.Lock()
	node = n
	nodeMu.Unlock()
	return nil
}

func GenerateID() int64 {
	nodeOnce.Do(func() {
		nodeMu.Lock()
		defer nodeMu.Unlock()
		if node == nil {
			node, _ = snowflake.NewNode(1)
		}
	})
	nodeMu.Lock()
	defer nodeMu.Unlock()
	return node.Generate().Int64()
}
