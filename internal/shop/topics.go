package shop

import "strconv"

const (
	TopicProducts = "champomix.champomi"
	TopicUsers    = "champomix.users"
	TopicOrders   = "champomix.orders"
)

// Topics lists every entity topic, for consumers.
var Topics = []string{TopicProducts, TopicUsers, TopicOrders}

// Partition key = entity id, so every event of one row keeps its order.
func PartitionKey(id int64) []byte { return []byte(strconv.FormatInt(id, 10)) }
