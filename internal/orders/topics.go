package orders

import "strconv"

const (
	TopicOrderCreated = "econstore.order.created"
	TopicStockLow     = "econstore.product.stock.low"
)

// Partition key = id, supaya semua event 1 order/produk tetap berurutan.
func PartitionKey(id int64) []byte { return []byte(strconv.FormatInt(id, 10)) }
