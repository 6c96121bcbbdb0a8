package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// IndexPagePrefix namespaces index listing fragments. The canonical page
// number is appended, so the entry is shared by every visitor of that page.
const IndexPagePrefix = "index_page:"

// DeleteByPrefix removes every key starting with prefix via SCAN.
func DeleteByPrefix(ctx context.Context, rdb *redis.Client, prefix string) (int, error) {
	if rdb == nil {
		return 0, nil
	}

	deleted := 0
	var cursor uint64
	for {
		keys, next, err := rdb.Scan(ctx, cursor, prefix+"*", 100).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := rdb.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	return deleted, nil
}
