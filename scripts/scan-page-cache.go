package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/lenna/internal/clients/wiki"
	"github.com/KirkDiggler/lenna/internal/repositories/pagecache"
)

// Scans the redis page cache for entries that no longer decode and lists
// pinned pages. Corrupted entries can be deleted; lenna refetches them.
func main() {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}
	prefix := os.Getenv("LENNA_REDIS_KEY_PREFIX")
	if prefix == "" {
		prefix = "pagecache:"
	}

	opt, err := goredis.ParseURL(redisURL)
	if err != nil {
		log.Fatal("Failed to parse Redis URL:", err)
	}

	client := goredis.NewClient(opt)
	defer client.Close()
	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	cache, err := pagecache.NewRedis(&pagecache.RedisConfig{Client: client, KeyPrefix: prefix})
	if err != nil {
		log.Fatal("Failed to open page cache:", err)
	}

	fmt.Println("Connected to Redis:", redisURL)
	fmt.Println("Scanning page cache...")

	iter := client.Scan(ctx, 0, prefix+"*", 0).Iterator()

	var corruptedKeys, pinned []string
	var checkedCount int

	for iter.Next(ctx) {
		key := iter.Val()
		checkedCount++

		out, err := cache.Get(ctx, pagecache.GetInput{PageID: strings.TrimPrefix(key, prefix)})
		if err != nil {
			fmt.Printf("✗ Unreadable entry %s: %v\n", key, err)
			corruptedKeys = append(corruptedKeys, key)
			continue
		}

		if _, err := wiki.Wikitext(out.Entry.Payload); err != nil {
			fmt.Printf("✗ Payload without wikitext in %s\n", key)
			corruptedKeys = append(corruptedKeys, key)
			continue
		}

		if !out.Entry.Updateable {
			pinned = append(pinned, fmt.Sprintf("%s (since %s)", out.Entry.PageID, out.Entry.FetchedAt.Format("2006-01-02")))
		}
	}

	if err := iter.Err(); err != nil {
		log.Fatal("Error during scan:", err)
	}

	fmt.Printf("\nChecked %d keys, found %d corrupted and %d pinned entries\n", checkedCount, len(corruptedKeys), len(pinned))

	if len(pinned) > 0 {
		fmt.Println("\nPinned pages (refresh with --force):")
		for _, p := range pinned {
			fmt.Printf("  - %s\n", p)
		}
	}

	if len(corruptedKeys) == 0 {
		fmt.Println("No corrupted data found!")
		return
	}

	fmt.Println("\nCorrupted keys:")
	for _, key := range corruptedKeys {
		fmt.Printf("  - %s\n", key)
	}

	fmt.Print("\nDo you want to DELETE these corrupted entries? (yes/no): ")
	var response string
	_, _ = fmt.Scanln(&response)

	if response != "yes" {
		fmt.Println("Aborted - no changes made")
		return
	}
	for _, key := range corruptedKeys {
		if err := client.Del(ctx, key).Err(); err != nil {
			fmt.Printf("Failed to delete %s: %v\n", key, err)
		} else {
			fmt.Printf("Deleted %s\n", key)
		}
	}
	fmt.Println("\nCleanup complete!")
}
