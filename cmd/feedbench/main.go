// Command feedbench measures index feed latency with and without the redis
// page cache against the configured database.
package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/yatube/config"
	"github.com/d60-Lab/yatube/internal/cache"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/service"
	"github.com/d60-Lab/yatube/pkg/database"
)

type scenarioResult struct {
	durations   []time.Duration
	stats       cache.Stats
	cacheKeys   int
	memoryBytes int64
}

const benchNamespace = "feedbench"

type benchOptions struct {
	authors  int
	posts    int
	requests int
	redisDB  int
}

// loadOptions reads the env knobs. The run writes bench rows into the
// configured database, so it refuses to start unless FEEDBENCH_CONFIRM=yes.
// Redis defaults to DB 15.
func loadOptions(getenv func(string) string) (benchOptions, error) {
	if getenv("FEEDBENCH_CONFIRM") != "yes" {
		return benchOptions{}, errors.New("feedbench seeds rows into the configured database; set FEEDBENCH_CONFIRM=yes to run")
	}
	opts := benchOptions{
		authors:  envInt(getenv, "AUTHORS", 200),
		posts:    envInt(getenv, "POSTS", 20000),
		requests: envInt(getenv, "REQUESTS", 5000),
		redisDB:  15,
	}
	if s := getenv("FEEDBENCH_REDIS_DB"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return benchOptions{}, fmt.Errorf("FEEDBENCH_REDIS_DB: invalid value %q", s)
		}
		opts.redisDB = n
	}
	return opts, nil
}

func main() {
	ctx := context.Background()
	opts, err := loadOptions(os.Getenv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	defer func() { _ = database.Close(db) }()

	authors, posts, requests := opts.authors, opts.posts, opts.requests

	fmt.Println("Setting up test data...")
	users := make([]model.User, authors)
	for i := range users {
		id := uuid.NewString()[:8]
		users[i] = model.User{Username: "bench_" + id, Email: id + "@example.com", PasswordHash: "-"}
	}
	mustDo(db.CreateInBatches(&users, 500).Error)
	userRepo := repository.NewUserRepository(db)
	defer func() {
		// 删除作者会级联删除其帖子
		for _, u := range users {
			if err := userRepo.Delete(ctx, u.ID); err != nil {
				fmt.Fprintf(os.Stderr, "cleanup %s: %v\n", u.Username, err)
			}
		}
	}()

	rows := make([]model.Post, posts)
	for i := range rows {
		rows[i] = model.Post{
			Text:     fmt.Sprintf("bench post %d", i),
			AuthorID: users[i%authors].ID,
		}
	}
	mustDo(db.CreateInBatches(&rows, 1000).Error)
	fmt.Printf("Test data ready: %d authors, %d posts\n", authors, posts)

	redisAddr := cfg.Redis.Addr
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: redisAddr, Password: cfg.Redis.Password, DB: opts.redisDB})
	defer client.Close()
	if err := client.Ping(ctx).Err(); err != nil {
		panic(fmt.Sprintf("connect redis %s: %v", redisAddr, err))
	}

	postRepo := repository.NewPostRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	redisCache := cache.NewRedisCache(client, benchNamespace, cfg.Cache.FeedTTL)

	reqs := makeRequests(requests, posts/cfg.Feed.PageSize+1)

	noCache := runScenario(ctx, client, redisCache,
		service.NewFeedService(postRepo, groupRepo, userRepo, cache.NopCache{}, cfg.Feed.PageSize), reqs)
	cached := runScenario(ctx, client, redisCache,
		service.NewFeedService(postRepo, groupRepo, userRepo, redisCache, cfg.Feed.PageSize), reqs)
	mustDo(redisCache.Invalidate(ctx, ""))

	fmt.Printf("\nIndex feed latency (%d req, %d posts, page size %d)\n", len(reqs), posts, cfg.Feed.PageSize)
	for _, row := range []struct {
		name string
		res  scenarioResult
	}{{"No cache", noCache}, {"Redis page cache", cached}} {
		fmt.Printf("%-18s avg=%v p95=%v p99=%v hits=%d misses=%d sets=%d cache_keys=%d mem=%s\n",
			row.name, avg(row.res.durations), pct(row.res.durations, 0.95), pct(row.res.durations, 0.99),
			row.res.stats.Hits, row.res.stats.Misses, row.res.stats.Sets,
			row.res.cacheKeys, formatBytes(row.res.memoryBytes),
		)
	}
}

// runScenario clears only the bench namespace before running; stats and key
// counts are read from rc whether or not feed goes through it.
func runScenario(ctx context.Context, client *redis.Client, rc *cache.RedisCache, feed service.FeedService, reqs []int) scenarioResult {
	mustDo(rc.Invalidate(ctx, ""))
	rc.ResetStats()

	fmt.Print("  Running benchmark...")
	out := make([]time.Duration, 0, len(reqs))
	for _, page := range reqs {
		start := time.Now()
		if _, err := feed.Page(ctx, service.AllPosts(), page); err != nil {
			panic(err)
		}
		out = append(out, time.Since(start))
	}
	fmt.Println(" done")

	res := scenarioResult{durations: out, stats: rc.Stats()}
	iter := client.Scan(ctx, 0, benchNamespace+":*", 100).Iterator()
	for iter.Next(ctx) {
		res.cacheKeys++
	}
	mustDo(iter.Err())
	if info, err := client.Info(ctx, "memory").Result(); err == nil {
		res.memoryBytes = parseRedisMemory(info)
	}
	return res
}

// parseRedisMemory extracts used_memory from INFO memory output.
func parseRedisMemory(info string) int64 {
	for _, line := range strings.Split(info, "\n") {
		v, ok := strings.CutPrefix(strings.TrimSpace(line), "used_memory:")
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

// makeRequests mostly hits the first page, with a tail of deeper pages.
func makeRequests(n, pages int) []int {
	out := make([]int, n)
	rnd := rand.New(rand.NewSource(42))
	for i := range out {
		out[i] = 1
		if rnd.Float64() > 0.72 && pages > 1 {
			out[i] = 2 + rnd.Intn(pages-1)
		}
	}
	return out
}

func envInt(getenv func(string) string, name string, def int) int {
	if s := getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func avg(vs []time.Duration) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range vs {
		sum += v
	}
	return sum / time.Duration(len(vs))
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), vs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := int(math.Ceil(p*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func mustDo(err error) {
	if err != nil {
		panic(err)
	}
}
