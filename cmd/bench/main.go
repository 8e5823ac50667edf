// Command bench runs a synthetic workload against the cache and exposes
// optional pprof/Prometheus endpoints.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cuipf1989/pincache/cache"
	pmet "github.com/cuipf1989/pincache/metrics/prom"
	"github.com/cuipf1989/pincache/policy/twoq"
)

func main() {
	// ---- Flags ----
	var (
		capacity = flag.Int64("cap", 100_000, "cache capacity (charge units)")
		shards   = flag.Int("shards", 0, "number of shards (0 = default 16)")
		policy   = flag.String("policy", "lru", "eviction policy: lru | 2q")

		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")
		prunes   = flag.Duration("prune", 0, "prune interval (0 = disabled)")

		keys  = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed  = flag.Int64("seed", time.Now().UnixNano(), "random seed")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
	)
	flag.Parse()

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "pincache", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("metrics: serving at %s", *metricsAddr)
		log.Println(http.ListenAndServe(*metricsAddr, nil))
	}()

	// ---- Build cache ----
	opt := cache.Options[string, string]{
		Capacity: *capacity,
		Shards:   *shards,
		Metrics:  metrics,
	}
	switch *policy {
	case "lru":
		// nil => LRU by default
	case "2q":
		// per-shard probation ≈ 25% of the shard budget, ghosts ≈ 50%
		n := *shards
		if n <= 0 {
			n = cache.DefaultShards
		}
		per := int(*capacity) / n
		opt.Policy = twoq.New[string](per/4, per/2)
	default:
		log.Fatalf("unknown policy: %q (use lru or 2q)", *policy)
	}
	c := cache.New[string, string](opt)
	defer func() { _ = c.Close() }()

	// ---- Preload half capacity for a realistic hit-rate ----
	for i := 0; i < int(*capacity)/2; i++ {
		k := "k:" + strconv.Itoa(i)
		c.Release(c.Insert(k, "v"+strconv.Itoa(i)))
	}

	// ---- Optional periodic prune ----
	stopPrune := make(chan struct{})
	if *prunes > 0 {
		go func() {
			t := time.NewTicker(*prunes)
			defer t.Stop()
			for {
				select {
				case <-stopPrune:
					return
				case <-t.C:
					c.Prune()
				}
			}
		}()
	}

	// ---- Workload ----
	var (
		total, reads, writes, hits, misses uint64
	)
	readPctVal := *readPct
	keysMax := uint64(*keys - 1)
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	deadline := time.After(*duration)
	stop := make(chan struct{})
	go func() {
		<-deadline
		close(stop)
	}()

	start := time.Now()
	var wg sync.WaitGroup
	wg.Add(workersN)
	for w := 0; w < workersN; w++ {
		go func(id int) {
			defer wg.Done()
			localR := rand.New(rand.NewSource(*seed + int64(id)*7919))
			zipf := rand.NewZipf(localR, *zipfS, *zipfV, keysMax)
			keyByZipf := func() string { return "k:" + strconv.FormatUint(zipf.Uint64(), 10) }

			for {
				select {
				case <-stop:
					return
				default:
				}

				atomic.AddUint64(&total, 1)
				if int(localR.Int31n(100)) < readPctVal {
					atomic.AddUint64(&reads, 1)
					if h, ok := c.Lookup(keyByZipf()); ok {
						atomic.AddUint64(&hits, 1)
						c.Release(h)
					} else {
						atomic.AddUint64(&misses, 1)
					}
				} else {
					atomic.AddUint64(&writes, 1)
					if h := c.Insert(keyByZipf(), "v"+strconv.Itoa(localR.Int())); h != nil {
						c.Release(h)
					}
				}
			}
		}(w)
	}
	wg.Wait()
	close(stopPrune)
	elapsed := time.Since(start)

	// ---- Report ----
	ops := atomic.LoadUint64(&total)
	readsN := atomic.LoadUint64(&reads)
	writesN := atomic.LoadUint64(&writes)
	hitsN := atomic.LoadUint64(&hits)
	missesN := atomic.LoadUint64(&misses)

	hitRate := 0.0
	if readsN > 0 {
		hitRate = float64(hitsN) / float64(readsN) * 100
	}

	fmt.Printf("policy=%s cap=%d shards=%d workers=%d keys=%d dur=%v seed=%d\n",
		*policy, *capacity, *shards, workersN, *keys, elapsed, *seed)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d\n",
		ops, float64(ops)/elapsed.Seconds(), readsN, writesN)
	fmt.Printf("hits=%d  misses=%d  hit-rate=%.2f%%\n", hitsN, missesN, hitRate)

	st := c.Stats()
	fmt.Printf("Len()=%d Usage()=%d evictions=%d reclaims=%d\n",
		c.Len(), c.Usage(), st.Evictions, st.Reclaims)
}
