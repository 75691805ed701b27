package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/ZaninAndrea/compactls/internal/geostore"
	"github.com/ZaninAndrea/compactls/pkg/compactls"
	"github.com/ZaninAndrea/compactls/pkg/geometry"
)

// randomWalk builds a polyline that wanders from a base coordinate in small
// steps, the shape the codec is optimized for.
func randomWalk(rng *rand.Rand, points int) geometry.LineString {
	x := 76.8 + rng.Float64()*0.3
	y := 43.1 + rng.Float64()*0.3

	ls := make(geometry.LineString, 0, points)
	for i := 0; i < points; i++ {
		ls = append(ls, geometry.Coord{X: x, Y: y})
		x += (rng.Float64() - 0.5) * 1e-3
		y += (rng.Float64() - 0.5) * 1e-3
	}

	return ls
}

func main() {
	store, err := geostore.Open("./tmp/load")
	if err != nil {
		panic(err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var totalFeatures uint64
	ticker := time.NewTicker(time.Second)
	quit := make(chan struct{})
	go func() {
		var last uint64
		for {
			select {
			case <-ticker.C:
				current := atomic.LoadUint64(&totalFeatures)
				delta := current - last
				last = current
				log.Printf("ingest rate: %d features/sec, total: %d\n", delta, current)
			case <-quit:
				ticker.Stop()
				return
			}
		}
	}()

Loop:
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		labels := geostore.Labels{
			"region": "almaty",
			"batch":  strconv.Itoa(i % 100),
		}

		geom, err := compactls.TryCompact7(randomWalk(rng, 20+rng.Intn(80)))
		if err != nil {
			panic(err)
		}

		if err := store.Put(ctx, labels, fmt.Sprintf("way/%d", i), geom); err != nil {
			panic(err)
		}
		atomic.AddUint64(&totalFeatures, 1)
	}

	close(quit)
	final := atomic.LoadUint64(&totalFeatures)
	log.Printf("ingest finished: total features=%d\n", final)
}
