package main

import (
	"context"
	"fmt"

	"github.com/ZaninAndrea/compactls/internal/geostore"
	"github.com/ZaninAndrea/compactls/pkg/compactls"
	"github.com/ZaninAndrea/compactls/pkg/geometry"
)

func main() {
	ls, err := geometry.ParseLineString(
		"76.9615707 43.2746200, 76.9616699 43.2747688, 76.9620742 43.2753715, 76.9627532 43.2764091",
	)
	if err != nil {
		panic(err)
	}

	angular, err := compactls.TryCompact7(ls)
	if err != nil {
		panic(err)
	}
	metric, err := compactls.TryCompact2(ls)
	if err != nil {
		panic(err)
	}

	fmt.Printf("raw: %d bytes, 7-digit: %d bytes, 2-digit: %d bytes\n",
		16*len(ls), len(angular.Bytes()), len(metric.Bytes()))

	store, err := geostore.Open("./tmp/geostore")
	if err != nil {
		panic(err)
	}
	defer store.Close()

	ctx := context.Background()
	labels := geostore.Labels{"region": "almaty", "kind": "road"}

	err = store.Put(ctx, labels, "way/261728404", angular)
	if err != nil {
		panic(err)
	}

	fetched, err := store.Get(ctx, labels, "way/261728404")
	if err != nil {
		panic(err)
	}

	decoded, err := fetched.Linestring()
	if err != nil {
		panic(err)
	}

	fmt.Printf("fetched %d points:\n", len(decoded))
	for _, c := range decoded {
		fmt.Printf("  %.7f %.7f\n", c.X, c.Y)
	}
}
