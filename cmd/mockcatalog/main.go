package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"shopgrip/internal/mockcatalog"
)

func main() {
	var addr string
	var failIDs []string
	pflag.StringVar(&addr, "addr", ":8390", "listen address")
	pflag.StringSliceVar(&failIDs, "fail-images", nil, "product ids whose images return errors")
	pflag.Parse()

	fixture := mockcatalog.ResolveImageURLs(mockcatalog.DefaultFixture(), "http://localhost"+addr)
	srv := mockcatalog.NewServer(
		mockcatalog.WithProducts(fixture),
		mockcatalog.WithFailingImages(failIDs...),
	)

	if err := srv.ListenAndServe(addr); err != nil {
		log.Printf("Mock catalog stopped: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
