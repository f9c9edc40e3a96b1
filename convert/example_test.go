package convert_test

import (
	"context"
	"fmt"

	"github.com/jonwraymond/snipfmt/cache"
	"github.com/jonwraymond/snipfmt/convert"
)

func ExampleConverter_Convert() {
	conv := convert.New(cache.NewMemoryCache())

	res, err := conv.Convert(context.Background(), `{"name": "web", "replicas": 2}`)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Print(res.Output)
	fmt.Println(res.Mode)
	// Output:
	// name: web
	// replicas: 2
	// yaml
}

func ExampleDetect() {
	fmt.Println(convert.Detect(`{"a": 1}`))
	fmt.Println(convert.Detect("a: 1"))
	fmt.Println(convert.Detect(""))
	// Output:
	// json
	// yaml
	// unknown
}
