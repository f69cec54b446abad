package main

import "github.com/hupe1980/hclust/cmd/handlers"

func main() {
	handlers.Execute()
}
