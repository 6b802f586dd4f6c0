package main

import "github.com/pfrederiksen/ai-news-events/internal/cli"

func main() {
	cli.Execute()
}
